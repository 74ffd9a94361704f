package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("translate french strings:\n"), 0644))
	return path
}

func relPaths(t *testing.T, root string, entries []FileEntry) []string {
	t.Helper()
	var out []string
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestWalk_FindsScripts(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "game/script.rpy")
	touch(t, root, "game/tl/french/script.rpy")
	touch(t, root, "game/tl/french/screens.RPY")
	touch(t, root, "game/script.rpyc")
	touch(t, root, "game/notes.txt")

	entries, err := NewWalker().Walk(root)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"game/script.rpy",
		"game/tl/french/script.rpy",
		"game/tl/french/screens.RPY",
	}, relPaths(t, root, entries))
	for _, e := range entries {
		assert.NotNil(t, e.Parser)
	}
}

func TestWalk_LanguageFilter(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "game/script.rpy")
	touch(t, root, "game/tl/french/script.rpy")
	touch(t, root, "game/tl/french/sub/options.rpy")
	touch(t, root, "game/tl/german/script.rpy")

	entries, err := NewWalker(WithLanguage("french")).Walk(root)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"game/tl/french/script.rpy",
		"game/tl/french/sub/options.rpy",
	}, relPaths(t, root, entries))
}

func TestWalk_RootErrors(t *testing.T) {
	root := t.TempDir()
	file := touch(t, root, "script.rpy")

	_, err := NewWalker().Walk(file)
	assert.Error(t, err)

	_, err = NewWalker().Walk(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestWalk_ParseFile(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "game/tl/french/script.rpy")

	w := NewWalker()
	entries, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	result, err := w.ParseFile(entries[0])
	require.NoError(t, err)
	assert.Equal(t, "rpy", result.FileType)
	assert.Empty(t, result.Texts)
}
