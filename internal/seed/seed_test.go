package seed

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"renpy-translator/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const translatedScript = `# game/script.rpy:10
translate french start_a1b2c3:

    # e "Welcome to the club."
    e "Bienvenue au club."

# game/script.rpy:12
translate french start_d4e5f6:

    # e "See you."
    e ""

translate french strings:
    old "Start"
    new "Commencer"
`

func writeScript(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestHarvester_HarvestText(t *testing.T) {
	entries := NewHarvester("fr", "", 1).HarvestText("game/tl/french/script.rpy", translatedScript)

	require.Len(t, entries, 2)
	assert.Equal(t, "Welcome to the club.", entries[0].Source)
	assert.Equal(t, "Bienvenue au club.", entries[0].Translated)
	assert.Equal(t, "dialogue", entries[0].Kind)
	assert.Equal(t, "fr", entries[0].Language)
	assert.Equal(t, "game/tl/french/script.rpy", entries[0].File)
	assert.Equal(t, "Start", entries[1].Source)
	assert.Equal(t, "strings", entries[1].Kind)
	assert.NotEqual(t, entries[0].Hash, entries[1].Hash)
}

func TestHarvester_Harvest(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "game/tl/french/script.rpy", translatedScript)
	writeScript(t, root, "game/tl/french/screens.rpy", "translate french strings:\n    old \"Start\"\n    new \"Démarrer\"\n")
	writeScript(t, root, "game/tl/german/script.rpy", "translate german strings:\n    old \"Load\"\n    new \"Laden\"\n")

	entries, err := NewHarvester("fr", "french", 2).Harvest(context.Background(), root)

	require.NoError(t, err)
	// screens.rpy is walked first, so its "Start" wins over script.rpy's.
	assert.Equal(t, map[string]string{
		"Start":                "Démarrer",
		"Welcome to the club.": "Bienvenue au club.",
	}, TranslationMap(entries))
	assert.Len(t, entries, 2)
	assert.Equal(t, "game/tl/french/screens.rpy", entries[0].File)
}

func TestHarvester_MissingRoot(t *testing.T) {
	_, err := NewHarvester("fr", "", 1).Harvest(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

type recordingMemory struct {
	calls int
	pairs map[string]string
	err   error
}

func (r *recordingMemory) Remember(ctx context.Context, lang string, sources, translations []string) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	if r.pairs == nil {
		r.pairs = make(map[string]string)
	}
	for i := range sources {
		r.pairs[lang+":"+sources[i]] = translations[i]
	}
	return nil
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	c := cache.NewTranslationCache(nil)
	mem := &recordingMemory{}
	entries := []Entry{
		{Source: "Yes", Translated: "Oui", Language: "fr"},
		{Source: "No", Translated: "Non", Language: "fr"},
		{Source: "Yes", Translated: "Ja", Language: "de"},
	}

	require.NoError(t, NewLoader(c, mem, 1).Load(ctx, entries))

	got, ok := c.Get(ctx, "fr", "No")
	assert.True(t, ok)
	assert.Equal(t, "Non", got)
	got, ok = c.Get(ctx, "de", "Yes")
	assert.True(t, ok)
	assert.Equal(t, "Ja", got)

	assert.Equal(t, 3, mem.calls, "one call per batch of one")
	assert.Equal(t, "Ja", mem.pairs["de:Yes"])
}

func TestLoader_LoadWithoutMemory(t *testing.T) {
	c := cache.NewTranslationCache(nil)

	require.NoError(t, NewLoader(c, nil, 10).Load(context.Background(), []Entry{{Source: "Yes", Translated: "Oui", Language: "fr"}}))
	assert.Equal(t, 1, c.Len())
}

func TestLoader_MemoryError(t *testing.T) {
	boom := errors.New("boom")
	err := NewLoader(cache.NewTranslationCache(nil), &recordingMemory{err: boom}, 10).
		Load(context.Background(), []Entry{{Source: "Yes", Translated: "Oui", Language: "fr"}})
	assert.ErrorIs(t, err, boom)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	entries := []Entry{{Source: "Line\tone", Translated: "Ligne\nun", Language: "fr", File: "a.rpy", Kind: "dialogue"}}

	tsv := filepath.Join(dir, "seed.tsv")
	require.NoError(t, Export(entries, tsv))
	data, err := os.ReadFile(tsv)
	require.NoError(t, err)
	assert.Equal(t, "source\ttranslated\tlanguage\tfile\tkind\nLine\\tone\tLigne\\nun\tfr\ta.rpy\tdialogue\n", string(data))

	jsonPath := filepath.Join(dir, "seed.json")
	require.NoError(t, Export(entries, jsonPath))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded []Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entries, decoded)
}
