package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `# game/script.rpy:10
translate french start_a1b2c3:

    # e "Welcome to the club."
    e ""

# game/script.rpy:12
translate french start_d4e5f6:

    # e "See you."
    e ""

translate french strings:

    # game/screens.rpy:250
    old "Start"
    new ""
`

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.rpy")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRenPyParser_CanParse(t *testing.T) {
	p := NewRenPyParser()
	assert.True(t, p.CanParse(".rpy"))
	assert.False(t, p.CanParse(".rpyc"))
	assert.False(t, p.CanParse(".txt"))
}

func TestRenPyParser_Parse(t *testing.T) {
	path := writeScript(t, script)

	result, err := NewRenPyParser().Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "rpy", result.FileType)
	assert.Equal(t, script, result.RawText)
	assert.Equal(t, []string{"Welcome to the club.", "See you.", "Start"}, result.SourceTexts())
	assert.Equal(t, []string{`e ""`, `e ""`, `new ""`}, result.Slots())

	require.Len(t, result.Texts, 3)
	assert.Equal(t, 5, result.Texts[0].Line)
	assert.Equal(t, "dialogue", result.Texts[0].Context["block"])
	assert.Equal(t, "e", result.Texts[0].Context["command"])
	assert.Equal(t, 17, result.Texts[2].Line)
	assert.Equal(t, "strings", result.Texts[2].Context["block"])
}

func TestRenPyParser_ParseMissingFile(t *testing.T) {
	_, err := NewRenPyParser().Parse(filepath.Join(t.TempDir(), "missing.rpy"))
	assert.Error(t, err)
}

func TestRenPyParser_Reconstruct(t *testing.T) {
	p := NewRenPyParser()
	result := p.ParseText("script.rpy", script)

	out, err := p.Reconstruct(result, map[string]string{
		"Welcome to the club.": "Bienvenue au club.",
		"See you.":             "À bientôt.",
		"Start":                "Commencer",
	})
	require.NoError(t, err)

	again := p.ParseText("script.rpy", string(out))
	assert.Empty(t, again.Texts)
	assert.Contains(t, string(out), "    e \"Bienvenue au club.\"\n")
	assert.Contains(t, string(out), "    e \"À bientôt.\"\n")
	assert.Contains(t, string(out), "    new \"Commencer\"\n")
}

func TestRenPyParser_ReconstructPartial(t *testing.T) {
	p := NewRenPyParser()
	result := p.ParseText("script.rpy", script)

	out, err := p.Reconstruct(result, map[string]string{"See you.": "À bientôt."})
	require.NoError(t, err)

	again := p.ParseText("script.rpy", string(out))
	assert.Equal(t, []string{"Welcome to the club.", "Start"}, again.SourceTexts())
	assert.Contains(t, string(out), "    e \"À bientôt.\"\n")
}

func TestRenPyParser_ReconstructNoTranslations(t *testing.T) {
	p := NewRenPyParser()
	result := p.ParseText("script.rpy", script)

	out, err := p.Reconstruct(result, nil)
	require.NoError(t, err)
	assert.Equal(t, script, string(out))

	_, err = p.Reconstruct(nil, nil)
	assert.Error(t, err)
}
