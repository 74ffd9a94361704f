package renpy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dialogueScript = `# game/script.rpy:10
translate french block_1:

    # sh_i neutral "Hello"
    sh_i neutral ""
`

const stringsScript = `translate french strings:
    old "Yes"
    new ""
`

// mixedScript holds every block shape the scanner understands.
const mixedScript = `# TODO: Translation updated at 2024-01-01 10:00

# game/script.rpy:10
translate french start_a1b2c3:

    # e "Welcome to the club."
    e ""

# game/script.rpy:14
translate french start_d4e5f6:

    # nvl clear
    # n "A quiet evening."
    nvl clear
    n ""

# game/script.rpy:20
translate french start_0a0b0c:

    # voice "v_01.ogg"
    # e "Already done."
    e "Déjà fait."

# game/script.rpy:25
translate french start_123456:

    # "The rain kept falling."
    ""

translate french strings:

    # game/screens.rpy:250
    old "Start"
    new ""

    # game/screens.rpy:251
    old "Load"
    new "Charger"

    # game/screens.rpy:252
    old "Say \"cheese\""
    new ""
`

func TestScan_DialogueBlock(t *testing.T) {
	res := Scan(dialogueScript)

	assert.Equal(t, []string{"Hello"}, res.Texts)
	assert.Equal(t, []string{`sh_i neutral ""`}, res.Slots)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, 4, res.Entries[0].Line)
	assert.Equal(t, DialogueBlock, res.Entries[0].Kind)
}

func TestScan_StringsBlock(t *testing.T) {
	assert.Equal(t, []string{"Yes"}, ExtractTexts(stringsScript))
	assert.Equal(t, []string{`new ""`}, FindSlots(stringsScript))
}

func TestScan_MixedScript(t *testing.T) {
	res := Scan(mixedScript)

	assert.Equal(t, []string{
		"Welcome to the club.",
		"A quiet evening.",
		"The rain kept falling.",
		"Start",
		`Say "cheese"`,
	}, res.Texts)
	assert.Equal(t, []string{
		`e ""`,
		`n ""`,
		`""`,
		`new ""`,
		`new ""`,
	}, res.Slots)

	kinds := make([]BlockKind, 0, res.Len())
	for _, e := range res.Entries {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []BlockKind{DialogueBlock, DialogueBlock, DialogueBlock, StringsBlock, StringsBlock}, kinds)
}

func TestScan_OrderCorrespondence(t *testing.T) {
	for _, script := range []string{"", dialogueScript, stringsScript, mixedScript} {
		res := Scan(script)
		assert.Len(t, res.Slots, len(res.Texts))
		assert.Len(t, res.Entries, len(res.Texts))
		for i, e := range res.Entries {
			assert.Equal(t, e.Text, res.Texts[i])
			assert.Equal(t, FillDescriptor(e.Command), res.Slots[i])
		}
	}
}

func TestScan_EmptyInput(t *testing.T) {
	assert.Empty(t, ExtractTexts(""))
	assert.Empty(t, FindSlots(""))
}

func TestScan_FullyTranslatedScript(t *testing.T) {
	script := `# game/script.rpy:10
translate french block_1:

    # sh_i neutral "Hello"
    sh_i neutral "Bonjour"

translate french strings:
    old "Yes"
    new "Oui"
`
	assert.Empty(t, ExtractTexts(script))
	assert.Empty(t, FindSlots(script))
	assert.Equal(t, []Pair{
		{Kind: DialogueBlock, Source: "Hello", Translation: "Bonjour"},
		{Kind: StringsBlock, Source: "Yes", Translation: "Oui"},
	}, TranslatedPairs(script))
}

func TestTranslatedPairs_MixedScript(t *testing.T) {
	assert.Equal(t, []Pair{
		{Kind: DialogueBlock, Source: "Already done.", Translation: "Déjà fait."},
		{Kind: StringsBlock, Source: "Load", Translation: "Charger"},
	}, TranslatedPairs(mixedScript))
}

func TestTranslatedPairs_EscapedQuotes(t *testing.T) {
	script := `translate french strings:
    old "Say \"cheese\""
    new "Dites \"fromage\""
`
	assert.Equal(t, []Pair{
		{Kind: StringsBlock, Source: `Say "cheese"`, Translation: `Dites "fromage"`},
	}, TranslatedPairs(script))
	assert.Empty(t, ExtractTexts(script))
}

func TestTranslatedPairs_EmptyInput(t *testing.T) {
	assert.Nil(t, TranslatedPairs(""))
	assert.Nil(t, TranslatedPairs(dialogueScript))
}

func TestScan_TruncatedBlocks(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"header only", "# game/script.rpy:10\ntranslate french block_1:"},
		{"header and blank", "# game/script.rpy:10\ntranslate french block_1:\n"},
		{"comment without slot", "# game/script.rpy:10\ntranslate french block_1:\n\n    # e \"Hi\""},
		{"two comments without slot", "# game/script.rpy:10\ntranslate french b:\n\n    # nvl clear\n    # e \"Hi\""},
		{"strings header only", "translate french strings:"},
		{"old without new", "translate french strings:\n    old \"Yes\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Result
			assert.NotPanics(t, func() { res = Scan(tt.script) })
			assert.Empty(t, res.Texts)
			assert.Empty(t, res.Slots)
		})
	}
}

func TestScan_StringsBlockEndsAtTranslate(t *testing.T) {
	script := `translate french strings:
    old "Yes"
    new ""
# game/script.rpy:3
translate french block_2:

    # e "After strings."
    e ""
`
	assert.Equal(t, []string{"Yes", "After strings."}, ExtractTexts(script))
	assert.Equal(t, []string{`new ""`, `e ""`}, FindSlots(script))
}

func TestScan_StringsBlockStopsAtOtherStatements(t *testing.T) {
	script := strings.Join([]string{
		"translate french strings:",
		`    old "One"`,
		`    new ""`,
		"init python:",
		`    old "Two"`,
		`    new ""`,
	}, "\n")

	assert.Equal(t, []string{"One"}, ExtractTexts(script))
}

func TestScan_UnrecognisedDialogueStructure(t *testing.T) {
	script := `# game/script.rpy:10
translate french block_1:

    e ""
    e ""
`
	assert.Empty(t, Scan(script).Texts)
}

func TestScan_StandardTwoCommentCase(t *testing.T) {
	script := `# game/script.rpy:40
translate french block_9:

    # voice "v_02.ogg"
    # e "Listen."
    e ""
`
	res := Scan(script)
	assert.Equal(t, []string{"Listen."}, res.Texts)
	assert.Equal(t, []string{`e ""`}, res.Slots)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, 5, res.Entries[0].Line)
}

func TestBlockKind_String(t *testing.T) {
	assert.Equal(t, "dialogue", DialogueBlock.String())
	assert.Equal(t, "strings", StringsBlock.String())
	assert.Equal(t, "unknown", BlockKind(7).String())
}

func TestScan_EscapedBackslashPayloads(t *testing.T) {
	dialogue := "# game/script.rpy:1\ntranslate french a:\n\n    # e \"C:\\\\\"\n    e \"\"\n"
	res := Scan(dialogue)
	assert.Equal(t, []string{`C:\\`}, res.Texts)
	assert.Equal(t, []string{`e ""`}, res.Slots)

	strs := "translate french strings:\n    old \"C:\\\\\"\n    new \"\"\n"
	res = Scan(strs)
	assert.Equal(t, []string{`C:\\`}, res.Texts)
	assert.Equal(t, []string{`new ""`}, res.Slots)

	got := Apply(strs, []string{`D:\\`})
	assert.Equal(t, "translate french strings:\n    old \"C:\\\\\"\n    new \"D:\\\\\"\n", got)
}

func TestScan_EmptySourcePayloadHasNoSlot(t *testing.T) {
	script := `# game/script.rpy:1
translate french a:

    # e ""
    e ""

# game/script.rpy:2
translate french b:

    # e "Hi"
    e ""
`
	res := Scan(script)

	assert.Equal(t, []string{"Hi"}, res.Texts)
	assert.Equal(t, []string{`e ""`}, res.Slots)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, 10, res.Entries[0].Line)
}
