package renpy

import (
	"regexp"
	"strings"
)

// BlockKind tells which translation block a slot was found in.
type BlockKind int

const (
	// DialogueBlock is a "translate <lang> <id>:" unit for one say statement.
	DialogueBlock BlockKind = iota
	// StringsBlock is a "translate <lang> strings:" unit of old/new pairs.
	StringsBlock
)

func (k BlockKind) String() string {
	switch k {
	case DialogueBlock:
		return "dialogue"
	case StringsBlock:
		return "strings"
	default:
		return "unknown"
	}
}

// Slot is a quoted payload that receives a translation.
type Slot struct {
	// Kind is the block the slot belongs to.
	Kind BlockKind
	// Line is the 0-based index of the slot line.
	Line int
	// Text is the source payload that should be translated into the slot.
	Text string
	// Command joins the slot with its translation ("new" for strings blocks).
	Command string
	// Filled is set when the slot line already holds a non-empty payload.
	Filled bool
	// Translation is that payload, empty unless Filled.
	Translation string
}

// oldPattern reads the source payload of a strings-block pair.
var oldPattern = regexp.MustCompile(`^old\s+"((?:[^"\\]|\\.)+)"`)

// walk calls onSlot for every empty slot that has a source text, in file order.
func walk(lines []string, onSlot func(Slot)) {
	walkAll(lines, func(s Slot) {
		if !s.Filled {
			onSlot(s)
		}
	})
}

// walkAll runs the block grammar over lines and calls onSlot for every slot,
// empty or filled, in file order. The cursor only moves forward and truncated
// blocks simply end the walk.
func walkAll(lines []string, onSlot func(Slot)) {
	i := 0
	for i < len(lines) {
		switch {
		case isDialogueHeader(lines, i):
			i = walkDialogue(lines, i, onSlot)
		case isStringsHeader(lines[i]):
			i = walkStrings(lines, i+1, onSlot)
		default:
			i++
		}
	}
}

// walkDialogue handles one dialogue block starting at its "# <path>" line and
// returns the index of the first line after it.
//
//	# game/script.rpy:10          i
//	translate french block_1:     i+1
//	                              i+2
//	    # sh_i neutral "Hello"    i+3
//	    sh_i neutral ""           i+4
func walkDialogue(lines []string, i int, onSlot func(Slot)) int {
	comment1 := lineAt(lines, i+3)
	comment2 := lineAt(lines, i+4)

	switch {
	case isComment(comment1) && isComment(comment2):
		next := lineAt(lines, i+5)
		if !strings.Contains(next, `"`) {
			// Bare command such as "nvl clear" sits between the comments and the slot.
			emitDialogue(comment2, i+6, lineAt(lines, i+6), onSlot)
			return i + 7
		}
		emitDialogue(comment2, i+5, next, onSlot)
		return i + 6

	case isComment(comment1):
		emitDialogue(comment1, i+4, comment2, onSlot)
		return i + 5

	default:
		return i + 5
	}
}

func emitDialogue(source string, line int, slotLine string, onSlot func(Slot)) {
	text, ok := quotedPayload(source)
	if !ok || text == "" {
		return
	}
	s, ok := withTranslation(Slot{
		Kind:    DialogueBlock,
		Line:    line,
		Text:    text,
		Command: ExtractCommand(source),
	}, slotLine)
	if ok {
		onSlot(s)
	}
}

// withTranslation reads the payload of slotLine into s. It reports false when
// slotLine holds no quoted payload at all.
func withTranslation(s Slot, slotLine string) (Slot, bool) {
	if hasEmptyPayload(slotLine) {
		return s, true
	}
	translation, ok := quotedPayload(slotLine)
	if !ok || translation == "" {
		return s, false
	}
	s.Filled = true
	s.Translation = translation
	return s, true
}

// walkStrings consumes old/new pairs starting right after a strings header and
// returns the index of the first line that does not belong to the block.
func walkStrings(lines []string, i int, onSlot func(Slot)) int {
	for i < len(lines) {
		if isDialogueHeader(lines, i) {
			return i
		}

		cur := strings.TrimSpace(lines[i])
		switch {
		case cur == "" || isComment(cur):
			i++

		case strings.HasPrefix(cur, `old "`):
			next := lineAt(lines, i+1)
			if !strings.HasPrefix(next, "new") {
				i++
				continue
			}
			if m := oldPattern.FindStringSubmatch(cur); m != nil && strings.HasPrefix(next, `new "`) {
				if text, ok := quotedPayload(`"` + m[1] + `"`); ok && text != "" {
					s, ok := withTranslation(Slot{
						Kind:    StringsBlock,
						Line:    i + 1,
						Text:    text,
						Command: "new",
					}, next)
					if ok {
						onSlot(s)
					}
				}
			}
			i += 2

		default:
			return i
		}
	}
	return i
}

// isDialogueHeader reports whether lines[i] opens a dialogue block: a "# "
// path comment directly followed by a non-strings translate statement.
func isDialogueHeader(lines []string, i int) bool {
	if !strings.HasPrefix(lines[i], "# ") || i+1 >= len(lines) {
		return false
	}
	next := lines[i+1]
	return isTranslate(next) && !isStringsHeader(next)
}

func isStringsHeader(line string) bool {
	fields := strings.Fields(line)
	return len(fields) == 3 && fields[0] == "translate" && fields[2] == "strings:"
}

// isTranslate matches "translate <lang> ..." lines.
func isTranslate(line string) bool {
	fields := strings.Fields(line)
	return len(fields) >= 2 && fields[0] == "translate"
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#")
}

// lineAt returns the trimmed line at index i, or "" past the end of input.
func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[i])
}
