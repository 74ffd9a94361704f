package renpy

import "strings"

const slotIndent = "    "

// ReplaceLines writes filled lines into the empty slots of original and
// returns the new text. Slots are matched to filled lines by command: the
// first unused filled line with the same command wins, and dialogue slots fall
// back to the first unused line of any command. Strings-block slots ("new")
// only take an exact match. Slots that find nothing keep their original line,
// and every other line is copied unchanged.
func ReplaceLines(original string, filled []string, extract CommandFunc) string {
	if extract == nil {
		extract = ExtractCommand
	}

	lines := strings.Split(original, "\n")
	out := make([]string, len(lines))
	copy(out, lines)

	queue := newFillQueue(filled)
	walk(lines, func(s Slot) {
		line, ok := queue.take(extract(lines[s.Line]))
		if !ok {
			return
		}
		out[s.Line] = substitute(lines[s.Line], line)
	})

	return strings.Join(out, "\n")
}

// Fill pairs descriptors with translations at the same index and returns the
// filled lines. Only the overlapping prefix of the two slices is used.
func Fill(descriptors, translations []string) []string {
	n := min(len(descriptors), len(translations))
	filled := make([]string, 0, n)
	for i := 0; i < n; i++ {
		command := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(descriptors[i]), `""`))
		filled = append(filled, FilledLine(command, translations[i]))
	}
	return filled
}

// fillQueue hands out filled lines at most once each.
type fillQueue struct {
	lines []string
	used  []bool
}

func newFillQueue(filled []string) *fillQueue {
	lines := make([]string, len(filled))
	copy(lines, filled)
	return &fillQueue{lines: lines, used: make([]bool, len(filled))}
}

func (q *fillQueue) take(command string) (string, bool) {
	command = strings.TrimSpace(command)
	for i, line := range q.lines {
		if !q.used[i] && commandOfFilled(line) == command {
			q.used[i] = true
			return line, true
		}
	}

	if command == "new" {
		return "", false
	}

	// Dialogue slots without a same-command line take the first unused one.
	for i, line := range q.lines {
		if !q.used[i] {
			q.used[i] = true
			return line, true
		}
	}
	return "", false
}

// substitute renders a filled line in place of an empty slot line. Anything
// after the slot's "" (such as "with vpunch") and a trailing carriage return
// are carried over.
func substitute(orig, filled string) string {
	if text, ok := quotedPayload(filled); ok && text == "" {
		return orig
	}

	body, cr := strings.CutSuffix(orig, "\r")
	if idx := strings.Index(body, `""`); idx >= 0 {
		if tail := strings.TrimSpace(body[idx+2:]); tail != "" && !strings.HasSuffix(filled, tail) {
			filled += " " + tail
		}
	}

	line := slotIndent + filled
	if cr {
		line += "\r"
	}
	return line
}

// Apply fills the empty slots of text with translations given in the order
// ExtractTexts returned their sources.
func Apply(text string, translations []string) string {
	return ReplaceLines(text, Fill(FindSlots(text), translations), ExtractCommand)
}
