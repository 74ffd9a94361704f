package renpy

import (
	"regexp"
	"strings"
)

// CommandFunc derives the command (speaker, expression or the literal "new")
// from a script line. ReplaceLines takes one so callers can swap the rule.
type CommandFunc func(line string) string

// commandPattern captures everything before the first double quote.
var commandPattern = regexp.MustCompile(`^([^"]*)"`)

// ExtractCommand returns the non-text part of a dialogue or strings line.
// A single leading "#" (and the space after it) is ignored so that commented
// source lines and their slot lines yield the same command.
func ExtractCommand(line string) string {
	s := strings.TrimSpace(line)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "#") {
		s = strings.TrimPrefix(s[1:], " ")
	}

	if m := commandPattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// FillDescriptor builds the template identifying the slot a translation for
// command must fill.
func FillDescriptor(command string) string {
	if command == "" {
		return `""`
	}
	return command + ` ""`
}

// FilledLine combines a command with translated text. Quotes, raw line breaks
// and a dangling backslash are escaped so the result stays a single Ren'Py
// string literal on one line.
func FilledLine(command, text string) string {
	quoted := `"` + escapeText(text) + `"`
	if command == "" {
		return quoted
	}
	return command + " " + quoted
}

// commandOfFilled returns the text before the first quote of a filled line.
func commandOfFilled(filled string) string {
	idx := strings.Index(filled, `"`)
	if idx < 0 {
		return strings.TrimSpace(filled)
	}
	return strings.TrimSpace(filled[:idx])
}

// quotedPayload returns the first double-quoted string of s. Escaped quotes
// are resolved and every other escape sequence (\\, \n, ...) is kept as
// written. ok is false when s holds no complete quoted string.
func quotedPayload(s string) (text string, ok bool) {
	start := strings.Index(s, `"`)
	if start < 0 {
		return "", false
	}

	var sb strings.Builder
	for i := start + 1; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			if i+1 >= len(s) {
				sb.WriteByte(ch)
				continue
			}
			i++
			if s[i] == '"' {
				sb.WriteByte('"')
				continue
			}
			sb.WriteByte(ch)
			sb.WriteByte(s[i])
		case '"':
			return sb.String(), true
		default:
			sb.WriteByte(ch)
		}
	}
	return "", false
}

// hasEmptyPayload reports whether the first quoted string on the line is "".
func hasEmptyPayload(line string) bool {
	idx := strings.Index(line, `"`)
	return idx >= 0 && strings.HasPrefix(line[idx:], `""`)
}

// escapeText is the inverse of quotedPayload. Escape sequences already in s
// are kept, so text read from a script round-trips unchanged.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			if i+1 == len(s) || s[i+1] == '\n' {
				sb.WriteString(`\\`)
				continue
			}
			i++
			sb.WriteByte(ch)
			sb.WriteByte(s[i])
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}
