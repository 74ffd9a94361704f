package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"unicode/utf8"
)

// Hash computes a SHA-256 hex hash of the given parts for deduplication.
// Parts are separated by a NUL byte so ("ab", "c") and ("a", "bc") differ.
func Hash(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CountChars returns the number of characters across texts, the unit
// translation providers bill by.
func CountChars(texts []string) int {
	n := 0
	for _, t := range texts {
		n += utf8.RuneCountInString(t)
	}
	return n
}

// Truncate shortens a string to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
