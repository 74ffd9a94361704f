package parser

import (
	"fmt"
	"os"

	"renpy-translator/internal/renpy"
)

// RenPyParser extracts untranslated dialogue and UI strings from Ren'Py
// translation scripts (game/tl/<lang>/*.rpy).
type RenPyParser struct{}

func NewRenPyParser() *RenPyParser { return &RenPyParser{} }

func (p *RenPyParser) CanParse(ext string) bool {
	return ext == ".rpy"
}

func (p *RenPyParser) Parse(filePath string) (*ParseResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read rpy file: %w", err)
	}
	return p.ParseText(filePath, string(data)), nil
}

// ParseText scans already loaded script text.
func (p *RenPyParser) ParseText(filePath, text string) *ParseResult {
	result := &ParseResult{
		FilePath: filePath,
		FileType: "rpy",
		RawText:  text,
	}

	scan := renpy.Scan(text)
	for i, slot := range scan.Entries {
		result.Texts = append(result.Texts, ExtractedText{
			Text: scan.Texts[i],
			File: filePath,
			Line: slot.Line + 1,
			Slot: scan.Slots[i],
			Context: map[string]string{
				"block":   slot.Kind.String(),
				"command": slot.Command,
			},
		})
	}

	return result
}

// Reconstruct fills every slot whose source text has a translation. Slots
// without one are handed an empty payload so they stay untouched and do not
// borrow a neighbour's translation.
func (p *RenPyParser) Reconstruct(result *ParseResult, translations map[string]string) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("reconstruct rpy: nil parse result")
	}

	ordered := make([]string, len(result.Texts))
	for i, et := range result.Texts {
		ordered[i] = translations[et.Text]
	}

	filled := renpy.Fill(result.Slots(), ordered)
	return []byte(renpy.ReplaceLines(result.RawText, filled, renpy.ExtractCommand)), nil
}
