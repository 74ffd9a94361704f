package parser

// ExtractedText represents a translatable string found in a script file.
type ExtractedText struct {
	// Text is the original translatable string.
	Text string
	// File is the source file path.
	File string
	// Line is the 1-based line number of the slot that receives the translation.
	Line int
	// Slot is the fill descriptor (command + ` ""`) for this text.
	Slot string
	// Context holds additional context (block kind, command).
	Context map[string]string
}

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the absolute path to the parsed file.
	FilePath string
	// FileType is the detected type (rpy).
	FileType string
	// Texts are the extracted translatable strings in file order.
	Texts []ExtractedText
	// RawText preserves the original file content for reconstruction.
	RawText string
}

// SourceTexts returns the extracted strings in file order.
func (r *ParseResult) SourceTexts() []string {
	texts := make([]string, len(r.Texts))
	for i, et := range r.Texts {
		texts[i] = et.Text
	}
	return texts
}

// Slots returns the fill descriptors parallel to SourceTexts.
func (r *ParseResult) Slots() []string {
	slots := make([]string, len(r.Texts))
	for i, et := range r.Texts {
		slots[i] = et.Slot
	}
	return slots
}

// Parser is the interface for all file format parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse extracts translatable strings from a file.
	Parse(filePath string) (*ParseResult, error)
	// Reconstruct rebuilds the file with translated strings.
	Reconstruct(result *ParseResult, translations map[string]string) ([]byte, error)
}
