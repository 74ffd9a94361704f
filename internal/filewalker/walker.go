package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"renpy-translator/internal/parser"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists file types handled by the tool.
var SupportedExtensions = map[string]bool{
	".rpy": true,
}

// Walker traverses directories and dispatches files to the correct parser.
type Walker struct {
	parsers  []parser.Parser
	language string
}

// Option configures a Walker.
type Option func(*Walker)

// WithLanguage restricts discovery to files below a tl/<language>/ directory,
// the layout Ren'Py uses for generated translation scripts.
func WithLanguage(lang string) Option {
	return func(w *Walker) { w.language = lang }
}

// NewWalker creates a Walker with default parsers.
func NewWalker(opts ...Option) *Walker {
	w := &Walker{
		parsers: []parser.Parser{
			parser.NewRenPyParser(),
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// Walk discovers all supported files under the given root directory.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !SupportedExtensions[ext] {
			return nil
		}

		if w.language != "" && !inLanguageDir(root, path, w.language) {
			return nil
		}

		for _, p := range w.parsers {
			if p.CanParse(ext) {
				entries = append(entries, FileEntry{
					Path:   path,
					Ext:    ext,
					Parser: p,
				})
				break
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// ParseFile parses a single file using the appropriate parser.
func (w *Walker) ParseFile(entry FileEntry) (*parser.ParseResult, error) {
	return entry.Parser.Parse(entry.Path)
}

// inLanguageDir reports whether path sits below a "tl/<lang>" pair of
// directories relative to root.
func inLanguageDir(root, path, lang string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i := 0; i+1 < len(parts)-1; i++ {
		if parts[i] == "tl" && parts[i+1] == lang {
			return true
		}
	}
	return false
}
