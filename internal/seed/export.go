package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Export writes entries to outputPath as TSV when it ends in .tsv and as JSON
// otherwise.
func Export(entries []Entry, outputPath string) error {
	if strings.EqualFold(filepath.Ext(outputPath), ".tsv") {
		return ExportTSV(entries, outputPath)
	}
	return ExportJSON(entries, outputPath)
}

// ExportTSV writes entries to a TSV file.
func ExportTSV(entries []Entry, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create TSV file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "source\ttranslated\tlanguage\tfile\tkind")

	for _, e := range entries {
		fmt.Fprintf(f, "%s\t%s\t%s\t%s\t%s\n",
			escapeTSV(e.Source),
			escapeTSV(e.Translated),
			e.Language,
			e.File,
			e.Kind,
		)
	}

	log.Info().Str("path", outputPath).Int("entries", len(entries)).Msg("Exported seed corpus to TSV")
	return nil
}

// ExportJSON writes entries to a JSON file.
func ExportJSON(entries []Entry, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	log.Info().Str("path", outputPath).Int("entries", len(entries)).Msg("Exported seed corpus to JSON")
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}
