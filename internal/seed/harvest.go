package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"renpy-translator/internal/filewalker"
	"renpy-translator/internal/renpy"
	"renpy-translator/internal/textutil"
	"renpy-translator/internal/worker"

	"github.com/rs/zerolog/log"
)

// Entry is a source→translated pair found in an already translated script.
type Entry struct {
	Source     string `json:"source"`
	Translated string `json:"translated"`
	Language   string `json:"language"`
	File       string `json:"file"`
	Kind       string `json:"kind"`
	Hash       string `json:"hash"`
}

// Harvester collects the translations a game already ships so they can seed
// the cache and the translation memory.
type Harvester struct {
	language    string
	languageDir string
	workers     int
}

// NewHarvester creates a harvester recording pairs as translations into
// language. languageDir restricts the walk to tl/<languageDir>/ when set.
func NewHarvester(language, languageDir string, workers int) *Harvester {
	return &Harvester{language: language, languageDir: languageDir, workers: workers}
}

// Harvest walks root and returns every filled slot, deduplicated by source
// text (first occurrence wins) in walk order.
func (h *Harvester) Harvest(ctx context.Context, root string) ([]Entry, error) {
	var opts []filewalker.Option
	if h.languageDir != "" {
		opts = append(opts, filewalker.WithLanguage(h.languageDir))
	}
	files, err := filewalker.NewWalker(opts...).Walk(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	pool := worker.NewPool[filewalker.FileEntry, []Entry](h.workers,
		func(ctx context.Context, f filewalker.FileEntry) ([]Entry, error) {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				return nil, err
			}
			rel, err := filepath.Rel(absRoot, f.Path)
			if err != nil {
				rel = f.Path
			}
			return h.HarvestText(filepath.ToSlash(rel), string(data)), nil
		},
	)

	seen := make(map[string]bool)
	var entries []Entry
	for _, task := range pool.Execute(ctx, files) {
		if task.Err != nil {
			log.Warn().Err(task.Err).Str("file", task.Input.Path).Msg("Failed to harvest file")
			continue
		}
		for _, e := range task.Result {
			if seen[e.Hash] {
				continue
			}
			seen[e.Hash] = true
			entries = append(entries, e)
		}
	}
	if err := ctx.Err(); err != nil {
		return entries, err
	}

	log.Info().Int("files", len(files)).Int("pairs", len(entries)).Msg("Harvest complete")
	return entries, nil
}

// HarvestText returns the pairs of one script.
func (h *Harvester) HarvestText(file, text string) []Entry {
	pairs := renpy.TranslatedPairs(text)
	entries := make([]Entry, 0, len(pairs))
	for _, p := range pairs {
		entries = append(entries, Entry{
			Source:     p.Source,
			Translated: p.Translation,
			Language:   h.language,
			File:       file,
			Kind:       p.Kind.String(),
			Hash:       textutil.Hash(h.language, p.Source),
		})
	}
	return entries
}
