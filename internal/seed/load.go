package seed

import (
	"context"
	"fmt"

	"renpy-translator/internal/cache"
	"renpy-translator/internal/worker"

	"github.com/rs/zerolog/log"
)

// Rememberer records translations in a translation memory.
type Rememberer interface {
	Remember(ctx context.Context, lang string, sources, translations []string) error
}

// Loader writes harvested entries into the translation cache and, when one is
// configured, the translation memory.
type Loader struct {
	cache     *cache.TranslationCache
	memory    Rememberer // optional
	batchSize int
}

// NewLoader creates a loader. memory may be nil.
func NewLoader(c *cache.TranslationCache, memory Rememberer, batchSize int) *Loader {
	return &Loader{cache: c, memory: memory, batchSize: batchSize}
}

// Load stores entries, grouping them per language.
func (l *Loader) Load(ctx context.Context, entries []Entry) error {
	byLang := make(map[string][]Entry)
	var order []string
	for _, e := range entries {
		if _, ok := byLang[e.Language]; !ok {
			order = append(order, e.Language)
		}
		byLang[e.Language] = append(byLang[e.Language], e)
	}

	for _, lang := range order {
		group := byLang[lang]
		if err := l.cache.SetBatch(ctx, lang, TranslationMap(group)); err != nil {
			return fmt.Errorf("seed cache %s: %w", lang, err)
		}

		if l.memory == nil {
			continue
		}
		for i, batch := range worker.Batch(group, l.batchSize) {
			sources := make([]string, len(batch))
			translations := make([]string, len(batch))
			for j, e := range batch {
				sources[j] = e.Source
				translations[j] = e.Translated
			}
			if err := l.memory.Remember(ctx, lang, sources, translations); err != nil {
				return fmt.Errorf("seed memory %s batch %d: %w", lang, i+1, err)
			}
		}

		log.Info().Str("lang", lang).Int("entries", len(group)).Msg("Seeded translation memory")
	}

	log.Info().Int("entries", len(entries)).Msg("Seeded translation cache")
	return nil
}

// TranslationMap returns source → translated for entries.
func TranslationMap(entries []Entry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Source] = e.Translated
	}
	return m
}
