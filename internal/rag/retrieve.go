package rag

import (
	"context"
	"fmt"

	"renpy-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Record is one remembered translation with the embedding of its source.
type Record struct {
	Hash       string
	Language   string
	Source     string
	Translated string
	Vector     []float32
}

// Example is a past translation similar to a text being translated.
type Example struct {
	Source     string
	Translated string
	Score      float64
}

// Embedder turns texts into vectors, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index stores and searches records.
type Index interface {
	Store(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, lang string, topK int) ([]Example, error)
}

// Retriever is a translation memory: it remembers finished translations and
// offers the closest ones as examples for new batches.
type Retriever struct {
	index    Index
	embedder Embedder
	topK     int
	minScore float64
}

// NewRetriever creates a retriever returning up to topK examples per text.
func NewRetriever(index Index, embedder Embedder, topK int) *Retriever {
	return &Retriever{
		index:    index,
		embedder: embedder,
		topK:     topK,
		minScore: 0.75,
	}
}

// SetMinScore changes the similarity below which examples are dropped.
func (r *Retriever) SetMinScore(score float64) {
	r.minScore = score
}

// Examples returns past translations close to texts, best first per text and
// without duplicates. Exact matches of a text being translated are skipped.
func (r *Retriever) Examples(ctx context.Context, texts []string, lang string) ([]Example, error) {
	if len(texts) == 0 || r.topK <= 0 {
		return nil, nil
	}

	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}

	pending := make(map[string]bool, len(texts))
	for _, t := range texts {
		pending[t] = true
	}

	seen := make(map[string]bool)
	var examples []Example
	for i, vec := range vectors {
		found, err := r.index.Search(ctx, vec, lang, r.topK)
		if err != nil {
			log.Warn().Err(err).Str("text", textutil.Truncate(texts[i], 50)).Msg("Memory search failed")
			continue
		}
		for _, ex := range found {
			if ex.Score < r.minScore || pending[ex.Source] || seen[ex.Source] {
				continue
			}
			seen[ex.Source] = true
			examples = append(examples, ex)
		}
	}

	return examples, nil
}

// Remember stores translations[i] as the translation of sources[i] into lang.
// Empty translations are ignored.
func (r *Retriever) Remember(ctx context.Context, lang string, sources, translations []string) error {
	var keep []int
	for i := 0; i < min(len(sources), len(translations)); i++ {
		if sources[i] != "" && translations[i] != "" {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil
	}

	texts := make([]string, len(keep))
	for j, i := range keep {
		texts[j] = sources[i]
	}
	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed translations: %w", err)
	}

	records := make([]Record, len(keep))
	for j, i := range keep {
		records[j] = Record{
			Hash:       textutil.Hash(lang, sources[i]),
			Language:   lang,
			Source:     sources[i],
			Translated: translations[i],
			Vector:     vectors[j],
		}
	}
	return r.index.Store(ctx, records)
}
