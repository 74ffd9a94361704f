package translation

import (
	"context"
	"fmt"

	"renpy-translator/internal/graph"
	"renpy-translator/internal/interpolation"
	"renpy-translator/internal/rag"
	"renpy-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Generator produces text from a system and a user prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Memory supplies earlier translations as examples and records new ones.
type Memory interface {
	Examples(ctx context.Context, texts []string, lang string) ([]rag.Example, error)
	Remember(ctx context.Context, lang string, sources, translations []string) error
}

// GeminiTranslator translates batches with one generation call each, keeping
// Ren'Py markup out of the model's reach.
type GeminiTranslator struct {
	generator Generator
	prompts   *PromptBuilder
	glossary  graph.Glossary
	memory    Memory // optional
}

// NewGeminiTranslator creates a translator on top of a generator. glossary may be nil.
func NewGeminiTranslator(generator Generator, glossary graph.Glossary) *GeminiTranslator {
	return &GeminiTranslator{
		generator: generator,
		prompts:   NewPromptBuilder(),
		glossary:  glossary,
	}
}

// SetMemory attaches a translation memory.
func (gt *GeminiTranslator) SetMemory(m Memory) {
	gt.memory = m
}

func (gt *GeminiTranslator) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	protected := make([]string, len(texts))
	mappings := make([][]interpolation.Mapping, len(texts))
	for i, text := range texts {
		protected[i], mappings[i] = interpolation.Protect(text)
	}

	var examples []rag.Example
	if gt.memory != nil {
		var err error
		examples, err = gt.memory.Examples(ctx, texts, targetLang)
		if err != nil {
			log.Warn().Err(err).Msg("Translation memory lookup failed")
		}
	}

	userPrompt := gt.prompts.BuildBatchUserPrompt(protected, targetLang, gt.glossary.Relevant(texts), examples)

	response, err := gt.generator.Generate(ctx, gt.prompts.SystemPrompt(), userPrompt)
	if err != nil {
		return nil, fmt.Errorf("translate batch of %d: %w", len(texts), err)
	}

	parts, err := gt.prompts.ParseBatchResponse(response, len(texts))
	if err != nil {
		return nil, err
	}

	out := make([]string, len(parts))
	for i, p := range parts {
		if missing := interpolation.Missing(p, mappings[i]); len(missing) > 0 {
			log.Warn().
				Str("text", textutil.Truncate(texts[i], 30)).
				Strs("placeholders", missing).
				Msg("Translation dropped markup")
		}
		out[i] = interpolation.Restore(p, mappings[i])
	}

	if gt.memory != nil {
		if err := gt.memory.Remember(ctx, targetLang, texts, out); err != nil {
			log.Warn().Err(err).Msg("Failed to update translation memory")
		}
	}
	return out, nil
}
