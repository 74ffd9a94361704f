package translation

import (
	"fmt"
	"regexp"
	"strings"

	"renpy-translator/internal/graph"
	"renpy-translator/internal/rag"
)

const batchDelimiter = "|||"

// PromptBuilder constructs system and user prompts for translation.
type PromptBuilder struct{}

// NewPromptBuilder creates a new prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const systemPrompt = `You are a professional localizer for Ren'Py visual novels.

Rules:
1. Translate each line of dialogue or interface text into the requested language.
2. Preserve ALL placeholders like {{var_1}}, {{var_2}}, etc. Copy them exactly as-is into your translation.
3. Use the provided glossary translations for names and terms whenever they appear.
   Stay consistent with the earlier translations you are shown.
4. Keep the speaker's tone, register and punctuation style.
5. Never add quotes around a translation and never add explanations or notes.
6. For interface labels keep the translation short.`

// SystemPrompt returns the system prompt for translation.
func (pb *PromptBuilder) SystemPrompt() string {
	return systemPrompt
}

// BuildBatchUserPrompt constructs a prompt for a numbered batch of texts.
// examples may be nil.
func (pb *PromptBuilder) BuildBatchUserPrompt(texts []string, targetLang string, glossary graph.Glossary, examples []rag.Example) string {
	var sb strings.Builder

	if len(glossary) > 0 {
		sb.WriteString("=== Glossary ===\n")
		for _, source := range glossary.Sources() {
			sb.WriteString(fmt.Sprintf("• %s → %s\n", source, glossary[source]))
		}
		sb.WriteString("\n")
	}

	if len(examples) > 0 {
		sb.WriteString("=== Earlier Translations ===\n")
		for _, ex := range examples {
			sb.WriteString(fmt.Sprintf("• %s → %s\n", ex.Source, ex.Translated))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Target language: %s\n", targetLang))
	sb.WriteString(fmt.Sprintf("Translate each text below. Return ONLY the translations, separated by %s, in the same order.\n\n", batchDelimiter))
	for i, t := range texts {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, t))
	}

	return sb.String()
}

// numberPrefix matches the "[N] " marker a model may echo back.
var numberPrefix = regexp.MustCompile(`^\[\d+\]\s*`)

// ParseBatchResponse splits a delimited model answer into want translations.
func (pb *PromptBuilder) ParseBatchResponse(response string, want int) ([]string, error) {
	parts := strings.Split(response, batchDelimiter)
	if len(parts) > want && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(parts), want)
	}

	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = numberPrefix.ReplaceAllString(strings.TrimSpace(p), "")
	}
	return out, nil
}
