package translation

import (
	"context"
	"fmt"

	"renpy-translator/internal/cache"
	"renpy-translator/internal/quota"
	"renpy-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

// CachingTranslator answers from the translation cache and only forwards
// texts it has not seen before.
type CachingTranslator struct {
	next  Translator
	cache *cache.TranslationCache
}

func NewCachingTranslator(next Translator, c *cache.TranslationCache) *CachingTranslator {
	return &CachingTranslator{next: next, cache: c}
}

func (ct *CachingTranslator) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	found, missing := ct.cache.Lookup(ctx, targetLang, texts)

	if len(missing) > 0 {
		translated, err := ct.next.Translate(ctx, missing, targetLang)
		if err != nil {
			return nil, err
		}
		if len(translated) != len(missing) {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(translated), len(missing))
		}
		for i, source := range missing {
			found[source] = translated[i]
			if err := ct.cache.Set(ctx, targetLang, source, translated[i]); err != nil {
				log.Warn().Err(err).Str("text", textutil.Truncate(source, 30)).Msg("Failed to cache translation")
			}
		}
	}

	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = found[t]
	}
	return out, nil
}

// QuotaTranslator reserves the batch's characters before forwarding it and
// gives them back when the provider fails.
type QuotaTranslator struct {
	next  Translator
	guard *quota.Guard
}

func NewQuotaTranslator(next Translator, guard *quota.Guard) *QuotaTranslator {
	return &QuotaTranslator{next: next, guard: guard}
}

func (qt *QuotaTranslator) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	chars := textutil.CountChars(texts)
	if err := qt.guard.Reserve(ctx, chars); err != nil {
		return nil, err
	}

	out, err := qt.next.Translate(ctx, texts, targetLang)
	if err != nil {
		if relErr := qt.guard.Release(ctx, chars); relErr != nil {
			log.Warn().Err(relErr).Msg("Failed to release quota")
		}
		return nil, err
	}
	return out, nil
}
