package cache

import (
	"context"
	"fmt"
	"sync"

	"renpy-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Entry is a persisted translation.
type Entry struct {
	Hash       string
	Source     string
	Language   string
	Translated string
}

// Store is the durable layer behind the in-memory cache.
type Store interface {
	Get(ctx context.Context, hash string) (string, bool, error)
	Upsert(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
}

// TranslationCache provides in-memory caching for translations, optionally
// backed by a durable Store.
type TranslationCache struct {
	store  Store
	mu     sync.RWMutex
	memory map[string]string // hash → translated text
}

// NewTranslationCache creates a new cache. store may be nil for a
// process-local cache.
func NewTranslationCache(store Store) *TranslationCache {
	return &TranslationCache{
		store:  store,
		memory: make(map[string]string),
	}
}

// Key derives the cache key of a source text for a target language.
func Key(lang, sourceText string) string {
	return textutil.Hash(lang, sourceText)
}

// Get retrieves a cached translation. Returns empty string and false if not found.
func (c *TranslationCache) Get(ctx context.Context, lang, sourceText string) (string, bool) {
	hash := Key(lang, sourceText)

	c.mu.RLock()
	if v, ok := c.memory[hash]; ok {
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	if c.store == nil {
		return "", false
	}

	translated, ok, err := c.store.Get(ctx, hash)
	if err != nil {
		log.Warn().Err(err).Str("text", textutil.Truncate(sourceText, 30)).Msg("Cache lookup failed")
		return "", false
	}
	if !ok {
		return "", false
	}

	c.mu.Lock()
	c.memory[hash] = translated
	c.mu.Unlock()

	return translated, true
}

// Set stores a translation in memory and in the durable store.
func (c *TranslationCache) Set(ctx context.Context, lang, sourceText, translated string) error {
	hash := Key(lang, sourceText)

	c.mu.Lock()
	c.memory[hash] = translated
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}

	err := c.store.Upsert(ctx, Entry{
		Hash:       hash,
		Source:     sourceText,
		Language:   lang,
		Translated: translated,
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

// SetBatch stores several translations for one language.
func (c *TranslationCache) SetBatch(ctx context.Context, lang string, pairs map[string]string) error {
	for source, translated := range pairs {
		if err := c.Set(ctx, lang, source, translated); err != nil {
			return err
		}
	}
	return nil
}

// Lookup splits texts into those already cached (returned as a map) and those
// still missing, preserving input order for the latter.
func (c *TranslationCache) Lookup(ctx context.Context, lang string, texts []string) (map[string]string, []string) {
	found := make(map[string]string)
	var missing []string
	for _, t := range texts {
		if v, ok := c.Get(ctx, lang, t); ok {
			found[t] = v
			continue
		}
		missing = append(missing, t)
	}
	return found, missing
}

// Len returns the number of translations held in memory.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

// Preload loads all stored translations into memory.
func (c *TranslationCache) Preload(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	entries, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range entries {
		c.memory[e.Hash] = e.Translated
	}

	log.Info().Int("count", len(entries)).Msg("Preloaded translation cache")
	return nil
}
