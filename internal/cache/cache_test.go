package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	entries map[string]Entry
	getErr  error
	gets    int
}

func newMemStore() *memStore { return &memStore{entries: map[string]Entry{}} }

func (m *memStore) Get(ctx context.Context, hash string) (string, bool, error) {
	m.gets++
	if m.getErr != nil {
		return "", false, m.getErr
	}
	e, ok := m.entries[hash]
	return e.Translated, ok, nil
}

func (m *memStore) Upsert(ctx context.Context, e Entry) error {
	m.entries[e.Hash] = e
	return nil
}

func (m *memStore) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func TestTranslationCache_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	c := NewTranslationCache(nil)

	_, ok := c.Get(ctx, "fr", "Hello")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "fr", "Hello", "Bonjour"))

	got, ok := c.Get(ctx, "fr", "Hello")
	assert.True(t, ok)
	assert.Equal(t, "Bonjour", got)

	_, ok = c.Get(ctx, "de", "Hello")
	assert.False(t, ok, "translations are per language")
	assert.NoError(t, c.Preload(ctx))
}

func TestTranslationCache_ReadsThroughStore(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Upsert(ctx, Entry{Hash: Key("fr", "Yes"), Source: "Yes", Language: "fr", Translated: "Oui"}))

	c := NewTranslationCache(store)
	got, ok := c.Get(ctx, "fr", "Yes")
	require.True(t, ok)
	assert.Equal(t, "Oui", got)

	_, _ = c.Get(ctx, "fr", "Yes")
	assert.Equal(t, 1, store.gets, "second lookup is served from memory")
}

func TestTranslationCache_WritesThroughStore(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := NewTranslationCache(store)

	require.NoError(t, c.SetBatch(ctx, "fr", map[string]string{"Yes": "Oui", "No": "Non"}))

	assert.Len(t, store.entries, 2)
	assert.Equal(t, "Non", store.entries[Key("fr", "No")].Translated)
	assert.Equal(t, "fr", store.entries[Key("fr", "No")].Language)
}

func TestTranslationCache_StoreErrorIsAMiss(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("connection refused")

	_, ok := NewTranslationCache(store).Get(context.Background(), "fr", "Yes")
	assert.False(t, ok)
}

func TestTranslationCache_Preload(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Upsert(ctx, Entry{Hash: Key("fr", "Load"), Source: "Load", Language: "fr", Translated: "Charger"}))

	c := NewTranslationCache(store)
	require.NoError(t, c.Preload(ctx))
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get(ctx, "fr", "Load")
	assert.True(t, ok)
	assert.Equal(t, "Charger", got)
	assert.Zero(t, store.gets)
}

func TestTranslationCache_Lookup(t *testing.T) {
	ctx := context.Background()
	c := NewTranslationCache(nil)
	require.NoError(t, c.Set(ctx, "fr", "Yes", "Oui"))

	found, missing := c.Lookup(ctx, "fr", []string{"No", "Yes", "Maybe"})

	assert.Equal(t, map[string]string{"Yes": "Oui"}, found)
	assert.Equal(t, []string{"No", "Maybe"}, missing)
}
