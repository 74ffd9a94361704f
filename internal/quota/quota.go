package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrQuotaExceeded is returned when a request would go over the character limit.
var ErrQuotaExceeded = errors.New("character quota exceeded")

// Counter is a named usage counter.
type Counter interface {
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value int) error
}

// MonthlyKey names the counter for a provider in the month of now.
func MonthlyKey(provider string, now time.Time) string {
	return fmt.Sprintf("%s:%s", provider, now.UTC().Format("2006-01"))
}

// Guard reserves characters against a limit before they are sent to a
// translation provider. A limit of zero or less disables the check.
type Guard struct {
	counter Counter
	key     string
	limit   int
	mu      sync.Mutex
}

// NewGuard creates a guard over counter[key].
func NewGuard(counter Counter, key string, limit int) *Guard {
	return &Guard{counter: counter, key: key, limit: limit}
}

// Reserve records chars as used, or returns ErrQuotaExceeded without
// recording anything if the limit would be passed.
func (g *Guard) Reserve(ctx context.Context, chars int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	used, err := g.counter.Get(ctx, g.key)
	if err != nil {
		return fmt.Errorf("read usage %s: %w", g.key, err)
	}

	if g.limit > 0 && used+chars > g.limit {
		return fmt.Errorf("%w: %d used, %d requested, limit %d", ErrQuotaExceeded, used, chars, g.limit)
	}

	if err := g.counter.Set(ctx, g.key, used+chars); err != nil {
		return fmt.Errorf("write usage %s: %w", g.key, err)
	}

	log.Debug().Str("key", g.key).Int("used", used+chars).Int("limit", g.limit).Msg("Quota reserved")
	return nil
}

// Release gives back chars reserved for a request that failed.
func (g *Guard) Release(ctx context.Context, chars int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	used, err := g.counter.Get(ctx, g.key)
	if err != nil {
		return fmt.Errorf("read usage %s: %w", g.key, err)
	}
	return g.counter.Set(ctx, g.key, max(used-chars, 0))
}

// Remaining returns how many characters are left, or -1 without a limit.
func (g *Guard) Remaining(ctx context.Context) (int, error) {
	if g.limit <= 0 {
		return -1, nil
	}
	used, err := g.counter.Get(ctx, g.key)
	if err != nil {
		return 0, fmt.Errorf("read usage %s: %w", g.key, err)
	}
	return max(g.limit-used, 0), nil
}

// MemoryCounter keeps counters in process memory.
type MemoryCounter struct {
	mu     sync.Mutex
	values map[string]int
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{values: make(map[string]int)}
}

func (m *MemoryCounter) Get(ctx context.Context, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryCounter) Set(ctx context.Context, key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
