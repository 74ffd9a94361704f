package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCounter persists counters so usage survives between runs.
type PostgresCounter struct {
	pool *pgxpool.Pool
}

func NewPostgresCounter(pool *pgxpool.Pool) *PostgresCounter {
	return &PostgresCounter{pool: pool}
}

// EnsureSchema creates the counter table if it does not exist.
func (p *PostgresCounter) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS usage_counters (
			key   TEXT PRIMARY KEY,
			value BIGINT NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("create usage_counters: %w", err)
	}
	return nil
}

func (p *PostgresCounter) Get(ctx context.Context, key string) (int, error) {
	var value int64
	err := p.pool.QueryRow(ctx, `SELECT value FROM usage_counters WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select counter: %w", err)
	}
	return int(value), nil
}

func (p *PostgresCounter) Set(ctx context.Context, key string, value int) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO usage_counters (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, int64(value))
	if err != nil {
		return fmt.Errorf("upsert counter: %w", err)
	}
	return nil
}
