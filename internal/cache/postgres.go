package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS translation_cache (
	hash        TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	language    TEXT NOT NULL,
	translated  TEXT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps cached translations in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the cache table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create translation_cache: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, hash string) (string, bool, error) {
	var translated string
	err := s.pool.QueryRow(ctx,
		`SELECT translated FROM translation_cache WHERE hash = $1`, hash,
	).Scan(&translated)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select cached translation: %w", err)
	}
	return translated, true, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO translation_cache (hash, source, language, translated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hash) DO UPDATE
		SET translated = EXCLUDED.translated, updated_at = now()
	`, e.Hash, e.Source, e.Language, e.Translated)
	if err != nil {
		return fmt.Errorf("upsert cached translation: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT hash, source, language, translated FROM translation_cache`)
	if err != nil {
		return nil, fmt.Errorf("list cached translations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Hash, &e.Source, &e.Language, &e.Translated); err != nil {
			return nil, fmt.Errorf("scan cached translation: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cached translations: %w", err)
	}
	return entries, nil
}
