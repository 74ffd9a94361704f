package rag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// VectorStore keeps past translations with the embedding of their source in
// a pgvector column.
type VectorStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewVectorStore creates a new vector store for vectors of the given size.
func NewVectorStore(pool *pgxpool.Pool, dimensions int) *VectorStore {
	return &VectorStore{pool: pool, dimensions: dimensions}
}

// EnsureSchema installs the vector extension and the translation_memory table.
func (vs *VectorStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS translation_memory (
			hash TEXT PRIMARY KEY,
			language TEXT NOT NULL,
			source TEXT NOT NULL,
			translated TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, vs.dimensions),
		`CREATE INDEX IF NOT EXISTS translation_memory_language_idx ON translation_memory (language)`,
	}
	for _, stmt := range stmts {
		if _, err := vs.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure translation_memory schema: %w", err)
		}
	}
	return nil
}

// Store upserts records one by one.
func (vs *VectorStore) Store(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	for _, r := range records {
		_, err := vs.pool.Exec(ctx,
			`INSERT INTO translation_memory (hash, language, source, translated, embedding)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (hash) DO UPDATE SET translated = EXCLUDED.translated, embedding = EXCLUDED.embedding`,
			r.Hash, r.Language, r.Source, r.Translated, pgvector.NewVector(r.Vector),
		)
		if err != nil {
			return fmt.Errorf("insert memory %s: %w", r.Hash, err)
		}
	}

	log.Debug().Int("count", len(records)).Msg("Stored translation memory")
	return nil
}

// Search finds the topK stored translations into lang closest to vector by
// cosine similarity.
func (vs *VectorStore) Search(ctx context.Context, vector []float32, lang string, topK int) ([]Example, error) {
	rows, err := vs.pool.Query(ctx,
		`SELECT source, translated, 1 - (embedding <=> $1) AS similarity
		 FROM translation_memory
		 WHERE language = $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		pgvector.NewVector(vector), lang, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var results []Example
	for rows.Next() {
		var ex Example
		if err := rows.Scan(&ex.Source, &ex.Translated, &ex.Score); err != nil {
			return nil, fmt.Errorf("scan memory row: %w", err)
		}
		results = append(results, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	return results, nil
}
