package cli

import (
	"context"
	"fmt"

	"renpy-translator/internal/cache"
	"renpy-translator/internal/config"
	"renpy-translator/internal/graph"
	"renpy-translator/internal/quota"
	"renpy-translator/internal/rag"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// dependencies holds the optional backing services. Postgres persists the
// translation cache, quota usage and translation memory; Neo4j serves the
// glossary. Without them the cache and quota counter live in memory.
type dependencies struct {
	pgPool      *pgxpool.Pool
	neo4jDriver neo4j.DriverWithContext

	cacheStore cache.Store
	counter    quota.Counter
	glossary   *graph.GlossaryStore
	vectors    *rag.VectorStore
}

// initDependencies connects to whatever is configured and runs migrations.
func initDependencies(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	deps := &dependencies{counter: quota.NewMemoryCounter()}

	if cfg.DatabaseURL != "" {
		pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect PostgreSQL: %w", err)
		}
		if err := pgPool.Ping(ctx); err != nil {
			pgPool.Close()
			return nil, fmt.Errorf("ping PostgreSQL: %w", err)
		}
		deps.pgPool = pgPool
		log.Info().Msg("Connected to PostgreSQL")

		store := cache.NewPostgresStore(pgPool)
		if err := store.EnsureSchema(ctx); err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("ensure cache schema: %w", err)
		}
		counter := quota.NewPostgresCounter(pgPool)
		if err := counter.EnsureSchema(ctx); err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("ensure quota schema: %w", err)
		}
		deps.cacheStore = store
		deps.counter = counter

		if cfg.MemoryTopK > 0 {
			vectors := rag.NewVectorStore(pgPool, cfg.EmbeddingDimensions)
			if err := vectors.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("pgvector unavailable, translation memory disabled")
			} else {
				deps.vectors = vectors
			}
		}
	} else {
		log.Info().Msg("DATABASE_URL not set, cache and quota are kept in memory")
	}

	if cfg.Neo4jURI != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
		if err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("connect Neo4j: %w", err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			driver.Close(ctx)
			deps.Close(ctx)
			return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
		}
		deps.neo4jDriver = driver
		log.Info().Msg("Connected to Neo4j")

		deps.glossary = graph.NewGlossaryStore(driver)
		if err := deps.glossary.EnsureSchema(ctx); err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("ensure glossary schema: %w", err)
		}
	}

	return deps, nil
}

// Close releases every connection that was opened.
func (d *dependencies) Close(ctx context.Context) {
	if d.neo4jDriver != nil {
		d.neo4jDriver.Close(ctx)
	}
	if d.pgPool != nil {
		d.pgPool.Close()
	}
}

// loadGlossary returns the stored terms for lang, or nil without Neo4j.
func (d *dependencies) loadGlossary(ctx context.Context, lang string) (graph.Glossary, error) {
	if d.glossary == nil {
		return nil, nil
	}
	terms, err := d.glossary.GetTerms(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("load glossary: %w", err)
	}
	log.Info().Int("terms", len(terms)).Str("lang", lang).Msg("Glossary loaded")
	return terms, nil
}

// memory returns the translation memory, or nil without pgvector.
func (d *dependencies) memory(cfg *config.Config) *rag.Retriever {
	if d.vectors == nil {
		return nil
	}
	embedder := rag.NewEmbeddingClient(cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	return newRetriever(d.vectors, embedder, cfg)
}

func newRetriever(index rag.Index, embedder rag.Embedder, cfg *config.Config) *rag.Retriever {
	r := rag.NewRetriever(index, embedder, cfg.MemoryTopK)
	r.SetMinScore(cfg.MemoryMinScore)
	return r
}
