package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Term is a glossary entry: how a source word (character name, place,
// UI label) must be rendered in one target language.
type Term struct {
	Source   string `yaml:"source"`
	Target   string `yaml:"target"`
	Language string `yaml:"language,omitempty"`
	Category string `yaml:"category,omitempty"` // character, location, item, ui, general
}

// Glossary maps source terms to their fixed translation.
type Glossary map[string]string

// Relevant returns the subset of g whose source term occurs in any of texts.
func (g Glossary) Relevant(texts []string) Glossary {
	out := make(Glossary)
	for source, target := range g {
		for _, t := range texts {
			if strings.Contains(t, source) {
				out[source] = target
				break
			}
		}
	}
	return out
}

// Sources returns the glossary keys, longest first, so that prompts list
// "Eileen Park" before "Eileen".
func (g Glossary) Sources() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// GlossaryStore keeps glossary terms in Neo4j.
type GlossaryStore struct {
	driver neo4j.DriverWithContext
}

// NewGlossaryStore creates a new glossary store.
func NewGlossaryStore(driver neo4j.DriverWithContext) *GlossaryStore {
	return &GlossaryStore{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (gs *GlossaryStore) EnsureSchema(ctx context.Context) error {
	session := gs.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Term) REQUIRE (t.source, t.language) IS UNIQUE",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Glossary schema ensured")
	return nil
}

// UpsertTerms stores terms keyed by (source, language). Terms missing either
// key are skipped.
func (gs *GlossaryStore) UpsertTerms(ctx context.Context, terms []Term) error {
	session := gs.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, t := range terms {
		if t.Source == "" || t.Language == "" {
			continue
		}
		_, err := session.Run(ctx, `
			MERGE (t:Term {source: $source, language: $language})
			SET t.target = $target,
			    t.category = $category
		`, map[string]any{
			"source":   t.Source,
			"language": t.Language,
			"target":   t.Target,
			"category": t.Category,
		})
		if err != nil {
			return fmt.Errorf("upsert term %s: %w", t.Source, err)
		}
	}

	log.Info().Int("terms", len(terms)).Msg("Upserted glossary terms")
	return nil
}

// GetTerms retrieves all terms of a language as a lookup map.
func (gs *GlossaryStore) GetTerms(ctx context.Context, lang string) (Glossary, error) {
	return gs.query(ctx, `
		MATCH (t:Term {language: $language})
		RETURN t.source AS source, t.target AS target
	`, map[string]any{"language": lang})
}

// FindTermsIn returns the terms of a language that occur in text.
func (gs *GlossaryStore) FindTermsIn(ctx context.Context, text, lang string) (Glossary, error) {
	return gs.query(ctx, `
		MATCH (t:Term {language: $language})
		WHERE $text CONTAINS t.source
		RETURN t.source AS source, t.target AS target
		ORDER BY size(t.source) DESC
	`, map[string]any{"language": lang, "text": text})
}

func (gs *GlossaryStore) query(ctx context.Context, cypher string, params map[string]any) (Glossary, error) {
	session := gs.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("query glossary: %w", err)
	}

	terms := make(Glossary)
	for result.Next(ctx) {
		record := result.Record()
		source, _ := record.Get("source")
		target, _ := record.Get("target")
		terms[fmt.Sprintf("%v", source)] = fmt.Sprintf("%v", target)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}

	log.Debug().Int("count", len(terms)).Msg("Loaded glossary terms")
	return terms, nil
}
