package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// glossaryFile is the on-disk YAML layout:
//
//	language: fr
//	terms:
//	  - source: Eileen
//	    target: Eileen
//	    category: character
type glossaryFile struct {
	Language string `yaml:"language"`
	Terms    []Term `yaml:"terms"`
}

// LoadFile reads glossary terms from a YAML file. Terms without their own
// language inherit the file-level one.
func LoadFile(path string) ([]Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary file: %w", err)
	}

	var gf glossaryFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("decode glossary file: %w", err)
	}

	terms := make([]Term, 0, len(gf.Terms))
	for _, t := range gf.Terms {
		if t.Source == "" {
			continue
		}
		if t.Language == "" {
			t.Language = gf.Language
		}
		if t.Language == "" {
			return nil, fmt.Errorf("glossary term %q has no language", t.Source)
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// ToGlossary collects the terms of one language into a lookup map.
func ToGlossary(terms []Term, lang string) Glossary {
	g := make(Glossary)
	for _, t := range terms {
		if t.Language == lang {
			g[t.Source] = t.Target
		}
	}
	return g
}
