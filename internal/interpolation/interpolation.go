package interpolation

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Mapping stores the original markup and its safe replacement.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

// varMatch stores a detected markup position.
type varMatch struct {
	start, end int
	value      string
}

// patterns detect Ren'Py markup that must survive translation untouched.
var patterns = []*regexp.Regexp{
	// escaped brackets and braces
	regexp.MustCompile(`\[\[|\{\{`),
	// [player_name], [count!t]
	regexp.MustCompile(`\[[^\[\]]+\]`),
	// {b}, {/i}, {w=0.5}, {color=#f00}
	regexp.MustCompile(`\{/?[a-z]+(?:=[^{}]*)?\}`),
	// %(name)s
	regexp.MustCompile(`%\([a-zA-Z_][a-zA-Z0-9_]*\)[-+0-9]*\.?[0-9]*[sdfi]`),
	// %s, %d, %2d
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[sdfi]`),
	// escaped percent literal
	regexp.MustCompile(`%%`),
	// \n, \", \\
	regexp.MustCompile(`\\[nt"'\\]`),
}

// Protect replaces Ren'Py markup with {{var_N}} placeholders. It returns the
// safe string and a mapping to restore the originals after translation.
func Protect(text string) (string, []Mapping) {
	var all []varMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, varMatch{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}

	if len(all) == 0 {
		return text, nil
	}

	// Earliest first; on a tie the longest match wins.
	slices.SortFunc(all, func(a, b varMatch) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(b.end-b.start, a.end-a.start)
	})

	var kept []varMatch
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			kept = append(kept, m)
			lastEnd = m.end
		}
	}

	var sb strings.Builder
	mappings := make([]Mapping, 0, len(kept))
	prev := 0
	for i, m := range kept {
		placeholder := fmt.Sprintf("{{var_%d}}", i+1)
		sb.WriteString(text[prev:m.start])
		sb.WriteString(placeholder)
		prev = m.end
		mappings = append(mappings, Mapping{
			Original:    m.value,
			Placeholder: placeholder,
			Index:       i + 1,
		})
	}
	sb.WriteString(text[prev:])

	return sb.String(), mappings
}

// Restore replaces {{var_N}} placeholders with the original markup.
func Restore(translated string, mappings []Mapping) string {
	result := translated
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}

// Missing lists placeholders the translation dropped.
func Missing(translated string, mappings []Mapping) []string {
	var missing []string
	for _, m := range mappings {
		if !strings.Contains(translated, m.Placeholder) {
			missing = append(missing, m.Placeholder)
		}
	}
	return missing
}
