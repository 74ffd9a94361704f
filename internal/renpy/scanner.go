package renpy

import "strings"

// Result is the outcome of scanning a script. Texts[i], Slots[i] and
// Entries[i] always describe the same slot.
type Result struct {
	// Texts are the source strings that need a translation.
	Texts []string
	// Slots are the fill descriptors (command + ` ""`) parallel to Texts.
	Slots []string
	// Entries carry the position and block kind of every slot.
	Entries []Slot
}

// Len returns the number of slots found.
func (r Result) Len() int { return len(r.Entries) }

// Scan walks text once and collects every empty slot together with the source
// text it should be translated from.
func Scan(text string) Result {
	var res Result
	if text == "" {
		return res
	}

	walk(strings.Split(text, "\n"), func(s Slot) {
		res.Texts = append(res.Texts, s.Text)
		res.Slots = append(res.Slots, FillDescriptor(s.Command))
		res.Entries = append(res.Entries, s)
	})
	return res
}

// ExtractTexts returns the source strings of all empty slots in file order.
func ExtractTexts(text string) []string {
	return Scan(text).Texts
}

// FindSlots returns the fill descriptors of all empty slots in file order.
func FindSlots(text string) []string {
	return Scan(text).Slots
}

// Pair is a source text and the translation a script already holds for it.
type Pair struct {
	Kind        BlockKind
	Source      string
	Translation string
}

// TranslatedPairs returns the source/translation pairs of all filled slots in
// file order.
func TranslatedPairs(text string) []Pair {
	if text == "" {
		return nil
	}

	var pairs []Pair
	walkAll(strings.Split(text, "\n"), func(s Slot) {
		if s.Filled {
			pairs = append(pairs, Pair{Kind: s.Kind, Source: s.Text, Translation: s.Translation})
		}
	})
	return pairs
}
