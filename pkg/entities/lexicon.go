package entities

import (
	"fmt"

	"github.com/coregx/ahocorasick"
)

// knownBrands are marketplace brands recognized by the gazetteer tier and
// the brand deriver. The canonical casing here is what normalization maps
// lowercase variants back to.
var knownBrands = []string{
	"Apple", "Samsung", "Google", "Microsoft", "Sony", "LG", "Huawei",
	"Xiaomi", "OnePlus", "Nokia", "Motorola", "HP", "Dell", "Lenovo",
	"ASUS", "Acer", "Nike", "Adidas", "Zara", "Amazon", "Netflix",
	"Bose", "JBL", "Logitech", "Philips", "Panasonic", "Canon", "Nikon",
	"Dyson", "KitchenAid", "Intex", "Anker",
}

// brandCanonical maps lowercase brand variants to canonical capitalization.
var brandCanonical = func() map[string]string {
	m := make(map[string]string, len(knownBrands))
	for _, b := range knownBrands {
		m[canonicalize(b)] = b
	}
	return m
}()

// productCategories are category nouns whose presence marks a phrase as
// product-like ("the X phone", "this vacuum").
var productCategories = []string{
	"phone", "smartphone", "laptop", "tablet", "headphones", "earbuds",
	"speaker", "camera", "monitor", "keyboard", "mouse", "charger",
	"watch", "console", "router", "printer", "vacuum", "blender",
	"toaster", "kettle", "shoes", "sneakers", "jacket", "backpack",
	"mattress", "drone", "projector", "soundbar",
}

// knownPlaces is a small location gazetteer for the fallback tier. The
// statistical tiers recognize locations properly; this only catches the
// common cases in marketplace reviews.
var knownPlaces = []string{
	"New York", "Los Angeles", "Chicago", "London", "Paris", "Berlin",
	"Madrid", "Tokyo", "Toronto", "Sydney", "Seattle", "Austin",
	"San Francisco", "Miami", "Boston", "Dallas", "Mexico City",
}

// buildAutomaton compiles canonicalized patterns into an Aho-Corasick
// automaton, returning the automaton together with the canonical pattern
// list (pattern IDs index into it).
func buildAutomaton(patterns []string) (*ahocorasick.Automaton, []string, error) {
	canon := make([]string, len(patterns))
	for i, p := range patterns {
		canon[i] = canonicalize(p)
	}
	ac, err := ahocorasick.NewBuilder().
		AddStrings(canon).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, nil, fmt.Errorf("compile automaton: %w", err)
	}
	return ac, canon, nil
}

// lexiconMatch is one automaton hit mapped back to original-text offsets.
type lexiconMatch struct {
	Start   int
	End     int
	Text    string
	Pattern string
}

// scanLexicon runs an automaton over canonicalized text and maps hits back
// to original spans. Matches must fall on word boundaries in the canonical
// form, so "LG" does not fire inside "aLGorithm".
func scanLexicon(ac *ahocorasick.Automaton, canonPatterns []string, text string) []lexiconMatch {
	if ac == nil {
		return nil
	}

	canon := canonicalize(text)
	haystack := []byte(canon)
	mapping := offsetMap(text)

	raw := ac.FindAllOverlapping(haystack)
	out := make([]lexiconMatch, 0, len(raw))
	for _, m := range raw {
		if !wordBounded(canon, m.Start, m.End) {
			continue
		}
		origStart := mapOffset(m.Start, mapping, len(text))
		origEnd := mapOffset(m.End, mapping, len(text))
		if origStart >= origEnd || origEnd > len(text) {
			continue
		}
		out = append(out, lexiconMatch{
			Start:   origStart,
			End:     origEnd,
			Text:    text[origStart:origEnd],
			Pattern: canonPatterns[m.PatternID],
		})
	}
	return out
}

func wordBounded(s string, start, end int) bool {
	if start > 0 && s[start-1] != ' ' {
		return false
	}
	if end < len(s) && s[end] != ' ' {
		return false
	}
	return true
}
