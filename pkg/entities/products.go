package entities

import (
	"strings"
	"sync"
	"unicode"

	"github.com/coregx/ahocorasick"
)

type lexicons struct {
	brandAC      *ahocorasick.Automaton
	brandPats    []string
	categoryAC   *ahocorasick.Automaton
	categoryPats []string
}

var sharedLexicons = sync.OnceValue(func() *lexicons {
	brandAC, brandPats, err := buildAutomaton(knownBrands)
	if err != nil {
		panic(err)
	}
	categoryAC, categoryPats, err := buildAutomaton(productCategories)
	if err != nil {
		panic(err)
	}
	return &lexicons{
		brandAC: brandAC, brandPats: brandPats,
		categoryAC: categoryAC, categoryPats: categoryPats,
	}
})

// NormalizeBrand maps known lowercase brand variants to their canonical
// capitalization. Unknown brands are capitalized on the first letter.
func NormalizeBrand(brand string) string {
	trimmed := strings.TrimSpace(brand)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := brandCanonical[canonicalize(trimmed)]; ok {
		return canonical
	}
	lower := strings.ToLower(trimmed)
	r := []rune(lower)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// CleanBrands normalizes a brand list and deduplicates it
// case-insensitively, preserving first-seen order.
func CleanBrands(brands []string) []string {
	seen := make(map[string]bool, len(brands))
	out := make([]string, 0, len(brands))
	for _, b := range brands {
		normalized := NormalizeBrand(b)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, normalized)
	}
	return out
}

// ExtractBrands derives the brand list for a review: known-brand lexicon
// hits in the text plus Organization entities, normalized and deduplicated.
func ExtractBrands(text string, ents []Entity) []string {
	lex := sharedLexicons()

	var raw []string
	for _, m := range scanLexicon(lex.brandAC, lex.brandPats, text) {
		raw = append(raw, m.Text)
	}
	for _, e := range ents {
		if e.Type == TypeOrganization {
			raw = append(raw, e.Text)
		}
	}
	return CleanBrands(raw)
}

// ExtractProductMentions derives product mentions from three sources:
// Product-typed entities, Miscellaneous entities that look like products,
// and a direct token-shape scan over the text (capitalized head token
// followed by numbers, codes, or capitalized qualifiers, e.g.
// "iPhone 14 Pro", "Galaxy S23 Ultra").
func ExtractProductMentions(text string, ents []Entity) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}

	for _, m := range scanProductShapes(text) {
		add(m)
	}
	for _, e := range ents {
		switch e.Type {
		case TypeProduct:
			add(e.Text)
		case TypeMiscellaneous:
			if looksLikeProduct(e.Text) {
				add(e.Text)
			}
		}
	}
	return out
}

// looksLikeProduct is the heuristic gate for Miscellaneous entities:
// short, carries capitalization, and has a digit, a model-code-shaped
// substring, or a product-category noun.
func looksLikeProduct(s string) bool {
	if len(strings.Fields(s)) > 3 {
		return false
	}
	hasUpper := strings.IndexFunc(s, unicode.IsUpper) >= 0
	if !hasUpper {
		return false
	}
	if strings.IndexFunc(s, unicode.IsDigit) >= 0 {
		return true
	}
	if codeRe.MatchString(s) {
		return true
	}
	lex := sharedLexicons()
	return len(scanLexicon(lex.categoryAC, lex.categoryPats, s)) > 0
}

// scanProductShapes finds product-like token runs in text. A run starts
// at a token containing an uppercase letter and extends over number
// tokens, code tokens, and capitalized qualifier tokens. Runs are kept
// only when some token carries a digit, which filters ordinary
// capitalized phrases.
func scanProductShapes(text string) []string {
	toks := tokenizeOffsets(text)
	var out []string

	i := 0
	for i < len(toks) {
		if !isProductHead(toks[i].Text) {
			i++
			continue
		}

		j := i + 1
		hasDigit := containsDigit(toks[i].Text)
		for j < len(toks) && isProductTail(toks[j].Text) {
			if containsDigit(toks[j].Text) {
				hasDigit = true
			}
			j++
		}

		if hasDigit && j > i {
			out = append(out, text[toks[i].Start:toks[j-1].End])
		}
		if j > i+1 {
			i = j
		} else {
			i++
		}
	}
	return out
}

func isProductHead(s string) bool {
	if len(s) < 2 {
		return false
	}
	return strings.IndexFunc(s, unicode.IsUpper) >= 0 && strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func isProductTail(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[0])
	if unicode.IsDigit(r) {
		return true
	}
	// Capitalized qualifier ("Pro", "Max", "Ultra") or code ("S23").
	return unicode.IsUpper(r)
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
