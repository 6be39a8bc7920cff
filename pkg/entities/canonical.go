package entities

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isJoiner returns true for punctuation that commonly appears inside
// names and product terms ("O'Brien", "WH-1000XM4", "AT&T"). Joiners are
// preserved during canonicalization so multiword patterns stay coherent.
func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '‘',
		'-', '–', '—',
		'.', '_', '/', '&', '+':
		return true
	default:
		return false
	}
}

func isSeparator(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || isJoiner(r) {
		return false
	}
	return true
}

// canonicalize folds text into the normalized form used for lexicon
// matching: lowercase, apostrophe/dash variants normalized, separator runs
// collapsed into single spaces. The same function is applied to lexicon
// patterns and to scanned text, so matches line up byte for byte.
func canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			out.WriteRune(c)
			lastWasSpace = false
		} else if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}

	result := out.String()
	if len(result) > 0 && result[len(result)-1] == ' ' {
		result = result[:len(result)-1]
	}
	return result
}

// offsetMap maps byte positions in the canonicalized string back to byte
// positions in the original text. Canonicalization can change string
// length (collapsed separators, folded runes), so matches found in the
// canonical form need this to report original spans.
func offsetMap(original string) []int {
	mapping := make([]int, 0, len(original)+1)

	lastWasSpace := true
	origPos := 0

	for _, ch := range original {
		runeLen := utf8.RuneLen(ch)
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			canonLen := utf8.RuneLen(c)
			for i := 0; i < canonLen; i++ {
				mapping = append(mapping, origPos)
			}
			lastWasSpace = false
		} else if !lastWasSpace {
			mapping = append(mapping, origPos)
			lastWasSpace = true
		}

		origPos += runeLen
	}

	mapping = append(mapping, origPos)
	return mapping
}

func mapOffset(canonOffset int, mapping []int, originalLen int) int {
	if canonOffset >= len(mapping) {
		return originalLen
	}
	if canonOffset < 0 {
		return 0
	}
	return mapping[canonOffset]
}

// token is a word with its byte span in the original text.
type token struct {
	Text  string
	Start int
	End   int
}

// tokenizeOffsets splits text into tokens preserving original casing and
// byte offsets. Used by the product-mention heuristic, which needs spans.
func tokenizeOffsets(s string) []token {
	out := make([]token, 0, 32)

	i := 0
	for i < len(s) {
		for i < len(s) {
			r, w := utf8.DecodeRuneInString(s[i:])
			if !isSeparator(r) {
				break
			}
			i += w
		}
		start := i

		for i < len(s) {
			r, w := utf8.DecodeRuneInString(s[i:])
			if isSeparator(r) {
				break
			}
			i += w
		}
		if start < i {
			out = append(out, token{Text: s[start:i], Start: start, End: i})
		}
	}
	return out
}
