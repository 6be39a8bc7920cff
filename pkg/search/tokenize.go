package search

import (
	"regexp"
	"strings"
	"sync"

	"github.com/orsinium-labs/stopwords"
)

// tokenPattern splits lowercased text into word-character runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

var englishStopwords = sync.OnceValue(func() *stopwords.Stopwords {
	return stopwords.MustGet("en")
})

// Tokenize lowercases text, strips non-word characters, and drops stop
// words and tokens of length 2 or less. The same function is applied to
// indexed documents and to queries.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	matches := tokenPattern.FindAllString(lower, -1)

	tokens := matches[:0]
	checker := englishStopwords()
	for _, m := range matches {
		if len(m) <= 2 {
			continue
		}
		if checker.Contains(m) {
			continue
		}
		tokens = append(tokens, m)
	}
	return tokens
}
