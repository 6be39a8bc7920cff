package syntax

import "strings"

// Word is a tokenized word with its position in the sentence.
type Word struct {
	Text  string
	Index int
	Tag   POS
}

// Sentence is a tagged sentence.
type Sentence struct {
	Text  string
	Words []Word
}

// SplitSentences breaks text on terminal punctuation. Abbreviation
// handling is deliberately minimal; review text rarely needs it.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			// Consume runs of terminal punctuation.
			for i+1 < len(text) && (text[i+1] == '.' || text[i+1] == '!' || text[i+1] == '?') {
				i++
			}
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

// Parse tokenizes and tags every sentence of text.
func (t *Tagger) Parse(text string) []Sentence {
	raw := SplitSentences(text)
	out := make([]Sentence, 0, len(raw))

	for _, s := range raw {
		words := tokenizeWords(s)
		tags := t.Tag(words)

		tagged := make([]Word, len(words))
		for i, w := range words {
			tagged[i] = Word{Text: w, Index: i, Tag: tags[i]}
		}
		out = append(out, Sentence{Text: s, Words: tagged})
	}
	return out
}

// tokenizeWords splits a sentence into words, stripping trailing
// punctuation from each. The relation walk only needs word tokens, so
// the punctuation is dropped rather than kept.
func tokenizeWords(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		for len(f) > 1 && strings.ContainsRune(".,!?;:()", rune(f[len(f)-1])) {
			f = f[:len(f)-1]
		}
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
