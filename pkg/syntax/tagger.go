package syntax

import (
	"strings"
	"unicode"
)

// Tagger assigns POS tags with context awareness. The lexicon is tuned
// for product-review vocabulary.
type Tagger struct {
	lexicon map[string]POS
}

// NewTagger creates a Tagger with the default review lexicon.
func NewTagger() *Tagger {
	t := &Tagger{lexicon: make(map[string]POS, 400)}
	t.loadDefaultLexicon()
	return t
}

// Tag processes a slice of words and returns their POS tags using two
// passes: a static baseline (dictionary + suffix heuristics) followed by
// contextual correction rules.
func (t *Tagger) Tag(words []string) []POS {
	tags := make([]POS, len(words))

	for i, word := range words {
		tags[i] = t.lookupBaseline(word)
	}

	for i := 0; i < len(tags); i++ {
		var prevTag POS = Other
		if i > 0 {
			prevTag = tags[i-1]
		}

		// Determiner or modifier forces a noun reading: "the return",
		// "a quick charge".
		if (prevTag == Determiner || prevTag.IsModifier()) && tags[i].IsVerbal() {
			tags[i] = Noun
			continue
		}

		// Modal forces a verb: "would recommend".
		if prevTag == Modal && tags[i].IsNominal() {
			tags[i] = Verb
			continue
		}

		// Infinitive marker forces a verb: "had to return".
		if i > 0 && strings.EqualFold(words[i-1], "to") && tags[i].IsNominal() {
			tags[i] = Verb
			continue
		}

		// "of" forces a noun: "out of charge".
		if i > 0 && strings.EqualFold(words[i-1], "of") && tags[i].IsVerbal() {
			tags[i] = Noun
			continue
		}

		if len(words[i]) == 1 && unicode.IsPunct(rune(words[i][0])) {
			tags[i] = Punctuation
		}
	}

	return tags
}

func (t *Tagger) lookupBaseline(word string) POS {
	lower := fastLower(word)
	if pos, ok := t.lexicon[lower]; ok {
		return pos
	}
	return t.inferPOS(word)
}

func (t *Tagger) inferPOS(word string) POS {
	lower := fastLower(word)

	if len(word) == 1 && unicode.IsPunct(rune(word[0])) {
		return Punctuation
	}
	if isNumeric(word) {
		return Number
	}
	if len(word) > 0 && unicode.IsUpper(rune(word[0])) {
		return ProperNoun
	}

	// Suffix heuristics.
	if strings.HasSuffix(lower, "ly") {
		return Adverb
	}
	if strings.HasSuffix(lower, "ing") || strings.HasSuffix(lower, "ed") {
		return Verb
	}
	if strings.HasSuffix(lower, "ness") || strings.HasSuffix(lower, "tion") ||
		strings.HasSuffix(lower, "ment") || strings.HasSuffix(lower, "ity") {
		return Noun
	}
	if strings.HasSuffix(lower, "ful") || strings.HasSuffix(lower, "less") ||
		strings.HasSuffix(lower, "ous") || strings.HasSuffix(lower, "ive") ||
		strings.HasSuffix(lower, "able") || strings.HasSuffix(lower, "ible") {
		return Adjective
	}

	return Noun
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

// fastLower avoids allocation when the word is already lowercase.
func fastLower(s string) string {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			return strings.ToLower(s)
		}
	}
	return s
}

func (t *Tagger) loadDefaultLexicon() {
	add := func(pos POS, words ...string) {
		for _, w := range words {
			t.lexicon[w] = pos
		}
	}

	add(Determiner, "the", "a", "an", "this", "that", "these", "those",
		"my", "your", "his", "her", "its", "our", "their", "some", "any",
		"no", "every", "each", "all", "both", "another")

	add(Preposition, "in", "on", "at", "to", "for", "with", "by", "from",
		"of", "about", "into", "through", "during", "before", "after",
		"between", "under", "over", "within", "without", "across", "per")

	add(Auxiliary, "is", "are", "was", "were", "be", "been", "being", "am",
		"have", "has", "had", "having", "do", "does", "did", "doing")

	add(Modal, "can", "could", "will", "would", "shall", "should", "may",
		"might", "must")

	add(Conjunction, "and", "or", "but", "nor", "yet", "so", "because",
		"although", "while", "if", "unless", "until", "since", "when")

	add(Pronoun, "i", "you", "he", "she", "it", "we", "they", "me", "him",
		"us", "them", "myself", "everyone", "someone", "nobody")

	add(Adjective, "good", "bad", "great", "terrible", "excellent",
		"horrible", "cheap", "expensive", "fast", "slow", "new", "old",
		"broken", "defective", "perfect", "amazing", "awful", "solid",
		"flimsy", "sturdy", "comfortable", "loud", "quiet", "bright",
		"small", "large", "big", "little", "long", "short", "easy", "hard",
		"nice", "poor", "fine", "happy", "disappointed")

	add(Adverb, "very", "quite", "rather", "really", "too", "just", "only",
		"now", "then", "here", "there", "always", "never", "often",
		"quickly", "finally", "already", "still", "even", "again",
		"highly", "barely", "extremely")

	add(Verb, "buy", "bought", "purchase", "purchased", "order", "ordered",
		"get", "got", "receive", "received", "arrive", "arrived", "return",
		"returned", "exchange", "exchanged", "ship", "shipped", "deliver",
		"delivered", "work", "works", "worked", "break", "broke", "stop",
		"stopped", "fail", "failed", "use", "used", "love", "loved",
		"like", "liked", "hate", "hated", "recommend", "recommended",
		"want", "wanted", "need", "needed", "try", "tried", "charge",
		"charged", "last", "lasted", "fit", "fits", "look", "looks",
		"feel", "feels", "sound", "sounds", "come", "came", "go", "went",
		"say", "said", "think", "thought", "know", "knew", "give", "gave",
		"take", "took", "make", "made", "send", "sent", "expect",
		"expected", "replace", "replaced", "refund", "refunded", "rate",
		"rated", "install", "installed", "complain", "complained")
}
