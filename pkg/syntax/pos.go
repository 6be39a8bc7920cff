// Package syntax provides a deterministic part-of-speech tagger and
// sentence utilities for the relation extractor's syntactic path. It uses
// a two-pass approach: dictionary lookup with suffix heuristics, then
// contextual correction rules. Deterministic and model-free, so the
// syntactic path keeps working when the entity cascade has degraded to
// its fallback tier.
package syntax

// POS is a coarse part-of-speech tag.
type POS int

const (
	Other POS = iota
	Noun
	ProperNoun
	Verb
	Auxiliary
	Modal
	Adjective
	Adverb
	Determiner
	Preposition
	Conjunction
	Pronoun
	Number
	Punctuation
)

func (p POS) String() string {
	names := []string{
		"OTHER", "NOUN", "PROPN", "VERB", "AUX", "MODAL", "ADJ", "ADV",
		"DET", "PREP", "CONJ", "PRON", "NUM", "PUNCT",
	}
	if int(p) < len(names) {
		return names[p]
	}
	return "OTHER"
}

// IsNominal reports whether the tag can head a noun phrase.
func (p POS) IsNominal() bool {
	return p == Noun || p == ProperNoun || p == Pronoun || p == Number
}

// IsVerbal reports whether the tag is verb-like.
func (p POS) IsVerbal() bool {
	return p == Verb || p == Auxiliary
}

// IsModifier reports whether the tag modifies a following noun.
func (p POS) IsModifier() bool {
	return p == Adjective || p == Number
}
