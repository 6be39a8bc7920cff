// Package relations derives subject-predicate-object triples from review
// text. Two paths feed the result: a syntactic walk over POS-tagged
// sentences, and purchase-trigger pattern matching that pairs Person
// entities with Product mentions.
package relations

import (
	"strings"
	"sync"

	"github.com/coregx/ahocorasick"

	"github.com/opinionkit/opinionscan/pkg/entities"
	"github.com/opinionkit/opinionscan/pkg/syntax"
)

// Relation kinds.
const (
	KindSyntactic = "syntactic"
	KindPattern   = "pattern"
)

// Confidence levels per path: the syntactic walk is heuristic, the
// trigger path requires an explicit purchase cue.
const (
	syntacticConfidence = 0.5
	patternConfidence   = 0.8
)

// Relation is a subject-predicate-object triple. Fields are value copies
// of text spans, never references into the entity list.
type Relation struct {
	Subject    string  `json:"subject"`
	Predicate  string  `json:"predicate"`
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence"`
	Kind       string  `json:"kind"`
}

// purchaseTriggers cue the pattern path.
var purchaseTriggers = []string{
	"bought", "purchased", "ordered", "acquired", "got",
}

var purchaseAC = sync.OnceValue(func() *ahocorasick.Automaton {
	ac, err := ahocorasick.NewBuilder().
		AddStrings(purchaseTriggers).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		panic(err)
	}
	return ac
})

// Extractor derives relations. Stateless apart from the shared tagger,
// which is read-only after construction.
type Extractor struct {
	tagger *syntax.Tagger
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{tagger: syntax.NewTagger()}
}

// Extract returns all relations found in text. ents is the entity
// tagger's output for the same text; products is the derived product
// mention list. Both paths contribute.
func (x *Extractor) Extract(text string, ents []entities.Entity, products []string) []Relation {
	rels := x.extractSyntactic(text)
	rels = append(rels, x.extractPurchases(text, ents, products)...)
	return rels
}

// extractSyntactic walks each sentence: the root verb's preceding nominal
// is the subject, its following nominal is the object, with phrases
// expanded over adjacent determiners and modifiers.
func (x *Extractor) extractSyntactic(text string) []Relation {
	var out []Relation

	for _, sent := range x.tagger.Parse(text) {
		verbIdx := rootVerb(sent)
		if verbIdx < 0 {
			continue
		}

		subj := nominalBefore(sent, verbIdx)
		obj := nominalAfter(sent, verbIdx)
		if subj < 0 || obj < 0 {
			continue
		}

		out = append(out, Relation{
			Subject:    expandPhrase(sent, subj),
			Predicate:  strings.ToLower(sent.Words[verbIdx].Text),
			Object:     expandPhrase(sent, obj),
			Confidence: syntacticConfidence,
			Kind:       KindSyntactic,
		})
	}
	return out
}

// rootVerb picks the sentence's main verb: the first full verb, or the
// first auxiliary when no full verb exists ("the screen is garbage").
func rootVerb(sent syntax.Sentence) int {
	aux := -1
	for i, w := range sent.Words {
		switch w.Tag {
		case syntax.Verb:
			return i
		case syntax.Auxiliary:
			if aux < 0 {
				aux = i
			}
		}
	}
	return aux
}

func nominalBefore(sent syntax.Sentence, verbIdx int) int {
	for i := verbIdx - 1; i >= 0; i-- {
		if sent.Words[i].Tag.IsNominal() {
			return i
		}
	}
	return -1
}

func nominalAfter(sent syntax.Sentence, verbIdx int) int {
	for i := verbIdx + 1; i < len(sent.Words); i++ {
		if sent.Words[i].Tag.IsNominal() {
			return i
		}
	}
	return -1
}

// expandPhrase grows a nominal head over adjacent determiner, modifier,
// and compound (noun/proper-noun) neighbors, emitting tokens in original
// text order.
func expandPhrase(sent syntax.Sentence, head int) string {
	start := head
	for start > 0 {
		tag := sent.Words[start-1].Tag
		if tag == syntax.Determiner || tag.IsModifier() ||
			tag == syntax.Noun || tag == syntax.ProperNoun {
			start--
			continue
		}
		break
	}

	end := head
	for end+1 < len(sent.Words) {
		tag := sent.Words[end+1].Tag
		if tag == syntax.Noun || tag == syntax.ProperNoun || tag == syntax.Number {
			end++
			continue
		}
		break
	}

	parts := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		parts = append(parts, sent.Words[i].Text)
	}
	return strings.Join(parts, " ")
}

// extractPurchases pairs every Person entity with every product mention
// that occurs verbatim in the text, once per distinct purchase trigger
// present: a review with two trigger verbs repeats the full pairing.
// Deliberately a cross product, not positional proximity: it overgenerates
// on multi-entity reviews in exchange for recall.
func (x *Extractor) extractPurchases(text string, ents []entities.Entity, products []string) []Relation {
	lower := strings.ToLower(text)

	hits := purchaseAC().FindAllOverlapping([]byte(lower))
	if len(hits) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(purchaseTriggers))
	for _, h := range hits {
		seen[h.PatternID] = true
	}
	triggers := len(seen)

	var persons []string
	for _, e := range ents {
		if e.Type == entities.TypePerson {
			persons = append(persons, e.Text)
		}
	}

	var out []Relation
	for i := 0; i < triggers; i++ {
		for _, person := range persons {
			for _, product := range products {
				if !strings.Contains(lower, strings.ToLower(product)) {
					continue
				}
				out = append(out, Relation{
					Subject:    person,
					Predicate:  "bought",
					Object:     product,
					Confidence: patternConfidence,
					Kind:       KindPattern,
				})
			}
		}
	}
	return out
}
