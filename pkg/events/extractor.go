// Package events detects typed review events (purchase, return,
// complaint, ...) from trigger lexicons and attaches actor, object, time,
// location, and sentiment. One event is emitted per distinct trigger
// phrase found; triggers of the same type are deliberately not merged.
package events

import (
	"strings"
	"sync"

	"github.com/coregx/ahocorasick"

	"github.com/opinionkit/opinionscan/pkg/entities"
)

// EventType classifies a detected event.
type EventType string

const (
	TypePurchase       EventType = "purchase"
	TypeReturn         EventType = "return"
	TypeComplaint      EventType = "complaint"
	TypeRecommendation EventType = "recommendation"
	TypeFailure        EventType = "failure"
	TypeFunction       EventType = "function"
	TypeDelivery       EventType = "delivery"
	TypeRating         EventType = "rating"
)

// triggerConfidence is the fixed score for every trigger-based event.
// Trigger matching carries no graduated signal to score against.
const triggerConfidence = 0.7

// Event is one detected review event. Actor and Object are copies of
// entity text, not references; an event never outlives or mutates the
// entity it was derived from.
type Event struct {
	Type       EventType `json:"type"`
	Trigger    string    `json:"trigger"`
	Actor      string    `json:"actor,omitempty"`
	Object     string    `json:"object,omitempty"`
	Time       string    `json:"time,omitempty"`
	Location   string    `json:"location,omitempty"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}

// eventTriggers is the fixed trigger lexicon per event type.
var eventTriggers = map[EventType][]string{
	TypePurchase:       {"bought", "purchased", "ordered", "acquired", "got"},
	TypeReturn:         {"returned", "sent back", "exchanged", "gave back"},
	TypeComplaint:      {"complain", "complained", "claim", "protest", "upset"},
	TypeRecommendation: {"recommend", "suggest", "advise"},
	TypeFailure:        {"failed", "broke", "stopped working", "does not work", "defective"},
	TypeFunction:       {"works well", "works perfectly", "operates correctly", "works great"},
	TypeDelivery:       {"arrived", "received", "delivered", "came"},
	TypeRating:         {"rate", "score", "stars"},
}

// triggerTable is the flattened lexicon: the automaton's pattern IDs
// index into it.
type triggerEntry struct {
	phrase string
	typ    EventType
}

type triggerScanner struct {
	ac      *ahocorasick.Automaton
	entries []triggerEntry
}

var sharedScanner = sync.OnceValue(func() *triggerScanner {
	var entries []triggerEntry
	var phrases []string
	// Fixed iteration order keeps event output deterministic.
	for _, typ := range []EventType{
		TypePurchase, TypeReturn, TypeComplaint, TypeRecommendation,
		TypeFailure, TypeFunction, TypeDelivery, TypeRating,
	} {
		for _, phrase := range eventTriggers[typ] {
			entries = append(entries, triggerEntry{phrase: phrase, typ: typ})
			phrases = append(phrases, phrase)
		}
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(phrases).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		panic(err)
	}
	return &triggerScanner{ac: ac, entries: entries}
})

// Extractor detects events. Stateless; safe for concurrent use.
type Extractor struct {
	scanner   *triggerScanner
	sentiment *sentimentScorer
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{scanner: sharedScanner(), sentiment: newSentimentScorer()}
}

// Extract scans text for event triggers and builds one event per distinct
// trigger phrase found. ents is the entity tagger output for the same
// text; products is the derived product mention list (explicit Product
// entities unioned with model-string detections).
func (x *Extractor) Extract(text string, ents []entities.Entity, products []string) []Event {
	lower := strings.ToLower(text)

	hits := x.scanner.ac.FindAllOverlapping([]byte(lower))
	if len(hits) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(hits))
	var triggered []triggerEntry
	for _, h := range hits {
		if seen[h.PatternID] {
			continue
		}
		seen[h.PatternID] = true
		triggered = append(triggered, x.scanner.entries[h.PatternID])
	}

	// Sentiment is a whole-review vote, shared by every event in it.
	sentiment := x.sentiment.Score(lower)

	actor := firstOfType(ents, entities.TypePerson)
	when := firstOfType(ents, entities.TypeDate)
	where := firstOfType(ents, entities.TypeLocation)
	var object string
	if len(products) > 0 {
		object = products[0]
	}

	out := make([]Event, 0, len(triggered))
	for _, tr := range triggered {
		out = append(out, Event{
			Type:       tr.typ,
			Trigger:    tr.phrase,
			Actor:      actor,
			Object:     object,
			Time:       when,
			Location:   where,
			Sentiment:  sentiment,
			Confidence: triggerConfidence,
		})
	}
	return out
}

func firstOfType(ents []entities.Entity, typ entities.Type) string {
	for _, e := range ents {
		if e.Type == typ {
			return e.Text
		}
	}
	return ""
}

// FilterByType returns the events matching typ.
func FilterByType(evs []Event, typ EventType) []Event {
	var out []Event
	for _, e := range evs {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
