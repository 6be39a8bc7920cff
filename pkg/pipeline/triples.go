package pipeline

import "fmt"

// Triple tags relate an event node to one of its attributes in the
// knowledge-graph export.
const (
	TagEventActor     = "event-actor"
	TagEventObject    = "event-object"
	TagEventSentiment = "event-sentiment"
	TagEventTrigger   = "event-trigger"
)

// Triple is one edge of the knowledge-graph export. Value copies only.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Tag       string `json:"tag"`
}

// Triples flattens a processed review's events into graph edges. Each
// event becomes a node named <review-id>:event:<n>; absent actors and
// objects emit no edge.
func Triples(rev ProcessedReview) []Triple {
	var out []Triple
	for i, ev := range rev.Events {
		node := fmt.Sprintf("%s:event:%d", rev.Review.ID, i)
		if ev.Actor != "" {
			out = append(out, Triple{node, "actor", ev.Actor, TagEventActor})
		}
		if ev.Object != "" {
			out = append(out, Triple{node, "object", ev.Object, TagEventObject})
		}
		out = append(out,
			Triple{node, "sentiment", string(ev.Sentiment), TagEventSentiment},
			Triple{node, "trigger", ev.Trigger, TagEventTrigger},
		)
	}
	return out
}

// TripleStream flattens the whole processed batch.
func (p *Processor) TripleStream() []Triple {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Triple
	for _, rev := range p.corpus {
		out = append(out, Triples(rev)...)
	}
	return out
}
