package pipeline

import (
	"strings"
	"time"

	"github.com/opinionkit/opinionscan/pkg/entities"
	"github.com/opinionkit/opinionscan/pkg/events"
	"github.com/opinionkit/opinionscan/pkg/patterns"
	"github.com/opinionkit/opinionscan/pkg/relations"
)

// RawReview is one row of the input dataset. Immutable once read.
type RawReview struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ProcessedReview aggregates everything derived from one raw review. It
// is assembled once by the processor and never mutated afterwards.
type ProcessedReview struct {
	Review      RawReview                  `json:"review"`
	Patterns    patterns.Result            `json:"patterns"`
	Entities    map[entities.Type][]string `json:"entities"`
	Relations   []relations.Relation       `json:"relations"`
	Events      []events.Event             `json:"events"`
	Products    []string                   `json:"products"`
	Brands      []string                   `json:"brands"`
	Sentiment   events.Sentiment           `json:"sentiment"`
	ProcessedAt time.Time                  `json:"processed_at"`
}

// CompositeText is the searchable rendering of the review: original text
// plus all entity strings, products, and brands, so a query can hit
// derived vocabulary the raw text spells differently.
func (r ProcessedReview) CompositeText() string {
	var b strings.Builder
	b.WriteString(r.Review.Text)
	for _, typ := range entityTextOrder {
		for _, s := range r.Entities[typ] {
			b.WriteByte(' ')
			b.WriteString(s)
		}
	}
	for _, s := range r.Products {
		b.WriteByte(' ')
		b.WriteString(s)
	}
	for _, s := range r.Brands {
		b.WriteByte(' ')
		b.WriteString(s)
	}
	return b.String()
}

// entityTextOrder fixes map iteration for CompositeText. Ranking only
// sees the token multiset, but a stable rendering keeps snapshots and
// exports byte-identical across runs.
var entityTextOrder = []entities.Type{
	entities.TypePerson, entities.TypeOrganization, entities.TypeLocation,
	entities.TypeDate, entities.TypeTime, entities.TypeMoney,
	entities.TypeQuantity, entities.TypeProduct, entities.TypeEvent,
	entities.TypeLanguage, entities.TypeLaw, entities.TypeGroup,
	entities.TypeNumber, entities.TypePercentage, entities.TypeMiscellaneous,
}

// Snippet returns the leading slice of the review text used in search
// hits, cut at a rune boundary.
func (r ProcessedReview) Snippet(max int) string {
	text := r.Review.Text
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
