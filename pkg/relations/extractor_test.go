package relations

import (
	"testing"

	"github.com/opinionkit/opinionscan/pkg/entities"
)

func TestExtract_Syntactic(t *testing.T) {
	x := New()

	rels := x.Extract("The delivery driver damaged the package.", nil, nil)
	if len(rels) == 0 {
		t.Fatal("expected a syntactic relation")
	}

	r := rels[0]
	if r.Kind != KindSyntactic {
		t.Errorf("expected kind syntactic, got %q", r.Kind)
	}
	if r.Predicate != "damaged" {
		t.Errorf("expected predicate 'damaged', got %q", r.Predicate)
	}
	if r.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %f", r.Confidence)
	}
	if r.Subject == "" || r.Object == "" {
		t.Errorf("empty phrase in %+v", r)
	}
}

func TestExtract_PurchaseCrossProduct(t *testing.T) {
	x := New()

	text := "John bought the iPhone 14 and Mary got the Galaxy S23"
	ents := []entities.Entity{
		{Text: "John", Type: entities.TypePerson},
		{Text: "Mary", Type: entities.TypePerson},
	}
	products := []string{"iPhone 14", "Galaxy S23"}

	rels := x.Extract(text, ents, products)

	var pattern []Relation
	for _, r := range rels {
		if r.Kind == KindPattern {
			pattern = append(pattern, r)
		}
	}

	// Cross product, repeated per distinct trigger: 2 persons x 2
	// products x 2 triggers (bought, got), no proximity filtering.
	if len(pattern) != 8 {
		t.Fatalf("expected 8 pattern relations, got %d: %v", len(pattern), pattern)
	}
	for _, r := range pattern {
		if r.Predicate != "bought" {
			t.Errorf("expected predicate 'bought', got %q", r.Predicate)
		}
		if r.Confidence != 0.8 {
			t.Errorf("expected confidence 0.8, got %f", r.Confidence)
		}
	}
}

func TestExtract_PatternRepeatsPerTrigger(t *testing.T) {
	x := New()

	ents := []entities.Entity{{Text: "John", Type: entities.TypePerson}}
	rels := x.Extract("John bought the phone and later ordered it again", ents, []string{"phone"})

	var pattern []Relation
	for _, r := range rels {
		if r.Kind == KindPattern {
			pattern = append(pattern, r)
		}
	}
	if len(pattern) != 2 {
		t.Fatalf("expected 2 pattern relations, one per trigger, got %d: %v", len(pattern), pattern)
	}

	single := x.Extract("John bought the phone", ents, []string{"phone"})
	var count int
	for _, r := range single {
		if r.Kind == KindPattern {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected 1 pattern relation for a single trigger, got %d", count)
	}
}

func TestExtract_NoTriggerNoPattern(t *testing.T) {
	x := New()

	ents := []entities.Entity{{Text: "John", Type: entities.TypePerson}}
	rels := x.Extract("John loves the iPhone 14", ents, []string{"iPhone 14"})

	for _, r := range rels {
		if r.Kind == KindPattern {
			t.Errorf("pattern relation without a purchase trigger: %+v", r)
		}
	}
}

func TestExtract_ProductMustAppearVerbatim(t *testing.T) {
	x := New()

	ents := []entities.Entity{{Text: "John", Type: entities.TypePerson}}
	// Product list mentions something the text never does.
	rels := x.Extract("John bought a phone", ents, []string{"Pixel 8"})

	for _, r := range rels {
		if r.Kind == KindPattern {
			t.Errorf("pattern relation for absent product: %+v", r)
		}
	}
}

func TestExpandPhrase_Modifiers(t *testing.T) {
	x := New()

	rels := x.Extract("The cheap plastic hinge broke the alignment.", nil, nil)
	if len(rels) == 0 {
		t.Fatal("expected a relation")
	}
	if rels[0].Subject != "The cheap plastic hinge" {
		t.Errorf("expected expanded subject, got %q", rels[0].Subject)
	}
}
