package patterns

import (
	"strings"
	"testing"
)

func TestExtractAll_ReviewScenario(t *testing.T) {
	x := New()
	text := "I bought the iPhone 14 Pro for $1200, it works great, 5 stars"

	res := x.ExtractAll(text)

	if len(res.Prices) != 1 {
		t.Fatalf("expected 1 price, got %d: %v", len(res.Prices), res.Prices)
	}
	if res.Prices[0].Value != "$1200" {
		t.Errorf("expected price $1200, got %q", res.Prices[0].Value)
	}

	if len(res.Ratings) != 1 {
		t.Fatalf("expected 1 rating, got %d: %v", len(res.Ratings), res.Ratings)
	}
	if res.Ratings[0].Value != "5 stars" {
		t.Errorf("expected rating '5 stars', got %q", res.Ratings[0].Value)
	}
	if res.Ratings[0].Derived != "5" {
		t.Errorf("expected derived rating 5, got %q", res.Ratings[0].Derived)
	}
}

func TestExtractAll_Spans(t *testing.T) {
	x := New()
	text := "paid $49.99 on 12/05/2023"

	res := x.ExtractAll(text)
	for _, group := range [][]Match{res.Prices, res.Dates, res.Models, res.Ratings, res.Auxiliary} {
		for _, m := range group {
			if m.Span.Start < 0 || m.Span.End > len(text) || m.Span.Start > m.Span.End {
				t.Fatalf("bad span %+v for %q", m.Span, m.Value)
			}
			if text[m.Span.Start:m.Span.End] != m.Value {
				t.Errorf("span mismatch: %q vs %q", text[m.Span.Start:m.Span.End], m.Value)
			}
		}
	}

	if len(res.Dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(res.Dates))
	}
	if res.Dates[0].Derived != "dmy" {
		t.Errorf("expected dmy bucket, got %q", res.Dates[0].Derived)
	}
}

func TestExtractRatings_OutOf(t *testing.T) {
	x := New()
	res := x.ExtractAll("solid product, 8/10 overall")

	if len(res.Ratings) != 1 {
		t.Fatalf("expected 1 rating, got %d", len(res.Ratings))
	}
	if res.Ratings[0].Derived != "4.0" {
		t.Errorf("expected normalized 4.0, got %q", res.Ratings[0].Derived)
	}
}

func TestExtractModels_ConfidenceBoost(t *testing.T) {
	x := New()

	res := x.ExtractModels("my XPS13 died")
	if len(res) == 0 {
		t.Fatal("expected a model match")
	}
	// Family token + code shape both boost above the 0.5 base.
	if res[0].Derived != "1.00" {
		t.Errorf("expected confidence 1.00, got %q", res[0].Derived)
	}

	res = x.ExtractModels("the Turbo Model Z arrived")
	if len(res) == 0 {
		t.Fatal("expected a model match")
	}
	if res[0].Derived != "0.50" {
		t.Errorf("expected base confidence 0.50, got %q", res[0].Derived)
	}
}

func TestExtractAuxiliary(t *testing.T) {
	x := New()
	res := x.ExtractAll("contact support@vendor.com or 555-123-4567")

	var kinds []string
	for _, m := range res.Auxiliary {
		kinds = append(kinds, m.Derived)
	}
	joined := strings.Join(kinds, ",")
	if !strings.Contains(joined, "email") || !strings.Contains(joined, "phone") {
		t.Errorf("expected email and phone hits, got %v", res.Auxiliary)
	}
}

func TestCleanText(t *testing.T) {
	in := "Check https://example.com/review?id=1 @seller #deal   great — product!!"
	out := CleanText(in)

	if strings.Contains(out, "http") || strings.Contains(out, "@") || strings.Contains(out, "#") {
		t.Errorf("unremoved noise in %q", out)
	}
	if strings.Contains(out, "  ") {
		t.Errorf("uncollapsed whitespace in %q", out)
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"  padded  ",
		"emoji ☂ and url http://x.co plus @you",
		"",
	}
	for _, in := range inputs {
		once := CleanText(in)
		twice := CleanText(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestExtractBatch_Order(t *testing.T) {
	x := New()
	texts := []string{
		"costs $10",
		"no patterns here at all",
		"rated 3 stars",
		"model AB12 again for $10",
		"arrived 2023-01-02",
	}

	results := x.ExtractBatch(texts, 4)
	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}
	if len(results[0].Prices) != 1 {
		t.Errorf("doc 0: expected a price, got %v", results[0])
	}
	if !results[1].Empty() {
		t.Errorf("doc 1: expected empty result, got %+v", results[1])
	}
	if len(results[2].Ratings) != 1 {
		t.Errorf("doc 2: expected a rating, got %v", results[2])
	}
	if len(results[4].Dates) != 1 || results[4].Dates[0].Derived != "ymd" {
		t.Errorf("doc 4: expected ymd date, got %v", results[4].Dates)
	}
}

func TestExtractAll_Memoized(t *testing.T) {
	x := New()
	text := "the SM21X for $99"

	first := x.ExtractAll(text)
	second := x.ExtractAll(text)

	if len(first.Models) != len(second.Models) || len(first.Prices) != len(second.Prices) {
		t.Errorf("memoized result differs: %+v vs %+v", first, second)
	}
}
