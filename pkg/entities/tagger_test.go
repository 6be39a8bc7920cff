package entities

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCascade_LightweightFallback(t *testing.T) {
	// Unreachable primary model directory: the cascade must land on the
	// lightweight statistical tier and report it in stats.
	tagger, err := NewTagger(Config{ModelDir: "/nonexistent/model/dir"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tagger.Tag("Alice bought a Samsung phone in Boston.")

	stats := tagger.Stats()
	if stats.ModelUsed != BackendProseLite {
		t.Errorf("expected model_used %q, got %q", BackendProseLite, stats.ModelUsed)
	}
	if stats.Processed != 1 {
		t.Errorf("expected processed 1, got %d", stats.Processed)
	}
}

func TestTag_NeverFails(t *testing.T) {
	tagger, err := NewTagger(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, text := range []string{"", "   ", "!!!", strings.Repeat("x", 5000)} {
		ents := tagger.Tag(text)
		// A possibly empty list, never a panic.
		for _, e := range ents {
			if e.Confidence < 0 || e.Confidence > 1 {
				t.Errorf("confidence out of range: %+v", e)
			}
		}
	}
}

func TestTag_OffsetsMatchText(t *testing.T) {
	tagger, err := NewTagger(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := "John Smith paid $499.99 for a Sony WH-1000XM4 on 12/03/2023 in Seattle."
	ents := tagger.Tag(text)
	if len(ents) == 0 {
		t.Fatal("expected entities")
	}

	for _, e := range ents {
		if e.Start < 0 || e.End > len(text) || e.Start > e.End {
			t.Fatalf("bad offsets %d:%d for %q", e.Start, e.End, e.Text)
		}
		if text[e.Start:e.End] != e.Text {
			t.Errorf("span mismatch: text[%d:%d]=%q, entity=%q", e.Start, e.End, text[e.Start:e.End], e.Text)
		}
		if e.Confidence < ConfidenceFloor || e.Confidence > 1 {
			t.Errorf("confidence %f outside [%f,1] for %q", e.Confidence, ConfidenceFloor, e.Text)
		}
	}
}

func TestGazetteerBackend_Types(t *testing.T) {
	b, err := newGazetteerBackend()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := "Mr. Garcia bought a Samsung tablet for $300 on 5/10/2023, 20% off"
	ents, err := b.Tag(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byType := make(map[Type][]string)
	for _, e := range ents {
		byType[e.Type] = append(byType[e.Type], e.Text)
	}

	if len(byType[TypePerson]) == 0 {
		t.Error("expected a Person hit")
	}
	if len(byType[TypeOrganization]) == 0 || byType[TypeOrganization][0] != "Samsung" {
		t.Errorf("expected Samsung as Organization, got %v", byType[TypeOrganization])
	}
	if len(byType[TypeMoney]) == 0 || byType[TypeMoney][0] != "$300" {
		t.Errorf("expected $300 as Money, got %v", byType[TypeMoney])
	}
	if len(byType[TypeDate]) == 0 {
		t.Error("expected a Date hit")
	}
	if len(byType[TypePercentage]) == 0 || byType[TypePercentage][0] != "20%" {
		t.Errorf("expected 20%% as Percentage, got %v", byType[TypePercentage])
	}
}

func TestGazetteer_WordBounds(t *testing.T) {
	b, err := newGazetteerBackend()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// "LG" must not fire inside an unrelated word.
	ents, _ := b.Tag("the algorithm is clever")
	for _, e := range ents {
		if e.Type == TypeOrganization {
			t.Errorf("spurious brand hit %q", e.Text)
		}
	}
}

func TestPostProcess_DedupeAndFloor(t *testing.T) {
	ents := []Entity{
		{Text: "Samsung", Type: TypeOrganization, Start: 0, End: 7, Confidence: 0.85},
		{Text: "samsung", Type: TypeOrganization, Start: 30, End: 37, Confidence: 0.6},
		{Text: "Samsung", Type: TypeProduct, Start: 0, End: 7, Confidence: 0.7},
		{Text: "weak", Type: TypeMiscellaneous, Start: 10, End: 14, Confidence: 0.3},
	}

	out := postProcess(ents)
	if len(out) != 2 {
		t.Fatalf("expected 2 entities after dedupe+floor, got %d: %v", len(out), out)
	}
	for _, e := range out {
		if e.Text == "samsung" {
			t.Error("kept lower-confidence duplicate")
		}
		if e.Confidence < ConfidenceFloor {
			t.Errorf("kept sub-floor entity %+v", e)
		}
	}
}

func TestSplitChunks(t *testing.T) {
	sentence := "This product is fine. "
	long := strings.Repeat(sentence, 200) // ~4400 bytes

	chunks := splitChunks(long, DefaultChunkSize)
	if len(chunks) < 3 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Chunks must tile the input exactly.
	var rebuilt strings.Builder
	pos := 0
	for _, c := range chunks {
		if c.offset != pos {
			t.Fatalf("chunk offset %d, expected %d", c.offset, pos)
		}
		rebuilt.WriteString(c.text)
		pos += len(c.text)
	}
	if rebuilt.String() != long {
		t.Fatal("chunks do not reassemble input")
	}

	// Boundary should land after a sentence end, not mid-word.
	first := chunks[0].text
	if !strings.HasSuffix(strings.TrimRight(first, " "), ".") {
		t.Errorf("chunk boundary mid-sentence: ...%q", first[len(first)-20:])
	}

	short := splitChunks("tiny", 1500)
	if len(short) != 1 || short[0].text != "tiny" || short[0].offset != 0 {
		t.Errorf("short input should be a single chunk, got %+v", short)
	}
}

func TestSplitChunks_RuneBoundaries(t *testing.T) {
	// No sentence punctuation anywhere, so every cut is the mid-sentence
	// fallback; the multi-byte runes must survive it intact.
	long := strings.Repeat("süß müde naïve café ", 100) // ~2400 bytes

	chunks := splitChunks(long, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var rebuilt strings.Builder
	for _, c := range chunks {
		if !utf8.ValidString(c.text) {
			t.Errorf("chunk at offset %d is not valid UTF-8: %q", c.offset, c.text)
		}
		rebuilt.WriteString(c.text)
	}
	if rebuilt.String() != long {
		t.Fatal("chunks do not reassemble input")
	}
}

func TestGroupByType(t *testing.T) {
	ents := []Entity{
		{Text: "Apple", Type: TypeOrganization},
		{Text: "apple", Type: TypeOrganization},
		{Text: "Boston", Type: TypeLocation},
	}
	grouped := GroupByType(ents)
	if len(grouped[TypeOrganization]) != 1 {
		t.Errorf("expected case-insensitive dedupe, got %v", grouped[TypeOrganization])
	}
	if len(grouped[TypeLocation]) != 1 {
		t.Errorf("expected one location, got %v", grouped[TypeLocation])
	}
}
