package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(texts ...string) *Index {
	docs := make([]Document, len(texts))
	for i, t := range texts {
		docs[i] = Document{ID: fmt.Sprintf("review_%d", i), Text: t}
	}
	x := NewIndex()
	x.Build(docs)
	return x
}

func TestQuery_SingleMatch(t *testing.T) {
	x := buildIndex(
		"great phone, excellent battery life",
		"the unit was defective right out of the box",
		"delivery was quick and packaging solid",
	)

	results := x.Query("defective", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "review_1", results[0].ID)
	assert.Equal(t, 1, results[0].Index)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestQuery_TopKBound(t *testing.T) {
	texts := []string{
		"widget works nicely", "widget broke fast", "widget widget widget",
		"widget is heavy", "another widget story",
	}
	// Pad the corpus so the term stays rare enough to carry positive IDF.
	for i := 0; i < 7; i++ {
		texts = append(texts, fmt.Sprintf("unrelated review number %d about shoes", i))
	}
	x := buildIndex(texts...)

	results := x.Query("widget", 2)
	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestQuery_EmptyQueryAndEmptyIndex(t *testing.T) {
	x := buildIndex("some review text here")
	assert.Empty(t, x.Query("", 5))
	assert.Empty(t, x.Query("   ", 5))

	empty := NewIndex()
	assert.Empty(t, empty.Query("anything", 5))
}

func TestScore_MonotonicInTermFrequency(t *testing.T) {
	// Same document length, same corpus statistics: higher tf must not
	// score lower. The corpus carries enough non-matching documents to
	// keep the term's IDF positive.
	x := buildIndex(
		"camera filler0 filler1 filler2 filler3",
		"camera camera filler4 filler5 filler6",
		"camera camera camera filler7 filler8",
		"nothing relevant happening around optics today",
		"sturdy tripod with smooth panning head",
		"memory card write speeds were advertised honestly",
		"strap clip snapped after light outdoor use",
		"viewfinder diopter adjustment feels imprecise",
	)

	results := x.Query("camera", 10)
	require.Len(t, results, 3)
	assert.Equal(t, 2, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, 0, results[2].Index)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.GreaterOrEqual(t, results[1].Score, results[2].Score)
}

func TestBuild_Deterministic(t *testing.T) {
	texts := []string{
		"laptop keyboard started failing",
		"keyboard keys feel mushy on this laptop",
		"monitor has dead pixels",
		"speaker crackles at high volume",
		"webcam image looks washed out indoors",
		"docking station drops ethernet intermittently",
	}

	x := buildIndex(texts...)
	first := x.Query("laptop keyboard", 10)

	x.Build(nil)
	docs := make([]Document, len(texts))
	for i, s := range texts {
		docs[i] = Document{ID: fmt.Sprintf("review_%d", i), Text: s}
	}
	x.Build(docs)
	second := x.Query("laptop keyboard", 10)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Index, second[i].Index)
		assert.InDelta(t, first[i].Score, second[i].Score, 1e-12)
	}
}

func TestBuild_ReplacesWholesale(t *testing.T) {
	x := buildIndex("alpha review", "beta review", "gamma review")
	require.Equal(t, 3, x.Len())

	x.Build([]Document{{ID: "only", Text: "delta review"}})
	assert.Equal(t, 1, x.Len())
	assert.Empty(t, x.Query("alpha", 5))
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The battery IS excellent, 99% of the time!")
	assert.Contains(t, tokens, "battery")
	assert.Contains(t, tokens, "excellent")
	assert.NotContains(t, tokens, "the", "stop words must be dropped")
	assert.NotContains(t, tokens, "is")
	assert.NotContains(t, tokens, "99", "short tokens must be dropped")
}

func TestQueryBySentiment_Expansion(t *testing.T) {
	x := buildIndex(
		"absolutely excellent, recommended without hesitation",
		"defective and disappointing, terrible support",
		"shipping details and tracking number updates",
	)

	pos := x.QueryBySentiment("positive", 5)
	require.NotEmpty(t, pos)
	assert.Equal(t, 0, pos[0].Index)

	neg := x.QueryBySentiment("negative", 5)
	require.NotEmpty(t, neg)
	assert.Equal(t, 1, neg[0].Index)
}

func TestQueryByProduct_Expansion(t *testing.T) {
	x := buildIndex(
		"the blender is loud but effective",
		"my toaster review: uneven browning",
		"kettle whistles at a pleasant pitch",
	)

	results := x.QueryByProduct("toaster", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, 1, results[0].Index)
}

func TestStats(t *testing.T) {
	x := buildIndex(
		"short review",
		"a considerably longer review with many more distinct informative tokens included",
	)

	s := x.Stats()
	assert.Equal(t, 2, s.Documents)
	assert.Greater(t, s.Vocabulary, 0)
	assert.Greater(t, s.AvgDocLength, 0.0)
	assert.LessOrEqual(t, s.MinDocLength, s.MaxDocLength)
}

func TestTune(t *testing.T) {
	x := buildIndex(
		"battery drains overnight even when idle",
		"battery life is superb for travel",
		"case scratched within days of delivery",
		"charger cable frayed at the connector",
		"screen protector applied without bubbles",
		"stand wobbles on uneven desks",
		"remote pairing worked on the first try",
		"warranty claim handled promptly by support",
	)

	_, _, err := x.Tune([]string{"battery"}, [][]int{{0, 1}, {2}})
	assert.ErrorIs(t, err, ErrTuningMismatch)

	k1, b, err := x.Tune(
		[]string{"battery", "charger cable"},
		[][]int{{0, 1}, {3}},
	)
	require.NoError(t, err)

	gotK1, gotB := x.Params()
	assert.Equal(t, k1, gotK1)
	assert.Equal(t, b, gotB)

	// Tuned parameters must still retrieve the relevant documents.
	results := x.Query("battery", 2)
	require.Len(t, results, 2)
}
