package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opinionkit/opinionscan/pkg/entities"
	"github.com/opinionkit/opinionscan/pkg/events"
	"github.com/opinionkit/opinionscan/pkg/pipeline"
)

func sampleBatch() []pipeline.ProcessedReview {
	now := time.Now().UTC()
	return []pipeline.ProcessedReview{
		{
			Review: pipeline.RawReview{ID: "r1", Text: "I bought the iPhone 14 Pro, works great"},
			Entities: map[entities.Type][]string{
				entities.TypeProduct: {"iPhone 14 Pro"},
			},
			Events: []events.Event{
				{Type: events.TypePurchase, Trigger: "bought", Sentiment: events.SentimentPositive, Confidence: 0.7},
				{Type: events.TypeFunction, Trigger: "works great", Sentiment: events.SentimentPositive, Confidence: 0.7},
			},
			Products:    []string{"iPhone 14 Pro"},
			Brands:      []string{"Apple"},
			Sentiment:   events.SentimentPositive,
			ProcessedAt: now,
		},
		{
			Review:      pipeline.RawReview{ID: "r2", Text: "arrived broken, terrible"},
			Entities:    map[entities.Type][]string{},
			Events:      []events.Event{{Type: events.TypeFailure, Trigger: "broke", Sentiment: events.SentimentNegative, Confidence: 0.7}},
			Sentiment:   events.SentimentNegative,
			ProcessedAt: now,
		},
	}
}

func TestSaveBatchRoundTrip(t *testing.T) {
	a, err := NewArchive()
	require.NoError(t, err)
	defer a.Close()

	batchID, err := a.SaveBatch(sampleBatch(), "prose")
	require.NoError(t, err)
	require.Greater(t, batchID, int64(0))

	got, err := a.GetBatch(batchID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].Review.ID)
	assert.Equal(t, []string{"iPhone 14 Pro"}, got[0].Products)
	assert.Equal(t, events.SentimentPositive, got[0].Sentiment)
	assert.Len(t, got[0].Events, 2)

	rev, err := a.GetReview(batchID, "r2")
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, events.SentimentNegative, rev.Sentiment)

	missing, err := a.GetReview(batchID, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListBatches(t *testing.T) {
	a, err := NewArchive()
	require.NoError(t, err)
	defer a.Close()

	first, err := a.SaveBatch(sampleBatch(), "prose")
	require.NoError(t, err)
	second, err := a.SaveBatch(sampleBatch()[:1], "gazetteer")
	require.NoError(t, err)

	batches, err := a.ListBatches()
	require.NoError(t, err)
	require.Len(t, batches, 2)

	assert.Equal(t, second, batches[0].ID, "newest batch first")
	assert.Equal(t, 1, batches[0].ReviewCount)
	assert.Equal(t, "gazetteer", batches[0].Backend)
	assert.Equal(t, first, batches[1].ID)
	assert.Equal(t, 2, batches[1].ReviewCount)
}

func TestSentimentAndEventQueries(t *testing.T) {
	a, err := NewArchive()
	require.NoError(t, err)
	defer a.Close()

	batchID, err := a.SaveBatch(sampleBatch(), "prose")
	require.NoError(t, err)

	negative, err := a.ReviewsBySentiment(batchID, "negative")
	require.NoError(t, err)
	require.Len(t, negative, 1)
	assert.Equal(t, "r2", negative[0].Review.ID)

	purchases, err := a.EventsByType(batchID, "purchase")
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "r1", purchases[0].ReviewID)
	assert.Equal(t, "bought", purchases[0].Trigger)

	counts, err := a.EventTypeCounts(batchID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"purchase": 1, "function": 1, "failure": 1}, counts)
}

func TestBatchIsolation(t *testing.T) {
	a, err := NewArchive()
	require.NoError(t, err)
	defer a.Close()

	first, err := a.SaveBatch(sampleBatch(), "prose")
	require.NoError(t, err)
	second, err := a.SaveBatch(sampleBatch()[1:], "prose")
	require.NoError(t, err)

	got, err := a.GetBatch(second)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r2", got[0].Review.ID)

	counts, err := a.EventTypeCounts(first)
	require.NoError(t, err)
	assert.Equal(t, 3, counts["purchase"]+counts["function"]+counts["failure"])
}
