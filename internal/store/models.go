// Package store archives processed review batches in SQLite.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
package store

import "github.com/opinionkit/opinionscan/pkg/pipeline"

// BatchInfo summarizes one archived batch.
type BatchInfo struct {
	ID          int64  `json:"id"`
	CreatedAt   int64  `json:"createdAt"`
	ReviewCount int    `json:"reviewCount"`
	Backend     string `json:"backend"`
}

// EventRow is one denormalized event from the events table, queryable
// without unpacking review payloads.
type EventRow struct {
	BatchID    int64   `json:"batchId"`
	ReviewID   string  `json:"reviewId"`
	Type       string  `json:"type"`
	Trigger    string  `json:"trigger"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Archiver defines the interface for batch persistence.
// Archive is the sole implementation.
type Archiver interface {
	SaveBatch(reviews []pipeline.ProcessedReview, backend string) (int64, error)
	GetBatch(batchID int64) ([]pipeline.ProcessedReview, error)
	GetReview(batchID int64, reviewID string) (*pipeline.ProcessedReview, error)
	ListBatches() ([]BatchInfo, error)
	ReviewsBySentiment(batchID int64, sentiment string) ([]pipeline.ProcessedReview, error)
	EventsByType(batchID int64, eventType string) ([]EventRow, error)
	EventTypeCounts(batchID int64) (map[string]int, error)
	Close() error
}
