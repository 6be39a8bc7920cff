package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/opinionkit/opinionscan/pkg/pipeline"
)

// Archive is the SQLite-backed batch archive.
// Thread-safe; one writer at a time, concurrent readers.
type Archive struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines the archive tables. Review payloads are stored whole as
// JSON; the events table is denormalized so type and sentiment queries
// run without unpacking payloads.
const schema = `
CREATE TABLE IF NOT EXISTS batches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at INTEGER NOT NULL,
    review_count INTEGER NOT NULL,
    backend TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS reviews (
    batch_id INTEGER NOT NULL,
    review_id TEXT NOT NULL,
    text TEXT NOT NULL,
    sentiment TEXT NOT NULL,
    products TEXT,
    brands TEXT,
    payload TEXT NOT NULL,
    processed_at INTEGER NOT NULL,
    PRIMARY KEY (batch_id, review_id)
);

CREATE INDEX IF NOT EXISTS idx_reviews_sentiment ON reviews(batch_id, sentiment);

CREATE TABLE IF NOT EXISTS events (
    batch_id INTEGER NOT NULL,
    review_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    trigger_phrase TEXT NOT NULL,
    sentiment TEXT NOT NULL,
    confidence REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_type ON events(batch_id, event_type);
`

// NewArchive creates a new in-memory archive.
func NewArchive() (*Archive, error) {
	return NewArchiveWithDSN(":memory:")
}

// NewArchiveWithDSN creates an archive with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewArchiveWithDSN(dsn string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SaveBatch archives a processed batch in one transaction and returns the
// new batch ID.
func (a *Archive) SaveBatch(reviews []pipeline.ProcessedReview, backend string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO batches (created_at, review_count, backend)
		VALUES (?, ?, ?)
	`, time.Now().Unix(), len(reviews), backend)
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch: %w", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read batch id: %w", err)
	}

	for _, rev := range reviews {
		payload, err := json.Marshal(rev)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize review %s: %w", rev.Review.ID, err)
		}
		products, _ := json.Marshal(rev.Products)
		brands, _ := json.Marshal(rev.Brands)

		_, err = tx.Exec(`
			INSERT INTO reviews (batch_id, review_id, text, sentiment, products, brands, payload, processed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, batchID, rev.Review.ID, rev.Review.Text, string(rev.Sentiment),
			string(products), string(brands), string(payload), rev.ProcessedAt.Unix())
		if err != nil {
			return 0, fmt.Errorf("failed to insert review %s: %w", rev.Review.ID, err)
		}

		for _, ev := range rev.Events {
			_, err = tx.Exec(`
				INSERT INTO events (batch_id, review_id, event_type, trigger_phrase, sentiment, confidence)
				VALUES (?, ?, ?, ?, ?, ?)
			`, batchID, rev.Review.ID, string(ev.Type), ev.Trigger, string(ev.Sentiment), ev.Confidence)
			if err != nil {
				return 0, fmt.Errorf("failed to insert event for %s: %w", rev.Review.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return batchID, nil
}

// GetBatch returns every review of a batch in review-id order.
func (a *Archive) GetBatch(batchID int64) ([]pipeline.ProcessedReview, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(`
		SELECT payload FROM reviews WHERE batch_id = ? ORDER BY review_id
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch %d: %w", batchID, err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// GetReview retrieves one archived review. Returns nil when absent.
func (a *Archive) GetReview(batchID int64, reviewID string) (*pipeline.ProcessedReview, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var payload string
	err := a.db.QueryRow(`
		SELECT payload FROM reviews WHERE batch_id = ? AND review_id = ?
	`, batchID, reviewID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query review %s: %w", reviewID, err)
	}

	var rev pipeline.ProcessedReview
	if err := json.Unmarshal([]byte(payload), &rev); err != nil {
		return nil, fmt.Errorf("failed to decode review %s: %w", reviewID, err)
	}
	return &rev, nil
}

// ListBatches returns batch summaries, newest first.
func (a *Archive) ListBatches() ([]BatchInfo, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(`
		SELECT id, created_at, review_count, backend FROM batches ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []BatchInfo
	for rows.Next() {
		var b BatchInfo
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.ReviewCount, &b.Backend); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ReviewsBySentiment filters a batch by review-level sentiment.
func (a *Archive) ReviewsBySentiment(batchID int64, sentiment string) ([]pipeline.ProcessedReview, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(`
		SELECT payload FROM reviews
		WHERE batch_id = ? AND sentiment = ?
		ORDER BY review_id
	`, batchID, sentiment)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment %s: %w", sentiment, err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// EventsByType returns the denormalized events of one type in a batch.
func (a *Archive) EventsByType(batchID int64, eventType string) ([]EventRow, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(`
		SELECT batch_id, review_id, event_type, trigger_phrase, sentiment, confidence
		FROM events
		WHERE batch_id = ? AND event_type = ?
		ORDER BY review_id
	`, batchID, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to query events %s: %w", eventType, err)
	}
	defer rows.Close()

	var events []EventRow
	for rows.Next() {
		var ev EventRow
		if err := rows.Scan(&ev.BatchID, &ev.ReviewID, &ev.Type, &ev.Trigger, &ev.Sentiment, &ev.Confidence); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// EventTypeCounts returns the event-type distribution of a batch.
func (a *Archive) EventTypeCounts(batchID int64) (map[string]int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(`
		SELECT event_type, COUNT(*) FROM events
		WHERE batch_id = ?
		GROUP BY event_type
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

func scanReviews(rows *sql.Rows) ([]pipeline.ProcessedReview, error) {
	var reviews []pipeline.ProcessedReview
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rev pipeline.ProcessedReview
		if err := json.Unmarshal([]byte(payload), &rev); err != nil {
			return nil, fmt.Errorf("failed to decode archived review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
