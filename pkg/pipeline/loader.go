package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoTextColumn reports a batch whose schema lacks the free-text
// column. Nothing from such a batch is processed.
var ErrNoTextColumn = errors.New("pipeline: text column not found")

// LoadCSV reads a review dataset. The header row names the columns;
// textColumn selects the free-text one, and a column named "id" (if
// present) supplies row IDs, otherwise rows get positional review_N IDs.
// Every other column becomes row metadata.
func LoadCSV(r io.Reader, textColumn string) ([]RawReview, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading csv header: %w", err)
	}

	textIdx, idIdx := -1, -1
	for i, name := range header {
		col := strings.TrimSpace(name)
		switch {
		case strings.EqualFold(col, textColumn):
			textIdx = i
		case strings.EqualFold(col, "id"):
			idIdx = i
		}
	}
	if textIdx < 0 {
		return nil, fmt.Errorf("%w: %q, available columns: %s",
			ErrNoTextColumn, textColumn, strings.Join(header, ", "))
	}

	var reviews []RawReview
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline: reading csv row %d: %w", row+1, err)
		}
		if textIdx >= len(record) {
			continue
		}

		rev := RawReview{Text: record[textIdx]}
		if idIdx >= 0 && idIdx < len(record) && record[idIdx] != "" {
			rev.ID = record[idIdx]
		} else {
			rev.ID = fmt.Sprintf("review_%d", row)
		}
		for i, v := range record {
			if i == textIdx || i == idIdx || i >= len(header) {
				continue
			}
			if rev.Metadata == nil {
				rev.Metadata = map[string]string{}
			}
			rev.Metadata[strings.TrimSpace(header[i])] = v
		}
		reviews = append(reviews, rev)
	}
	return reviews, nil
}
