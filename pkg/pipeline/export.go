package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
)

// ExportJSON writes the processed batch as an indented JSON array.
func ExportJSON(w io.Writer, reviews []ProcessedReview) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reviews); err != nil {
		return fmt.Errorf("pipeline: encoding batch: %w", err)
	}
	return nil
}
