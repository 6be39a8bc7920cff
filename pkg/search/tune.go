package search

import "errors"

// ErrTuningMismatch is returned when the query and relevance lists do not
// pair up.
var ErrTuningMismatch = errors.New("search: query and relevance list lengths differ")

// Grid ranges for parameter tuning.
var (
	tuneK1 = []float64{0.8, 1.0, 1.2, 1.5, 2.0}
	tuneB  = []float64{0.0, 0.25, 0.5, 0.75, 1.0}
)

// Tune grid-searches (k1, b) against labeled queries: for each query the
// paired slice lists the indices of relevant documents. Candidate
// parameterizations are scored by mean retrieval precision, and the best
// pair is adopted as the index's new default. Offline calibration only;
// not part of the query hot path.
func (x *Index) Tune(queries []string, relevant [][]int) (bestK1, bestB float64, err error) {
	if len(queries) != len(relevant) {
		return 0, 0, ErrTuningMismatch
	}

	origK1, origB := x.Params()
	bestK1, bestB = origK1, origB
	bestScore := -1.0

	for _, k1 := range tuneK1 {
		for _, b := range tuneB {
			x.SetParams(k1, b)
			score := x.meanPrecision(queries, relevant)
			if score > bestScore {
				bestScore = score
				bestK1, bestB = k1, b
			}
		}
	}

	x.SetParams(bestK1, bestB)
	return bestK1, bestB, nil
}

// meanPrecision averages per-query precision: retrieved∩relevant over
// retrieved, with the cutoff at the relevant-set size.
func (x *Index) meanPrecision(queries []string, relevant [][]int) float64 {
	if len(queries) == 0 {
		return 0
	}

	var total float64
	for qi, q := range queries {
		want := make(map[int]bool, len(relevant[qi]))
		for _, idx := range relevant[qi] {
			want[idx] = true
		}
		if len(want) == 0 {
			continue
		}

		results := x.Query(q, len(want))
		if len(results) == 0 {
			continue
		}
		var hit int
		for _, r := range results {
			if want[r.Index] {
				hit++
			}
		}
		total += float64(hit) / float64(len(results))
	}
	return total / float64(len(queries))
}
