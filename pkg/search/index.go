// Package search provides relevance-ranked retrieval over processed
// reviews using the Okapi BM25 ranking function. The index is rebuilt
// wholesale on each Build call, never mutated incrementally; queries are
// read-only and may run concurrently with each other, serialized against
// rebuilds by a single-writer/multiple-reader lock.
package search

import (
	"math"
	"sort"
	"sync"
)

// Default BM25 parameters (Okapi variant, standard values). A tuning run
// may replace them per index.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// Document is one indexable unit: an identifier plus the composite
// searchable text (original review text, flattened entity text, product
// and brand lists).
type Document struct {
	ID   string
	Text string
}

// Result is a single ranked hit.
type Result struct {
	ID    string
	Index int // position in the indexed document slice
	Score float64
}

// Stats is the index observability snapshot.
type Stats struct {
	Documents      int     `json:"documents"`
	Vocabulary     int     `json:"vocabulary_size"`
	AvgDocLength   float64 `json:"avg_doc_length"`
	MinDocLength   int     `json:"min_doc_length"`
	MaxDocLength   int     `json:"max_doc_length"`
}

// Index is a BM25 index over documents.
type Index struct {
	mu sync.RWMutex

	k1 float64
	b  float64

	docs      []Document
	termFreqs []map[string]int
	docLens   []int
	avgdl     float64
	docFreq   map[string]int
	idf       map[string]float64
}

// NewIndex creates an empty index with default parameters.
func NewIndex() *Index {
	return &Index{
		k1:      DefaultK1,
		b:       DefaultB,
		docFreq: make(map[string]int),
		idf:     make(map[string]float64),
	}
}

// Build replaces the index contents with the given documents. The
// previous contents are discarded entirely; after Build returns, the
// document count always equals len(docs).
func (x *Index) Build(docs []Document) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.docs = docs
	x.termFreqs = make([]map[string]int, len(docs))
	x.docLens = make([]int, len(docs))
	x.docFreq = make(map[string]int)

	var total int
	for i, doc := range docs {
		tokens := Tokenize(doc.Text)
		x.docLens[i] = len(tokens)
		total += len(tokens)

		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		x.termFreqs[i] = tf
		for tok := range tf {
			x.docFreq[tok]++
		}
	}

	x.avgdl = 0
	if len(docs) > 0 {
		x.avgdl = float64(total) / float64(len(docs))
	}
	x.recomputeIDF()
}

// recomputeIDF derives idf(t) = ln((N - df + 0.5) / (df + 0.5)) for every
// vocabulary term. Caller holds the write lock.
func (x *Index) recomputeIDF() {
	n := float64(len(x.docs))
	x.idf = make(map[string]float64, len(x.docFreq))
	for term, df := range x.docFreq {
		x.idf[term] = math.Log((n - float64(df) + 0.5) / (float64(df) + 0.5))
	}
}

// Query ranks documents against the query text and returns up to topK
// positively scoring hits, best first. Ties keep original insertion
// order. An empty query or empty index returns an empty result list.
func (x *Index) Query(text string, topK int) []Result {
	x.mu.RLock()
	defer x.mu.RUnlock()

	queryTokens := Tokenize(text)
	if len(queryTokens) == 0 || len(x.docs) == 0 {
		return nil
	}

	var hits []Result
	for i := range x.docs {
		score := x.score(i, queryTokens)
		if score > 0 {
			hits = append(hits, Result{ID: x.docs[i].ID, Index: i, Score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// score computes BM25 for one document against the query tokens. Caller
// holds at least a read lock.
func (x *Index) score(docIdx int, queryTokens []string) float64 {
	tf := x.termFreqs[docIdx]
	docLen := float64(x.docLens[docIdx])

	var score float64
	for _, tok := range queryTokens {
		idf, ok := x.idf[tok]
		if !ok {
			continue
		}
		freq := float64(tf[tok])
		if freq == 0 {
			continue
		}

		numerator := freq * (x.k1 + 1)
		denominator := freq + x.k1*(1-x.b+x.b*docLen/x.avgdl)
		score += idf * numerator / denominator
	}
	return score
}

// Params returns the active (k1, b) pair.
func (x *Index) Params() (k1, b float64) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.k1, x.b
}

// SetParams replaces the ranking parameters. Scores change immediately;
// no reindexing is required since term statistics are parameter-free.
func (x *Index) SetParams(k1, b float64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.k1 = k1
	x.b = b
}

// Len returns the indexed document count.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs)
}

// Stats returns the index observability snapshot.
func (x *Index) Stats() Stats {
	x.mu.RLock()
	defer x.mu.RUnlock()

	s := Stats{
		Documents:    len(x.docs),
		Vocabulary:   len(x.docFreq),
		AvgDocLength: x.avgdl,
	}
	for i, l := range x.docLens {
		if i == 0 || l < s.MinDocLength {
			s.MinDocLength = l
		}
		if l > s.MaxDocLength {
			s.MaxDocLength = l
		}
	}
	return s
}
