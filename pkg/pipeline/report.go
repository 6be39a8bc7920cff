package pipeline

import (
	"sort"

	"github.com/opinionkit/opinionscan/pkg/entities"
	"github.com/opinionkit/opinionscan/pkg/search"
)

// CountEntry is a ranked name with its occurrence count.
type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report is the batch-level analysis summary. Plain data, JSON-ready.
type Report struct {
	TotalReviews   int `json:"total_reviews"`
	TotalEntities  int `json:"total_entities"`
	TotalRelations int `json:"total_relations"`
	TotalEvents    int `json:"total_events"`

	TopProducts []CountEntry `json:"top_products"`
	TopBrands   []CountEntry `json:"top_brands"`

	EventTypes      map[string]int `json:"event_types"`
	EventSentiments map[string]int `json:"event_sentiments"`

	Tagger entities.Stats `json:"tagger"`
	Index  search.Stats   `json:"index"`
}

const reportTopN = 10

// GenerateReport summarizes the last processed batch.
func (p *Processor) GenerateReport() Report {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rep := Report{
		TotalReviews:    len(p.corpus),
		EventTypes:      map[string]int{},
		EventSentiments: map[string]int{},
		Tagger:          p.tagger.Stats(),
		Index:           p.index.Stats(),
	}

	productCounts := map[string]int{}
	brandCounts := map[string]int{}
	for _, rev := range p.corpus {
		for _, bucket := range rev.Entities {
			rep.TotalEntities += len(bucket)
		}
		rep.TotalRelations += len(rev.Relations)
		rep.TotalEvents += len(rev.Events)
		for _, ev := range rev.Events {
			rep.EventTypes[string(ev.Type)]++
			rep.EventSentiments[string(ev.Sentiment)]++
		}
		for _, prod := range rev.Products {
			productCounts[prod]++
		}
		for _, brand := range rev.Brands {
			brandCounts[brand]++
		}
	}

	rep.TopProducts = topCounts(productCounts, reportTopN)
	rep.TopBrands = topCounts(brandCounts, reportTopN)
	return rep
}

// topCounts ranks by count descending, name ascending on ties, so the
// report is stable across runs.
func topCounts(counts map[string]int, n int) []CountEntry {
	entries := make([]CountEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, CountEntry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
