package search

import "strings"

// sentimentQueries are the fixed expansion lists for sentiment search.
// Expansion is purely lexical: the short label becomes a longer synthetic
// query run through the normal ranking path. Documents whose matching
// vocabulary differs from the list are missed; that is the design.
var sentimentQueries = map[string]string{
	"positive": "excellent good great perfect recommended",
	"negative": "bad terrible horrible defective disappointing",
	"neutral":  "average normal acceptable regular",
}

// QueryBySentiment expands a sentiment label into its keyword query and
// ranks normally. Unknown labels are used verbatim.
func (x *Index) QueryBySentiment(label string, topK int) []Result {
	query, ok := sentimentQueries[strings.ToLower(label)]
	if !ok {
		query = label
	}
	return x.Query(query, topK)
}

// QueryByProduct expands a product name into a review-oriented query and
// ranks normally. No structured filter is applied.
func (x *Index) QueryByProduct(name string, topK int) []Result {
	return x.Query("product "+name+" review opinion", topK)
}
