// Package patterns provides deterministic regex extraction of prices,
// dates, model codes, ratings, and auxiliary marketplace fields from
// review text. Extraction is pure: a fixed table of precompiled patterns,
// no side effects, no failure modes beyond zero matches.
package patterns

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Span is a byte-offset range in the original text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Match is a single pattern hit. Derived carries a normalized form where
// one applies (numeric rating, date bucket, confidence for model codes).
type Match struct {
	Value   string `json:"value"`
	Span    Span   `json:"span"`
	Derived string `json:"derived,omitempty"`
}

// Result groups every pattern hit for one text.
type Result struct {
	Prices    []Match `json:"prices"`
	Dates     []Match `json:"dates"`
	Models    []Match `json:"models"`
	Ratings   []Match `json:"ratings"`
	Auxiliary []Match `json:"auxiliary"`
}

// Empty reports whether no pattern matched.
func (r Result) Empty() bool {
	return len(r.Prices) == 0 && len(r.Dates) == 0 && len(r.Models) == 0 &&
		len(r.Ratings) == 0 && len(r.Auxiliary) == 0
}

var (
	pricePattern = regexp.MustCompile(`(?i)[$£€]\s?(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?|\b(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?\s?(?:dollars?|usd|pounds?|euros?)\b`)
	datePattern  = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`)
	modelPattern = regexp.MustCompile(`\b[A-Z]{2,}[-]?\d+[A-Z0-9]*\b|\b[A-Z][a-z]+\s?[Mm]odel\s?\w+\b`)

	ratingStars   = regexp.MustCompile(`(?i)\b([1-5])\s*stars?\b`)
	ratingOutOf   = regexp.MustCompile(`\b(\d+(?:\.\d+)?)/(\d+)\b`)
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern  = regexp.MustCompile(`\b(?:\+1\s*)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	yearFirstDate = regexp.MustCompile(`^\d{4}[/-]`)
)

// productFamilies are tokens that boost a model-code match: the match is
// much more likely a real product code when one of these appears nearby
// or inside the match.
var productFamilies = []string{
	"iphone", "galaxy", "pixel", "macbook", "thinkpad", "xps",
	"playstation", "xbox", "kindle", "surface", "ipad", "airpods",
}

// digitRun matches an alphanumeric code shape (letters then digits).
var digitRun = regexp.MustCompile(`[A-Z]{2,}\d`)

// Extractor applies the fixed pattern table. Safe for concurrent use on
// distinct inputs; the memo cache is guarded.
type Extractor struct {
	mu   sync.Mutex
	memo map[string]Result
}

// New creates an Extractor with an empty memo cache.
func New() *Extractor {
	return &Extractor{memo: make(map[string]Result)}
}

// ExtractAll runs every pattern group against text. Results for repeated
// inputs are served from the memo cache.
func (x *Extractor) ExtractAll(text string) Result {
	x.mu.Lock()
	if cached, ok := x.memo[text]; ok {
		x.mu.Unlock()
		return cached
	}
	x.mu.Unlock()

	res := Result{
		Prices:    findMatches(pricePattern, text, nil),
		Dates:     findMatches(datePattern, text, deriveDateBucket),
		Models:    findMatches(modelPattern, text, deriveModelConfidence),
		Ratings:   extractRatings(text),
		Auxiliary: extractAuxiliary(text),
	}

	x.mu.Lock()
	x.memo[text] = res
	x.mu.Unlock()
	return res
}

// ExtractPrices returns price mentions only.
func (x *Extractor) ExtractPrices(text string) []Match {
	return findMatches(pricePattern, text, nil)
}

// ExtractModels returns model-code mentions only.
func (x *Extractor) ExtractModels(text string) []Match {
	return findMatches(modelPattern, text, deriveModelConfidence)
}

func findMatches(re *regexp.Regexp, text string, derive func(string) string) []Match {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		value := text[loc[0]:loc[1]]
		m := Match{Value: value, Span: Span{Start: loc[0], End: loc[1]}}
		if derive != nil {
			m.Derived = derive(value)
		}
		out = append(out, m)
	}
	return out
}

func extractRatings(text string) []Match {
	var out []Match

	for _, loc := range ratingStars.FindAllStringSubmatchIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		stars := text[loc[2]:loc[3]]
		out = append(out, Match{
			Value:   value,
			Span:    Span{Start: loc[0], End: loc[1]},
			Derived: stars,
		})
	}

	for _, loc := range ratingOutOf.FindAllStringSubmatchIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		num, errN := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		den, errD := strconv.ParseFloat(text[loc[4]:loc[5]], 64)
		m := Match{Value: value, Span: Span{Start: loc[0], End: loc[1]}}
		// Normalize to a 5-point scale when the fraction is sane.
		if errN == nil && errD == nil && den > 0 && num <= den {
			m.Derived = strconv.FormatFloat(num/den*5, 'f', 1, 64)
		}
		out = append(out, m)
	}
	return out
}

func extractAuxiliary(text string) []Match {
	var out []Match
	for _, m := range findMatches(emailPattern, text, nil) {
		m.Derived = "email"
		out = append(out, m)
	}
	for _, m := range findMatches(phonePattern, text, nil) {
		m.Derived = "phone"
		out = append(out, m)
	}
	return out
}

// deriveDateBucket normalizes a date hit to its ordering shape: dates are
// bucketed by whether the year leads or trails.
func deriveDateBucket(value string) string {
	if yearFirstDate.MatchString(value) {
		return "ymd"
	}
	return "dmy"
}

// deriveModelConfidence scores how code-like a model match is. Known
// product-family tokens and alphanumeric code shapes both boost it.
func deriveModelConfidence(value string) string {
	conf := 0.5
	lower := strings.ToLower(value)
	for _, fam := range productFamilies {
		if strings.Contains(lower, fam) {
			conf += 0.3
			break
		}
	}
	if digitRun.MatchString(value) {
		conf += 0.2
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return strconv.FormatFloat(conf, 'f', 2, 64)
}
