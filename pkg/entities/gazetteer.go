package entities

import (
	"regexp"

	"github.com/coregx/ahocorasick"
)

// Backend names surfaced in Stats.ModelUsed.
const (
	BackendProse     = "prose"
	BackendProseLite = "prose-lite"
	BackendGazetteer = "gazetteer"
)

// Backend is one tier of the tagging cascade. Tag may fail on a single
// input; the cascade isolates that to the chunk. Reset drops any cached
// state in response to memory pressure.
type Backend interface {
	Name() string
	Tag(text string) ([]Entity, error)
	Reset()
}

var (
	moneyRe   = regexp.MustCompile(`[$£€]\s?\d[\d,]*(?:\.\d{2})?|\b\d[\d,]*(?:\.\d{2})?\s(?:dollars?|euros?|pounds?)\b`)
	dateRe    = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b|\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s\d{1,2}(?:,\s?\d{4})?\b`)
	timeRe    = regexp.MustCompile(`\b\d{1,2}:\d{2}(?:\s?[ap]m)?\b`)
	percentRe = regexp.MustCompile(`\b\d+(?:\.\d+)?%`)
	numberRe  = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	codeRe    = regexp.MustCompile(`\b[A-Z]{2,}[-]?\d+[A-Z0-9]*\b`)
	personRe  = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Prof)\.?\s[A-Z][a-z]+(?:\s[A-Z][a-z]+)?\b`)
)

// gazetteerBackend is the regex/gazetteer fallback tier. Bounded accuracy,
// always available: construction cannot fail once the automatons compile,
// and compilation inputs are fixed at build time.
type gazetteerBackend struct {
	brandAC    *ahocorasick.Automaton
	brandPats  []string
	placeAC    *ahocorasick.Automaton
	placePats  []string
	confidence float64
}

func newGazetteerBackend() (*gazetteerBackend, error) {
	brandAC, brandPats, err := buildAutomaton(knownBrands)
	if err != nil {
		return nil, err
	}
	placeAC, placePats, err := buildAutomaton(knownPlaces)
	if err != nil {
		return nil, err
	}
	return &gazetteerBackend{
		brandAC:    brandAC,
		brandPats:  brandPats,
		placeAC:    placeAC,
		placePats:  placePats,
		confidence: 0.6,
	}, nil
}

func (g *gazetteerBackend) Name() string { return BackendGazetteer }

func (g *gazetteerBackend) Reset() {}

func (g *gazetteerBackend) Tag(text string) ([]Entity, error) {
	var ents []Entity

	add := func(start, end int, typ Type, conf float64) {
		ents = append(ents, Entity{
			Text:       text[start:end],
			Type:       typ,
			Start:      start,
			End:        end,
			Confidence: conf,
			Method:     BackendGazetteer,
		})
	}

	for _, m := range scanLexicon(g.brandAC, g.brandPats, text) {
		add(m.Start, m.End, TypeOrganization, 0.85)
	}
	for _, m := range scanLexicon(g.placeAC, g.placePats, text) {
		add(m.Start, m.End, TypeLocation, 0.7)
	}

	// Regex groups in priority order: spans claimed by an earlier group
	// are skipped by later ones (a money hit should not re-emit its
	// digits as a Number).
	claimed := make([]Span, 0, 8)
	for _, e := range ents {
		claimed = append(claimed, Span{e.Start, e.End})
	}
	group := func(re *regexp.Regexp, typ Type, conf float64) {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if overlapsAny(claimed, loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, Span{loc[0], loc[1]})
			add(loc[0], loc[1], typ, conf)
		}
	}
	group(personRe, TypePerson, 0.75)
	group(moneyRe, TypeMoney, 0.9)
	group(dateRe, TypeDate, 0.85)
	group(timeRe, TypeTime, 0.8)
	group(percentRe, TypePercentage, 0.9)
	group(codeRe, TypeProduct, 0.7)
	group(numberRe, TypeNumber, 0.6)

	return ents, nil
}

// Span mirrors patterns.Span locally to avoid a dependency for two ints.
type Span struct {
	Start, End int
}

func overlapsAny(spans []Span, start, end int) bool {
	for _, s := range spans {
		if start < s.End && end > s.Start {
			return true
		}
	}
	return false
}
