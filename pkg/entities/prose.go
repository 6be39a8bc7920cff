package entities

import (
	"fmt"
	"os"
	"strings"

	"github.com/jdkato/prose/v2"
)

// proseBackend wraps the prose statistical tagger. The full tier runs the
// whole pipeline (segmentation, tagging, entity extraction) with an
// optional custom model loaded from disk; the lightweight tier keeps the
// built-in model and disables segmentation to bound memory.
type proseBackend struct {
	name       string
	opts       []prose.DocOpt
	confidence float64
	// lexical is the deterministic scanner merged under the statistical
	// output. prose's built-in model only labels PERSON and GPE; money,
	// dates, codes and brands still come from the lexicon tier.
	lexical *gazetteerBackend
}

func newProseBackend(modelDir string) (b *proseBackend, err error) {
	// Model loading panics on malformed or missing model files; surface
	// that as tier unavailability so the cascade can degrade.
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("prose model load: %v", r)
		}
	}()

	var opts []prose.DocOpt
	if modelDir != "" {
		if _, statErr := os.Stat(modelDir); statErr != nil {
			return nil, fmt.Errorf("prose model dir: %w", statErr)
		}
		opts = append(opts, prose.UsingModel(prose.ModelFromDisk(modelDir)))
	}

	lexical, err := newGazetteerBackend()
	if err != nil {
		return nil, err
	}
	b = &proseBackend{
		name:       BackendProse,
		opts:       opts,
		confidence: 0.9,
		lexical:    lexical,
	}
	if err := b.probe(); err != nil {
		return nil, err
	}
	return b, nil
}

func newProseLiteBackend() (*proseBackend, error) {
	lexical, err := newGazetteerBackend()
	if err != nil {
		return nil, err
	}
	b := &proseBackend{
		name:       BackendProseLite,
		opts:       []prose.DocOpt{prose.WithSegmentation(false)},
		confidence: 0.75,
		lexical:    lexical,
	}
	if err := b.probe(); err != nil {
		return nil, err
	}
	return b, nil
}

// probe runs a tiny document through the pipeline so an unusable backend
// fails at construction, not on the first review.
func (b *proseBackend) probe() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prose probe: %v", r)
		}
	}()
	_, err = prose.NewDocument("Alice bought a phone in Boston.", b.opts...)
	return err
}

func (b *proseBackend) Name() string { return b.name }

func (b *proseBackend) Reset() {}

func (b *proseBackend) Tag(text string) (ents []Entity, err error) {
	defer func() {
		if r := recover(); r != nil {
			ents, err = nil, fmt.Errorf("prose tag: %v", r)
		}
	}()

	doc, err := prose.NewDocument(text, b.opts...)
	if err != nil {
		return nil, err
	}

	// prose entities carry no offsets; anchor each mention by scanning
	// forward from the previous hit so repeated mentions land on
	// successive occurrences.
	cursor := 0
	for _, ent := range doc.Entities() {
		idx := strings.Index(text[cursor:], ent.Text)
		if idx < 0 {
			idx = strings.Index(text, ent.Text)
			if idx < 0 {
				continue
			}
			cursor = 0
		}
		start := cursor + idx
		end := start + len(ent.Text)
		cursor = end

		ents = append(ents, Entity{
			Text:       ent.Text,
			Type:       TypeForLabel(ent.Label),
			Start:      start,
			End:        end,
			Confidence: b.confidence,
			Method:     b.name,
		})
	}

	// Merge the deterministic scan for types the statistical model does
	// not cover, skipping spans the model already claimed.
	lexEnts, err := b.lexical.Tag(text)
	if err != nil {
		return ents, nil
	}
	claimed := make([]Span, 0, len(ents))
	for _, e := range ents {
		claimed = append(claimed, Span{e.Start, e.End})
	}
	for _, e := range lexEnts {
		if overlapsAny(claimed, e.Start, e.End) {
			continue
		}
		ents = append(ents, e)
	}
	return ents, nil
}
