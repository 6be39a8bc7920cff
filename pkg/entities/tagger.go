package entities

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ConfidenceFloor discards post-processed entities below this score.
const ConfidenceFloor = 0.5

// ErrNoBackend is returned when every cascade tier fails to initialize.
// The gazetteer tier is constructed from fixed tables, so in practice
// this indicates a build problem rather than an environment one.
var ErrNoBackend = errors.New("entities: no tagging backend available")

// Config controls tagger construction and runtime limits.
type Config struct {
	// ModelDir is an optional custom prose model directory for the full
	// statistical tier. Empty means the built-in model.
	ModelDir string

	// ChunkSize bounds per-call input to the statistical backends.
	ChunkSize int

	// TagTimeout, when positive, bounds a single backend call; on expiry
	// the text is retagged with the gazetteer tier. Zero disables it.
	TagTimeout time.Duration

	// Memory pressure settings. Zero values take the package defaults.
	SampleInterval int
	MemoryBudget   uint64
	MemoryFraction float64

	Logger *log.Logger
}

// Stats is the tagger's observability snapshot.
type Stats struct {
	ModelUsed string `json:"model_used"`
	Processed int    `json:"processed"`
	HeapBytes uint64 `json:"heap_bytes"`
	Resets    int    `json:"resets"`
}

// Tagger runs the capability cascade. Single-owner: the active backend is
// mutable shared state (chunk buffers, cache resets), so a Tagger must not
// be shared across goroutines without external synchronization.
type Tagger struct {
	backend  Backend
	fallback *gazetteerBackend
	cfg      Config
	monitor  *memoryMonitor
	logger   *log.Logger

	mu        sync.Mutex
	processed int
}

// NewTagger selects a backend once: full statistical, then lightweight
// statistical, then gazetteer. Returns ErrNoBackend only if every tier
// fails, which is a fatal configuration error for the caller.
func NewTagger(cfg Config) (*Tagger, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("component", "entities")

	type factory struct {
		name  string
		build func() (Backend, error)
	}
	factories := []factory{
		{BackendProse, func() (Backend, error) { return newProseBackend(cfg.ModelDir) }},
		{BackendProseLite, func() (Backend, error) { return newProseLiteBackend() }},
		{BackendGazetteer, func() (Backend, error) { return newGazetteerBackend() }},
	}

	var backend Backend
	for _, f := range factories {
		b, err := f.build()
		if err != nil {
			logger.Info("backend unavailable", "backend", f.name, "err", err)
			continue
		}
		backend = b
		break
	}
	if backend == nil {
		return nil, ErrNoBackend
	}
	logger.Info("backend selected", "backend", backend.Name())

	fallback, err := newGazetteerBackend()
	if err != nil {
		return nil, err
	}

	return &Tagger{
		backend:  backend,
		fallback: fallback,
		cfg:      cfg,
		monitor:  newMemoryMonitor(cfg.SampleInterval, cfg.MemoryBudget, cfg.MemoryFraction),
		logger:   logger,
	}, nil
}

// Tag extracts entities from text. It never fails: backend errors are
// logged and degrade to a partial or empty result. Long inputs are tagged
// in chunks with offsets corrected back into the full text.
func (t *Tagger) Tag(text string) []Entity {
	t.mu.Lock()
	defer t.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil
	}

	var all []Entity
	for _, c := range splitChunks(text, t.cfg.ChunkSize) {
		ents, err := t.tagChunk(c.text)
		if err != nil {
			t.logger.Warn("chunk tagging failed", "backend", t.backend.Name(), "err", err)
			continue
		}
		for _, e := range ents {
			e.Start += c.offset
			e.End += c.offset
			all = append(all, e)
		}
	}

	t.processed++
	if t.monitor.check(t.processed) {
		t.logger.Info("memory threshold exceeded, resetting backend",
			"heap", t.monitor.lastHeap, "processed", t.processed)
		t.backend.Reset()
		t.monitor.cleanup()
	}

	return postProcess(all)
}

// tagChunk runs one backend call, optionally time-boxed. On timeout the
// chunk is retagged with the always-available gazetteer tier.
func (t *Tagger) tagChunk(text string) ([]Entity, error) {
	if t.cfg.TagTimeout <= 0 {
		return t.backend.Tag(text)
	}

	type result struct {
		ents []Entity
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		ents, err := t.backend.Tag(text)
		ch <- result{ents, err}
	}()

	select {
	case r := <-ch:
		return r.ents, r.err
	case <-time.After(t.cfg.TagTimeout):
		t.logger.Warn("tagging timed out, using gazetteer tier", "timeout", t.cfg.TagTimeout)
		return t.fallback.Tag(text)
	}
}

// postProcess deduplicates by (lowercased text, type), keeping the highest
// confidence span, drops entries under the confidence floor, and orders by
// text position.
func postProcess(ents []Entity) []Entity {
	type key struct {
		text string
		typ  Type
	}
	best := make(map[key]Entity, len(ents))
	for _, e := range ents {
		if e.Confidence < ConfidenceFloor {
			continue
		}
		k := key{strings.ToLower(e.Text), e.Type}
		if prev, ok := best[k]; !ok || e.Confidence > prev.Confidence {
			best[k] = e
		}
	}

	out := make([]Entity, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// Reset clears backend caches and the processed counter.
func (t *Tagger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backend.Reset()
	t.processed = 0
}

// Stats returns the tagger's observability snapshot.
func (t *Tagger) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		ModelUsed: t.backend.Name(),
		Processed: t.processed,
		HeapBytes: t.monitor.lastHeap,
		Resets:    t.monitor.resets,
	}
}
