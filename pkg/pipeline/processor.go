package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/opinionkit/opinionscan/pkg/entities"
	"github.com/opinionkit/opinionscan/pkg/events"
	"github.com/opinionkit/opinionscan/pkg/patterns"
	"github.com/opinionkit/opinionscan/pkg/relations"
	"github.com/opinionkit/opinionscan/pkg/search"
)

// Config wires the processor. Zero values take defaults; Tagger is passed
// through to the entity cascade.
type Config struct {
	Tagger entities.Config

	// BM25 parameters. Zero means the package defaults.
	K1 float64
	B  float64

	// SnippetLength bounds the text slice returned in search hits.
	SnippetLength int

	// Workers sizes the pattern-extraction worker pool used by ProcessAll.
	// Pattern matching is the one stage safe to parallelize; everything
	// else stays single-threaded.
	Workers int

	Logger *log.Logger
}

const defaultSnippetLength = 160

// Hit is one ranked search result over the processed corpus.
type Hit struct {
	ID        string           `json:"id"`
	Snippet   string           `json:"snippet"`
	Score     float64          `json:"score"`
	Products  []string         `json:"products,omitempty"`
	Brands    []string         `json:"brands,omitempty"`
	Sentiment events.Sentiment `json:"sentiment"`
}

// Processor runs the extraction pipeline over raw reviews and serves
// ranked retrieval over the processed batch. Processing is synchronous
// and single-threaded; queries may run concurrently with each other and
// are serialized against rebuilds: mu guards the corpus and is held
// across a rebuild's corpus swap plus index build, and across a query's
// ranking plus hit assembly, so a result's scores and payloads always
// come from the same batch generation.
type Processor struct {
	patterns  *patterns.Extractor
	tagger    *entities.Tagger
	relations *relations.Extractor
	events    *events.Extractor
	index     *search.Index
	logger    *log.Logger

	snippetLen int
	workers    int

	mu     sync.RWMutex
	corpus []ProcessedReview
}

// New constructs the pipeline. Backend selection happens here; an error
// means no entity tier could start and is fatal to the caller.
func New(cfg Config) (*Processor, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	cfg.Tagger.Logger = logger.With("component", "entities")

	tagger, err := entities.NewTagger(cfg.Tagger)
	if err != nil {
		return nil, fmt.Errorf("pipeline: starting entity tagger: %w", err)
	}

	index := search.NewIndex()
	if cfg.K1 > 0 || cfg.B > 0 {
		k1, b := index.Params()
		if cfg.K1 > 0 {
			k1 = cfg.K1
		}
		if cfg.B > 0 {
			b = cfg.B
		}
		index.SetParams(k1, b)
	}

	snippetLen := cfg.SnippetLength
	if snippetLen <= 0 {
		snippetLen = defaultSnippetLength
	}

	return &Processor{
		patterns:   patterns.New(),
		tagger:     tagger,
		relations:  relations.New(),
		events:     events.New(),
		index:      index,
		logger:     logger.With("component", "pipeline"),
		snippetLen: snippetLen,
		workers:    cfg.Workers,
	}, nil
}

// Process runs every extractor over one review. A panic from a backend is
// contained to the row: the review comes back with empty extractions
// rather than aborting the batch.
func (p *Processor) Process(review RawReview) ProcessedReview {
	text := patterns.CleanText(review.Text)
	return p.process(review, text, p.patterns.ExtractAll(text))
}

func (p *Processor) process(review RawReview, text string, pat patterns.Result) (out ProcessedReview) {
	out = ProcessedReview{
		Review:      review,
		Entities:    map[entities.Type][]string{},
		Sentiment:   events.SentimentNeutral,
		ProcessedAt: time.Now().UTC(),
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("row extraction failed, keeping empty result",
				"review", review.ID, "panic", r)
		}
	}()

	out.Patterns = pat
	ents := p.tagger.Tag(text)
	out.Entities = entities.GroupByType(ents)
	out.Products = productUnion(text, ents, out.Patterns.Models)
	out.Brands = entities.ExtractBrands(text, ents)
	out.Relations = p.relations.Extract(text, ents, out.Products)
	out.Events = p.events.Extract(text, ents, out.Products)
	out.Sentiment = events.ScoreSentiment(text)
	return out
}

// productUnion merges mention detection with explicit model-code matches.
func productUnion(text string, ents []entities.Entity, models []patterns.Match) []string {
	mentions := entities.ExtractProductMentions(text, ents)
	for _, m := range models {
		mentions = append(mentions, m.Value)
	}
	return dedupeFold(mentions)
}

func dedupeFold(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, s := range items {
		key := foldKey(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func foldKey(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == ' ' || c == '\t' {
			continue
		}
		b = append(b, c)
	}
	return string(b)
}

// ProcessAll drives a batch one review at a time, then rebuilds the index
// wholesale over the full batch. Pattern extraction runs up front on the
// worker pool; the remaining stages share the single tagger and stay
// sequential.
func (p *Processor) ProcessAll(reviews []RawReview) []ProcessedReview {
	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = patterns.CleanText(r.Text)
	}
	patternResults := p.patterns.ExtractBatch(texts, p.workers)

	corpus := make([]ProcessedReview, 0, len(reviews))
	for i, r := range reviews {
		corpus = append(corpus, p.process(r, texts[i], patternResults[i]))
	}

	p.mu.Lock()
	p.corpus = corpus
	p.rebuildIndex()
	p.mu.Unlock()

	stats := p.tagger.Stats()
	p.logger.Info("batch processed",
		"reviews", len(corpus), "backend", stats.ModelUsed,
		"indexed", p.index.Len())
	return corpus
}

// rebuildIndex is called with mu held for writing.
func (p *Processor) rebuildIndex() {
	docs := make([]search.Document, len(p.corpus))
	for i, rev := range p.corpus {
		docs[i] = search.Document{ID: rev.Review.ID, Text: rev.CompositeText()}
	}
	p.index.Build(docs)
}

// Corpus returns the last processed batch.
func (p *Processor) Corpus() []ProcessedReview {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.corpus
}

// Search ranks the processed corpus against a free-text query.
func (p *Processor) Search(query string, topK int) []Hit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hits(p.index.Query(query, topK))
}

// SearchBySentiment expands a sentiment label lexically and ranks.
func (p *Processor) SearchBySentiment(label string, topK int) []Hit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hits(p.index.QueryBySentiment(label, topK))
}

// SearchByProduct expands a product name lexically and ranks.
func (p *Processor) SearchByProduct(name string, topK int) []Hit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hits(p.index.QueryByProduct(name, topK))
}

// hits is called with mu held at least for reading.
func (p *Processor) hits(results []search.Result) []Hit {
	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		if res.Index < 0 || res.Index >= len(p.corpus) {
			continue
		}
		rev := p.corpus[res.Index]
		hits = append(hits, Hit{
			ID:        rev.Review.ID,
			Snippet:   rev.Snippet(p.snippetLen),
			Score:     res.Score,
			Products:  rev.Products,
			Brands:    rev.Brands,
			Sentiment: rev.Sentiment,
		})
	}
	return hits
}

// EventsByType filters the processed corpus's events.
func (p *Processor) EventsByType(typ events.EventType) []events.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []events.Event
	for _, rev := range p.corpus {
		out = append(out, events.FilterByType(rev.Events, typ)...)
	}
	return out
}

// Tune grid-searches BM25 parameters against labeled relevance data and
// adopts the winner. It mutates ranking parameters, so it takes the
// writer side of the lock.
func (p *Processor) Tune(queries []string, relevant [][]int) (k1, b float64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index.Tune(queries, relevant)
}

// TaggerStats exposes the entity cascade snapshot.
func (p *Processor) TaggerStats() entities.Stats {
	return p.tagger.Stats()
}

// IndexStats exposes the retrieval corpus snapshot.
func (p *Processor) IndexStats() search.Stats {
	return p.index.Stats()
}
