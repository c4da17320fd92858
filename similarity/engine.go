package similarity

import (
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/cardex/core"
	"github.com/poiesic/cardex/index"
)

// Options selects the metrics and blending for one similarity computation.
type Options struct {
	TagMetric  SetMetric
	TextMetric TextMetric

	// IncludeTags / IncludeText gate the two halves of the combined
	// score. With both set, Alpha blends them; with one, that half is
	// returned alone; with neither, the score is 0.
	IncludeTags bool
	IncludeText bool
	Alpha       float64 // weight of the tag half in [0,1]

	WeightTags    bool    // weight set-cosine vectors by tag idf
	IDFMultiplier float64 // rarity boost for the overlap metric

	// N-gram range for the n-gram based text metrics, 1..4.
	NGramMin int
	NGramMax int
}

// DefaultOptions returns the default metric selection: idf-weighted tag
// cosine blended evenly with unigram+bigram TF cosine.
func DefaultOptions() Options {
	return Options{
		TagMetric:     SetMetricCosine,
		TextMetric:    TextMetricCosineTF,
		IncludeTags:   true,
		IncludeText:   true,
		Alpha:         0.5,
		WeightTags:    true,
		IDFMultiplier: 2,
		NGramMin:      1,
		NGramMax:      2,
	}
}

// Scored pairs a document with its similarity score against a reference.
type Scored struct {
	Document *core.Document
	Score    float64
}

// RankOptions extends Options with the candidate-ranking knobs.
type RankOptions struct {
	Options

	// MinSharedTags prefilters candidates to those sharing at least
	// this many tags with the reference. Skipped entirely when tag
	// similarity is disabled.
	MinSharedTags int

	// Limit truncates the ranked result; 0 means unlimited.
	Limit int
}

// Engine computes pairwise document similarity. It holds the corpus tag
// index for IDF lookups and a lazy provider for the BM25 text index.
type Engine struct {
	tagIndex  *index.TagIndex
	textIndex func() *index.TextIndex
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size used for candidate scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// NewEngine creates a similarity engine over a built tag index.
// textIndex is called lazily the first time a BM25 metric is evaluated;
// it may be nil if BM25 metrics are never selected.
func NewEngine(tagIndex *index.TagIndex, textIndex func() *index.TextIndex, opts ...Option) (*Engine, error) {
	if tagIndex == nil {
		return nil, ErrTagIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		tagIndex:  tagIndex,
		textIndex: textIndex,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}

	return e, nil
}

// Release releases the scoring pool. The engine should not be used after
// calling Release.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// TagSimilarity scores two documents under the selected tag-set metric.
func (e *Engine) TagSimilarity(a, b *core.Document, opts Options) float64 {
	metric := opts.TagMetric
	if metric == "" {
		metric = SetMetricCosine
	}
	fn, ok := setMetrics[metric]
	if !ok {
		e.logger.Warn("unknown tag metric, using cosine", "metric", metric)
		fn = setMetrics[SetMetricCosine]
	}

	multiplier := opts.IDFMultiplier
	if multiplier == 0 {
		multiplier = 1
	}

	return fn(a, b, tagWeighting{
		idf:           e.tagIndex.IDFOf,
		weighted:      opts.WeightTags,
		idfMultiplier: multiplier,
	})
}

// TextSimilarity scores two documents under the selected text metric.
func (e *Engine) TextSimilarity(a, b *core.Document, opts Options) float64 {
	metric := opts.TextMetric
	if metric == "" {
		metric = TextMetricCosineTF
	}
	fn, ok := textMetrics[metric]
	if !ok {
		e.logger.Warn("unknown text metric, using cosine-tf", "metric", metric)
		fn = textMetrics[TextMetricCosineTF]
	}

	ctx := textContext{nMin: opts.NGramMin, nMax: opts.NGramMax}
	if metric == TextMetricBM25Cosine && e.textIndex != nil {
		ctx.textIndex = e.textIndex()
	}

	return fn(a, b, ctx)
}

// Combined blends the tag and text similarities:
// alpha*tag + (1-alpha)*text when both halves are enabled, the enabled
// half alone otherwise, 0 when neither is.
func (e *Engine) Combined(a, b *core.Document, opts Options) float64 {
	switch {
	case opts.IncludeTags && opts.IncludeText:
		return opts.Alpha*e.TagSimilarity(a, b, opts) + (1-opts.Alpha)*e.TextSimilarity(a, b, opts)
	case opts.IncludeTags:
		return e.TagSimilarity(a, b, opts)
	case opts.IncludeText:
		return e.TextSimilarity(a, b, opts)
	}
	return 0
}

// Rank scores every candidate against the reference document and returns
// them ordered by descending score with a name-alphabetical tie-break.
// The reference itself is excluded. Candidates are optionally prefiltered
// by shared-tag count before scoring; scoring runs on the worker pool but
// the result order is deterministic.
func (e *Engine) Rank(ref *core.Document, candidates []*core.Document, opts RankOptions) []Scored {
	surviving := make([]*core.Document, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == ref.ID {
			continue
		}
		if opts.IncludeTags && opts.MinSharedTags > 0 &&
			intersectionCount(ref, candidate) < opts.MinSharedTags {
			continue
		}
		surviving = append(surviving, candidate)
	}

	// BM25 needs the text index; resolve it once up front rather than
	// racing the lazy build across workers.
	if opts.TextMetric == TextMetricBM25Cosine && opts.IncludeText && e.textIndex != nil {
		e.textIndex()
	}

	results := make([]Scored, len(surviving))
	var wg sync.WaitGroup
	for i, candidate := range surviving {
		i, candidate := i, candidate
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = Scored{
				Document: candidate,
				Score:    e.Combined(ref, candidate, opts.Options),
			}
		}
		if err := e.pool.Submit(task); err != nil {
			// pool released or overloaded: score inline
			task()
		}
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.Name < results[j].Document.Name
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results
}
