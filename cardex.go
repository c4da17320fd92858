// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package cardex is an in-memory search and ranking engine over tagged
// card documents. An Engine ingests one payload, builds its indexes, and
// then serves boolean tag filters, free-text search, pairwise similarity,
// and probable-tag augmentation.
package cardex

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/poiesic/cardex/augment"
	"github.com/poiesic/cardex/core"
	"github.com/poiesic/cardex/index"
	"github.com/poiesic/cardex/ingest"
	"github.com/poiesic/cardex/search"
	"github.com/poiesic/cardex/similarity"
	"github.com/poiesic/cardex/tagexpr"
)

const defaultBatchSize = 200

// ReadyFunc is fired once when the corpus has been built and indexed.
type ReadyFunc func(corpus *ingest.Corpus)

// SelectionFunc is fired when a document is selected for detail display.
// The id is consumed externally; the engine attaches no meaning to it.
type SelectionFunc func(documentID string)

// Engine is the query façade over one ingested corpus.
//
// All corpus structures are built during Ingest and treated as read-only
// by the query layer. The one mutation path, Augment, is an exclusive
// phase guarded by a busy flag: queries issued while it runs fail with
// ErrBusy rather than observing partial state.
type Engine struct {
	id     string
	logger *slog.Logger

	batchSize int
	poolSize  int
	progress  augment.ProgressFunc
	readyHook ReadyFunc
	selection SelectionFunc

	mu       sync.Mutex
	ingested bool
	ready    bool
	busy     bool

	corpus     *ingest.Corpus
	tagIndex   *index.TagIndex
	tokenIndex *index.TokenIndex

	textOnce  sync.Once
	textIndex *index.TextIndex

	searcher *search.Searcher
	sim      *similarity.Engine
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithBatchSize sets the number of documents processed between yield
// points during corpus build and augmentation.
func WithBatchSize(size int) EngineOption {
	return func(e *Engine) error {
		if size > 0 {
			e.batchSize = size
		}
		return nil
	}
}

// WithProgress sets a callback receiving progress updates during corpus
// build and augmentation.
func WithProgress(fn augment.ProgressFunc) EngineOption {
	return func(e *Engine) error {
		e.progress = fn
		return nil
	}
}

// WithReadyHook sets a callback fired once when the corpus is built.
func WithReadyHook(fn ReadyFunc) EngineOption {
	return func(e *Engine) error {
		e.readyHook = fn
		return nil
	}
}

// WithSelectionHook sets a callback fired by SelectDocument.
func WithSelectionHook(fn SelectionFunc) EngineOption {
	return func(e *Engine) error {
		e.selection = fn
		return nil
	}
}

// WithPoolSize sets the similarity scoring pool size.
func WithPoolSize(size int) EngineOption {
	return func(e *Engine) error {
		if size > 0 {
			e.poolSize = size
		}
		return nil
	}
}

// New creates an engine awaiting its payload.
func New(opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		id:        uuid.NewString(),
		logger:    slog.Default(),
		batchSize: defaultBatchSize,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// ID returns the engine instance id.
func (e *Engine) ID() string {
	return e.id
}

// Ready reports whether a corpus has been ingested and indexed.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

func (e *Engine) checkReady() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return ErrNotReady
	}
	if e.busy {
		return ErrBusy
	}
	return nil
}

// Ingest accepts the engine's one payload, normalizes it, and builds the
// tag and token indexes. A second delivery after a successful build is
// logged and ignored; a failed build does not consume the delivery.
//
// Schema-level payload failures abort the build. Per-record decode and
// validation failures skip only the offending records and are returned
// for diagnostics.
func (e *Engine) Ingest(ctx context.Context, raw any) ([]error, error) {
	e.mu.Lock()
	if e.ingested {
		e.mu.Unlock()
		e.logger.Warn("duplicate payload delivery ignored", "engine", e.id)
		return nil, nil
	}
	e.ingested = true
	e.mu.Unlock()

	recordErrs, err := e.build(ctx, raw)
	if err != nil {
		e.mu.Lock()
		e.ingested = false
		e.mu.Unlock()
		return recordErrs, err
	}

	return recordErrs, nil
}

func (e *Engine) build(ctx context.Context, raw any) ([]error, error) {
	payload, decodeErrs, err := ingest.DecodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("payload rejected: %w", err)
	}

	normalizer, err := ingest.NewNormalizer(ingest.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	corpus, normErrs, err := normalizer.Normalize(payload)
	if err != nil {
		return nil, err
	}

	recordErrs := append(decodeErrs, normErrs...)

	tracker := augment.NewProgressTracker(e.progress, len(corpus.Documents), e.batchSize)
	tracker.Start()

	tagBuilder := index.NewTagIndexBuilder()
	tokenBuilder := index.NewTokenIndexBuilder()

	iterator := augment.NewDocumentIterator(corpus.Documents, e.batchSize)
	err = iterator.ForEach(ctx, func(batch []*core.Document) error {
		tagBuilder.Add(batch...)
		tokenBuilder.Add(batch...)
		tracker.Increment(len(batch))
		return nil
	})
	if err != nil {
		return recordErrs, err
	}

	tagIdx := tagBuilder.Build()
	tagIdx.Annotate(corpus.Documents...)
	tokenIdx := tokenBuilder.Build()

	searcher, err := search.NewSearcher(corpus, tokenIdx, search.WithLogger(e.logger))
	if err != nil {
		return recordErrs, err
	}

	sim, err := e.newSimilarityEngine(tagIdx)
	if err != nil {
		return recordErrs, err
	}

	e.mu.Lock()
	e.corpus = corpus
	e.tagIndex = tagIdx
	e.tokenIndex = tokenIdx
	e.searcher = searcher
	e.sim = sim
	e.ready = true
	e.mu.Unlock()

	tracker.Finish()
	e.logger.Info("corpus ready",
		"engine", e.id,
		"documents", len(corpus.Documents),
		"tags", len(corpus.TagUniverse),
		"skipped", len(recordErrs))

	if e.readyHook != nil {
		e.readyHook(corpus)
	}

	return recordErrs, nil
}

func (e *Engine) newSimilarityEngine(tagIdx *index.TagIndex) (*similarity.Engine, error) {
	opts := []similarity.Option{similarity.WithLogger(e.logger)}
	if e.poolSize > 0 {
		opts = append(opts, similarity.WithPoolSize(e.poolSize))
	}
	return similarity.NewEngine(tagIdx, e.EnsureTextIndex, opts...)
}

// EnsureTextIndex builds the BM25 text index on first call and returns
// it. Subsequent calls return the cached index. Returns nil before the
// corpus is ready.
func (e *Engine) EnsureTextIndex() *index.TextIndex {
	if !e.Ready() {
		return nil
	}
	e.textOnce.Do(func() {
		e.textIndex = index.BuildTextIndex(e.corpus.Documents)
		e.logger.Debug("text index built", "engine", e.id)
	})
	return e.textIndex
}

// FilterOptions bounds a boolean filter with numeric range conditions.
// A zero TagCountMax means unbounded.
type FilterOptions struct {
	TagCountMin int
	TagCountMax int
	RarityMin   float64
}

// Filter returns the documents matching the boolean tag expression and
// the numeric range conditions, in corpus order. A malformed or empty
// expression degrades to match-all.
func (e *Engine) Filter(expr string, opts FilterOptions) ([]*core.Document, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}

	parsed := tagexpr.Parse(expr)

	matched := make([]*core.Document, 0)
	for _, doc := range e.corpus.Documents {
		if !parsed.Matches(doc) {
			continue
		}
		if doc.TagCount < opts.TagCountMin {
			continue
		}
		if opts.TagCountMax > 0 && doc.TagCount > opts.TagCountMax {
			continue
		}
		if doc.RaritySum < opts.RarityMin {
			continue
		}
		matched = append(matched, doc)
	}

	return matched, nil
}

// SearchTokens returns the ids of documents whose name or creator name
// contains every token of the query.
func (e *Engine) SearchTokens(query string) (map[string]struct{}, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	return e.searcher.SearchIDs(query), nil
}

// Search ranks documents against a free-text query.
func (e *Engine) Search(query string) ([]*search.Result, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	return e.searcher.Search(query), nil
}

// DocumentByID returns the document with the given id.
func (e *Engine) DocumentByID(id string) (*core.Document, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	doc, ok := e.corpus.ByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	return doc, nil
}

// Documents returns the corpus documents in ingestion order.
func (e *Engine) Documents() ([]*core.Document, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	return e.corpus.Documents, nil
}

// TagUniverse returns the sorted set of every known tag.
func (e *Engine) TagUniverse() ([]string, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	return e.corpus.TagUniverse, nil
}

func (e *Engine) documentPair(idA, idB string) (*core.Document, *core.Document, error) {
	a, err := e.DocumentByID(idA)
	if err != nil {
		return nil, nil, err
	}
	b, err := e.DocumentByID(idB)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// TagSimilarity scores two documents under a tag-set metric.
func (e *Engine) TagSimilarity(idA, idB string, opts similarity.Options) (float64, error) {
	a, b, err := e.documentPair(idA, idB)
	if err != nil {
		return 0, err
	}
	return e.sim.TagSimilarity(a, b, opts), nil
}

// TextSimilarityByID scores two documents under a text metric.
func (e *Engine) TextSimilarityByID(idA, idB string, opts similarity.Options) (float64, error) {
	a, b, err := e.documentPair(idA, idB)
	if err != nil {
		return 0, err
	}
	return e.sim.TextSimilarity(a, b, opts), nil
}

// CombinedSimilarity blends the tag and text similarity of two documents.
func (e *Engine) CombinedSimilarity(idA, idB string, opts similarity.Options) (float64, error) {
	a, b, err := e.documentPair(idA, idB)
	if err != nil {
		return 0, err
	}
	return e.sim.Combined(a, b, opts), nil
}

// RankSimilar ranks every other corpus document by combined similarity
// to the reference document.
func (e *Engine) RankSimilar(id string, opts similarity.RankOptions) ([]similarity.Scored, error) {
	ref, err := e.DocumentByID(id)
	if err != nil {
		return nil, err
	}
	return e.sim.Rank(ref, e.corpus.Documents, opts), nil
}

// Augment runs the probable-tag enrichment pass over the corpus. While
// it runs the engine is busy and queries fail with ErrBusy. On
// completion the tag index and similarity engine are rebuilt, since
// inferred tags change postings and document frequencies; per-document
// tag counts and rarity sums keep the pre-pass IDF weights.
func (e *Engine) Augment(ctx context.Context, config *augment.Config) (*augment.Report, error) {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return nil, ErrNotReady
	}
	if e.busy {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.busy = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}()

	augmenter, err := augment.NewAugmenter(config,
		augment.WithLogger(e.logger),
		augment.WithProgress(e.progress))
	if err != nil {
		return nil, err
	}

	report, err := augmenter.Run(ctx, e.corpus.Documents, e.tagIndex)
	if err != nil {
		return nil, err
	}

	if report.TagsAdded > 0 {
		builder := index.NewTagIndexBuilder()
		builder.Add(e.corpus.Documents...)
		tagIdx := builder.Build()

		sim, err := e.newSimilarityEngine(tagIdx)
		if err != nil {
			return nil, err
		}

		e.sim.Release()
		e.mu.Lock()
		e.tagIndex = tagIdx
		e.sim = sim
		e.mu.Unlock()
	}

	return report, nil
}

// SelectDocument fires the selection hook for a document.
func (e *Engine) SelectDocument(id string) error {
	if _, err := e.DocumentByID(id); err != nil {
		return err
	}
	if e.selection != nil {
		e.selection(id)
	}
	return nil
}

// Dispose releases the engine's resources. The engine should not be
// used after calling Dispose.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim != nil {
		e.sim.Release()
	}
	e.ready = false
}
