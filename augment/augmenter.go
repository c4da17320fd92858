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


package augment

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/cardex/core"
	"github.com/poiesic/cardex/index"
)

// Augmenter runs the probable-tag enrichment pass over a corpus.
type Augmenter struct {
	config   *Config
	logger   *slog.Logger
	progress ProgressFunc
}

// Option configures an Augmenter.
type Option func(*Augmenter) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Augmenter) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithProgress sets a callback receiving progress updates during the pass.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Augmenter) error {
		a.progress = fn
		return nil
	}
}

// NewAugmenter creates a new augmenter.
func NewAugmenter(config *Config, opts ...Option) (*Augmenter, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.NGramMin < 1 {
		config.NGramMin = 1
	}
	if config.NGramMax < config.NGramMin {
		return nil, ErrInvalidNGramRange
	}

	a := &Augmenter{
		config: config,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Report summarizes a completed augmentation pass.
type Report struct {
	DocumentsScanned   int
	DocumentsAugmented int
	TagsAdded          int
	Elapsed            time.Duration
}

// Run executes the augmentation pass over the documents.
//
// The pass makes two sequential sweeps: one to accumulate corpus-wide
// n-gram statistics, one to score and mutate documents. Mutating a
// document never changes the statistics another document is scored
// against. tagIdx supplies the IDF table used to re-derive tag count
// and rarity sum on mutated documents; it reflects the corpus as it was
// before the pass and is not rebuilt here.
func (a *Augmenter) Run(ctx context.Context, docs []*core.Document, tagIdx *index.TagIndex) (*Report, error) {
	if tagIdx == nil {
		return nil, ErrTagIndexRequired
	}

	tracker := NewProgressTracker(a.progress, 2*len(docs), a.config.ReportInterval)
	tracker.Start()

	gramDF := make(map[string]int)
	cooc := make(map[string]map[string]int)
	docGrams := make(map[string][]string, len(docs))

	iterator := NewDocumentIterator(docs, a.config.BatchSize)

	err := iterator.ForEach(ctx, func(batch []*core.Document) error {
		for _, doc := range batch {
			grams := a.ngrams(doc.SearchText())
			docGrams[doc.ID] = grams
			for _, gram := range grams {
				gramDF[gram]++
				tags := cooc[gram]
				if tags == nil {
					tags = make(map[string]int)
					cooc[gram] = tags
				}
				for _, tag := range doc.Tags {
					tags[tag]++
				}
			}
			tracker.Increment(1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &Report{DocumentsScanned: len(docs)}
	var mutated []*core.Document

	err = iterator.ForEach(ctx, func(batch []*core.Document) error {
		for _, doc := range batch {
			added := a.augmentDocument(doc, docGrams[doc.ID], gramDF, cooc)
			if len(added) > 0 {
				mutated = append(mutated, doc)
				report.DocumentsAugmented++
				report.TagsAdded += len(added)
				a.logger.Debug("inferred tags", "document", doc.ID, "tags", added)
			}
			tracker.Increment(1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-derive with the pre-pass IDF table. Inferred tags came from the
	// existing tag universe, so every one has an entry.
	tagIdx.Annotate(mutated...)

	tracker.Finish()
	report.Elapsed = tracker.Elapsed()

	a.logger.Info("augmentation complete",
		"scanned", report.DocumentsScanned,
		"augmented", report.DocumentsAugmented,
		"tagsAdded", report.TagsAdded,
		"elapsed", report.Elapsed.Round(time.Millisecond))

	return report, nil
}

type candidate struct {
	tag   string
	score float64
}

// augmentDocument scores candidate tags for one document and adds the
// qualifying top scorers as inferred tags. Returns the tags added.
func (a *Augmenter) augmentDocument(doc *core.Document, grams []string, gramDF map[string]int, cooc map[string]map[string]int) []string {
	scores := make(map[string]float64)
	evidence := make(map[string]int)

	for _, gram := range grams {
		df := gramDF[gram]
		if df == 0 {
			continue
		}
		for tag, count := range cooc[gram] {
			if doc.HasTag(tag) {
				continue
			}
			scores[tag] += float64(count) / float64(df)
			evidence[tag]++
		}
	}

	candidates := make([]candidate, 0, len(scores))
	for tag, score := range scores {
		if score >= a.config.MinScore && evidence[tag] >= a.config.MinEvidence {
			candidates = append(candidates, candidate{tag: tag, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].tag < candidates[j].tag
	})

	if len(candidates) > a.config.MaxTags {
		candidates = candidates[:a.config.MaxTags]
	}

	tags := make([]string, len(candidates))
	for i, c := range candidates {
		tags[i] = c.tag
	}

	return doc.AddInferredTags(tags)
}

// ngrams extracts the distinct word n-grams of the configured range from
// text. Stop words are dropped from the token stream first, matching the
// text index pipeline.
func (a *Augmenter) ngrams(text string) []string {
	raw := index.Tokenize(text)
	tokens := raw[:0:0]
	for _, token := range raw {
		if index.IsStopWord(token) {
			continue
		}
		tokens = append(tokens, token)
	}

	seen := make(map[string]struct{})
	var grams []string
	for n := a.config.NGramMin; n <= a.config.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := strings.Join(tokens[i:i+n], " ")
			if _, dup := seen[gram]; dup {
				continue
			}
			seen[gram] = struct{}{}
			grams = append(grams, gram)
		}
	}

	return grams
}
