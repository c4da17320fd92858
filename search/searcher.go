package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/cardex/core"
	"github.com/poiesic/cardex/index"
	"github.com/poiesic/cardex/ingest"
)

// Fixed signal weights. The name match dominates, raw token membership
// comes next, and body substring matches contribute least.
const (
	scoreNameMatch = 3.0
	scoreTokenHit  = 1.0
	scoreBodyMatch = 0.5
)

// Result is a search hit with its additive relevance score.
type Result struct {
	Document *core.Document
	Score    float64
}

// Searcher ranks corpus documents against free-text queries.
type Searcher struct {
	corpus *ingest.Corpus
	tokens *index.TokenIndex
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over a normalized corpus.
func NewSearcher(corpus *ingest.Corpus, tokens *index.TokenIndex, opts ...Option) (*Searcher, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}
	if tokens == nil {
		return nil, ErrTokenIndexRequired
	}

	s := &Searcher{
		corpus: corpus,
		tokens: tokens,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SearchIDs returns the ids of documents matching every query token
// (AND semantics). An empty query returns the full id universe.
func (s *Searcher) SearchIDs(query string) map[string]struct{} {
	return s.tokens.Search(query)
}

// Search ranks documents against the query. An empty query returns every
// document in corpus order with zero scores ("no filter"); otherwise only
// documents with a positive additive score are returned, ordered by
// descending score with a name-alphabetical tie-break.
func (s *Searcher) Search(query string) []*Result {
	return s.SearchWithMonitor(query, nil)
}

// SearchWithMonitor ranks documents against the query with monitoring.
// The monitor receives a callback per contributing signal.
func (s *Searcher) SearchWithMonitor(query string, monitor SearchMonitor) []*Result {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		results := make([]*Result, len(s.corpus.Documents))
		for i, doc := range s.corpus.Documents {
			results[i] = &Result{Document: doc}
		}
		monitor.Finish(results)
		return results
	}

	lowerQuery := strings.ToLower(trimmed)
	queryTokens := index.Tokenize(trimmed)

	// resolve token postings once per query token
	postings := make([]map[string]struct{}, len(queryTokens))
	for i, token := range queryTokens {
		postings[i] = s.tokens.Postings(token)
	}

	results := make([]*Result, 0)
	for _, doc := range s.corpus.Documents {
		score := 0.0

		if strings.Contains(strings.ToLower(doc.Name), lowerQuery) {
			score += scoreNameMatch
			monitor.NameHit(doc)
		}

		for i, posting := range postings {
			if _, ok := posting[doc.ID]; ok {
				score += scoreTokenHit
				monitor.TokenHit(doc, queryTokens[i])
			}
		}

		if strings.Contains(strings.ToLower(doc.DescriptionText), lowerQuery) {
			score += scoreBodyMatch
			monitor.BodyHit(doc)
		}
		if strings.Contains(strings.ToLower(doc.CreatorNotesText), lowerQuery) {
			score += scoreBodyMatch
			monitor.BodyHit(doc)
		}

		if score > 0 {
			results = append(results, &Result{Document: doc, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.Name < results[j].Document.Name
	})

	monitor.Finish(results)
	return results
}
