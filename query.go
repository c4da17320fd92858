package cardex

import (
	"strings"

	"github.com/poiesic/cardex/core"
)

// QueryOptions composes the full query pipeline: boolean filter with
// numeric ranges, free-text search, tag-bundle filter, and sort.
type QueryOptions struct {
	// Expr is the boolean tag expression; empty or malformed means
	// match-all.
	Expr   string
	Filter FilterOptions

	// Text is the free-text query. When non-empty, its relevance order
	// takes precedence over the chosen sort field.
	Text string

	// BundleTags with BundleMin keeps only documents carrying at least
	// BundleMin of the listed tags. BundleMin 0 disables the filter.
	BundleTags []string
	BundleMin  int

	SortField SortField
	SortDir   SortDir

	// Weights is the weight-expression source for SortByWeightedScore.
	Weights string
}

// Query runs the composed pipeline and returns the resulting documents.
func (e *Engine) Query(opts QueryOptions) ([]*core.Document, error) {
	docs, err := e.Filter(opts.Expr, opts.Filter)
	if err != nil {
		return nil, err
	}

	textRanked := false
	if strings.TrimSpace(opts.Text) != "" {
		allowed := make(map[string]struct{}, len(docs))
		for _, doc := range docs {
			allowed[doc.ID] = struct{}{}
		}

		ranked := e.searcher.Search(opts.Text)
		docs = make([]*core.Document, 0, len(ranked))
		for _, result := range ranked {
			if _, ok := allowed[result.Document.ID]; ok {
				docs = append(docs, result.Document)
			}
		}
		textRanked = true
	}

	if opts.BundleMin > 0 && len(opts.BundleTags) > 0 {
		kept := make([]*core.Document, 0, len(docs))
		for _, doc := range docs {
			shared := 0
			for _, tag := range opts.BundleTags {
				if doc.HasTag(tag) {
					shared++
				}
			}
			if shared >= opts.BundleMin {
				kept = append(kept, doc)
			}
		}
		docs = kept
	}

	// an active text query already ordered the set by relevance
	if !textRanked && opts.SortField != "" {
		Sort(docs, opts.SortField, opts.SortDir, opts.Weights)
	}

	return docs, nil
}
