package index

import (
	"strings"
	"unicode"

	"github.com/poiesic/cardex/core"
)

// Tokenize splits text into lowercase runs of letters and digits.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// TokenIndex maps name/creator tokens to the document ids containing them.
// Immutable after Build.
type TokenIndex struct {
	postings map[string]map[string]struct{}
	universe map[string]struct{}
}

// TokenIndexBuilder accumulates documents into token postings. Like the
// tag builder, accumulation is commutative.
type TokenIndexBuilder struct {
	postings map[string]map[string]struct{}
	universe map[string]struct{}
}

// NewTokenIndexBuilder creates an empty builder.
func NewTokenIndexBuilder() *TokenIndexBuilder {
	return &TokenIndexBuilder{
		postings: make(map[string]map[string]struct{}),
		universe: make(map[string]struct{}),
	}
}

// Add accumulates documents, tokenizing name and creator name.
func (b *TokenIndexBuilder) Add(docs ...*core.Document) {
	for _, doc := range docs {
		b.universe[doc.ID] = struct{}{}
		for _, token := range Tokenize(doc.Name + " " + doc.CreatorName) {
			posting := b.postings[token]
			if posting == nil {
				posting = make(map[string]struct{})
				b.postings[token] = posting
			}
			posting[doc.ID] = struct{}{}
		}
	}
}

// Build returns the finished index.
func (b *TokenIndexBuilder) Build() *TokenIndex {
	return &TokenIndex{postings: b.postings, universe: b.universe}
}

// BuildTokenIndex builds a token index over the documents.
func BuildTokenIndex(docs []*core.Document) *TokenIndex {
	builder := NewTokenIndexBuilder()
	builder.Add(docs...)
	return builder.Build()
}

// Postings returns the posting set for a token, or nil if the token is
// unknown. The returned map must not be mutated.
func (ix *TokenIndex) Postings(token string) map[string]struct{} {
	return ix.postings[token]
}

// Search returns the ids of documents whose name or creator name contains
// every token of the query. An empty query matches the full universe.
// Any query token with no postings short-circuits to an empty result.
func (ix *TokenIndex) Search(query string) map[string]struct{} {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		result := make(map[string]struct{}, len(ix.universe))
		for id := range ix.universe {
			result[id] = struct{}{}
		}
		return result
	}

	var result map[string]struct{}
	for _, token := range tokens {
		posting := ix.postings[token]
		if len(posting) == 0 {
			return map[string]struct{}{}
		}
		if result == nil {
			result = make(map[string]struct{}, len(posting))
			for id := range posting {
				result[id] = struct{}{}
			}
			continue
		}
		for id := range result {
			if _, ok := posting[id]; !ok {
				delete(result, id)
			}
		}
		if len(result) == 0 {
			return result
		}
	}

	return result
}
