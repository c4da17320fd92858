package index

import (
	"math"

	"github.com/poiesic/cardex/core"
)

// TagIndex holds the inverted tag index, the document-frequency table, and
// the IDF (rarity) table for a built corpus. It is immutable after Build.
type TagIndex struct {
	// N is the corpus size used for every IDF computation.
	N int

	// DocFreq maps tag to the number of documents containing it.
	DocFreq map[string]int

	// Postings maps tag to the set of document ids containing it.
	Postings map[string]map[string]struct{}

	// IDF maps tag to its rarity weight: log((N+1)/(df+1)) + 1.
	// Strictly decreasing in df and always positive.
	IDF map[string]float64
}

// TagIndexBuilder accumulates documents into the frequency and posting
// tables. Accumulation is commutative, so feeding documents in any order
// (or in batches) produces an identical index.
type TagIndexBuilder struct {
	n        int
	docFreq  map[string]int
	postings map[string]map[string]struct{}
}

// NewTagIndexBuilder creates an empty builder.
func NewTagIndexBuilder() *TagIndexBuilder {
	return &TagIndexBuilder{
		docFreq:  make(map[string]int),
		postings: make(map[string]map[string]struct{}),
	}
}

// Add accumulates documents into the builder. Each tag is counted once per
// document even if the tag list were to repeat it.
func (b *TagIndexBuilder) Add(docs ...*core.Document) {
	for _, doc := range docs {
		b.n++
		seen := make(map[string]struct{}, len(doc.Tags))
		for _, tag := range doc.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}

			b.docFreq[tag]++
			posting := b.postings[tag]
			if posting == nil {
				posting = make(map[string]struct{})
				b.postings[tag] = posting
			}
			posting[doc.ID] = struct{}{}
		}
	}
}

// Build derives the IDF table and returns the finished index.
func (b *TagIndexBuilder) Build() *TagIndex {
	idx := &TagIndex{
		N:        b.n,
		DocFreq:  b.docFreq,
		Postings: b.postings,
		IDF:      make(map[string]float64, len(b.docFreq)),
	}
	for tag, df := range b.docFreq {
		idx.IDF[tag] = tagIDF(b.n, df)
	}
	return idx
}

// BuildTagIndex builds an index over the documents and annotates each with
// its derived TagCount and RaritySum.
func BuildTagIndex(docs []*core.Document) *TagIndex {
	builder := NewTagIndexBuilder()
	builder.Add(docs...)
	idx := builder.Build()
	idx.Annotate(docs...)
	return idx
}

func tagIDF(n, df int) float64 {
	return math.Log(float64(n+1)/float64(df+1)) + 1
}

// IDFOf returns the rarity weight for a tag. Tags absent from the corpus
// score as if their document frequency were zero.
func (ix *TagIndex) IDFOf(tag string) float64 {
	if idf, ok := ix.IDF[tag]; ok {
		return idf
	}
	return tagIDF(ix.N, 0)
}

// DocsWithTag returns the posting set for a tag. The returned map must not
// be mutated.
func (ix *TagIndex) DocsWithTag(tag string) map[string]struct{} {
	return ix.Postings[core.NormalizeTag(tag)]
}

// Annotate recomputes TagCount and RaritySum on each document from its
// current tag set and this index's IDF table.
func (ix *TagIndex) Annotate(docs ...*core.Document) {
	for _, doc := range docs {
		doc.TagCount = len(doc.Tags)
		sum := 0.0
		for _, tag := range doc.Tags {
			sum += ix.IDFOf(tag)
		}
		doc.RaritySum = sum
	}
}
