package similarity

import (
	"fmt"
	"testing"

	"github.com/poiesic/cardex/core"
	"github.com/poiesic/cardex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, docs []*core.Document) *Engine {
	t.Helper()
	tagIdx := index.BuildTagIndex(docs)
	var textIdx *index.TextIndex
	engine, err := NewEngine(tagIdx, func() *index.TextIndex {
		if textIdx == nil {
			textIdx = index.BuildTextIndex(docs)
		}
		return textIdx
	})
	require.NoError(t, err)
	t.Cleanup(engine.Release)
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("nil tag index", func(t *testing.T) {
		_, err := NewEngine(nil, nil)
		assert.Equal(t, ErrTagIndexRequired, err)
	})

	t.Run("nil text index provider is allowed", func(t *testing.T) {
		engine, err := NewEngine(index.BuildTagIndex(nil), nil)
		require.NoError(t, err)
		engine.Release()
	})

	t.Run("with pool size", func(t *testing.T) {
		engine, err := NewEngine(index.BuildTagIndex(nil), nil, WithPoolSize(2))
		require.NoError(t, err)
		engine.Release()
	})
}

func TestCombined_Gating(t *testing.T) {
	a := tagged("a", "x", "y")
	a.DescriptionText = "silver dragon"
	b := tagged("b", "x", "y")
	b.DescriptionText = "crimson phoenix"

	engine := newTestEngine(t, []*core.Document{a, b})

	opts := DefaultOptions()
	opts.TagMetric = SetMetricJaccard
	opts.WeightTags = false

	tagOnly := opts
	tagOnly.IncludeText = false
	assert.InDelta(t, 1.0, engine.Combined(a, b, tagOnly), 1e-12)

	textOnly := opts
	textOnly.IncludeTags = false
	assert.Equal(t, 0.0, engine.Combined(a, b, textOnly))

	neither := opts
	neither.IncludeTags = false
	neither.IncludeText = false
	assert.Equal(t, 0.0, engine.Combined(a, b, neither))

	// alpha blends: tag sim 1, text sim 0 -> alpha
	blended := opts
	blended.Alpha = 0.7
	assert.InDelta(t, 0.7, engine.Combined(a, b, blended), 1e-12)
}

func TestRank_OrdersByScore(t *testing.T) {
	ref := tagged("ref", "a", "b", "c")
	near := tagged("near", "a", "b", "c")
	near.Name = "near"
	mid := tagged("mid", "a", "b", "x")
	mid.Name = "mid"
	far := tagged("far", "z")
	far.Name = "far"

	docs := []*core.Document{ref, near, mid, far}
	engine := newTestEngine(t, docs)

	opts := RankOptions{Options: DefaultOptions()}
	opts.TagMetric = SetMetricJaccard
	opts.WeightTags = false
	opts.IncludeText = false

	results := engine.Rank(ref, docs, opts)

	require.Len(t, results, 3) // reference excluded
	assert.Equal(t, "near", results[0].Document.ID)
	assert.Equal(t, "mid", results[1].Document.ID)
	assert.Equal(t, "far", results[2].Document.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRank_MinSharedTagsPrefilter(t *testing.T) {
	ref := tagged("ref", "a", "b", "c")
	one := tagged("one", "a", "z")
	two := tagged("two", "a", "b", "z")

	docs := []*core.Document{ref, one, two}
	engine := newTestEngine(t, docs)

	opts := RankOptions{Options: DefaultOptions(), MinSharedTags: 2}
	opts.IncludeText = false

	results := engine.Rank(ref, docs, opts)
	require.Len(t, results, 1)
	assert.Equal(t, "two", results[0].Document.ID)

	// prefilter skipped entirely when tag similarity is disabled
	opts.IncludeTags = false
	opts.IncludeText = true
	results = engine.Rank(ref, docs, opts)
	assert.Len(t, results, 2)
}

func TestRank_NameTieBreakAndLimit(t *testing.T) {
	ref := tagged("ref", "a")
	docs := []*core.Document{ref}
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		doc := tagged(name, "a")
		doc.Name = name
		docs = append(docs, doc)
	}

	engine := newTestEngine(t, docs)

	opts := RankOptions{Options: DefaultOptions()}
	opts.TagMetric = SetMetricJaccard
	opts.WeightTags = false
	opts.IncludeText = false

	results := engine.Rank(ref, docs, opts)
	require.Len(t, results, 3)
	assert.Equal(t, "alpha", results[0].Document.Name)
	assert.Equal(t, "bravo", results[1].Document.Name)
	assert.Equal(t, "charlie", results[2].Document.Name)

	opts.Limit = 2
	assert.Len(t, engine.Rank(ref, docs, opts), 2)
}

func TestRank_Deterministic(t *testing.T) {
	docs := make([]*core.Document, 0, 60)
	ref := tagged("ref", "a", "b")
	ref.DescriptionText = "silver dragon sleeping on gold"
	docs = append(docs, ref)
	for i := 0; i < 59; i++ {
		doc := tagged(fmt.Sprintf("doc%02d", i), "a", fmt.Sprintf("tag%d", i%7))
		doc.Name = doc.ID
		doc.DescriptionText = fmt.Sprintf("dragon number %d of the hoard", i)
		docs = append(docs, doc)
	}

	engine := newTestEngine(t, docs)
	opts := RankOptions{Options: DefaultOptions()}

	first := engine.Rank(ref, docs, opts)
	second := engine.Rank(ref, docs, opts)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Document.ID, second[i].Document.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestTagSimilarity_UnknownMetricFallsBack(t *testing.T) {
	a := tagged("a", "x")
	engine := newTestEngine(t, []*core.Document{a})

	opts := DefaultOptions()
	opts.TagMetric = SetMetric("no-such-metric")
	assert.InDelta(t, 1.0, engine.TagSimilarity(a, a, opts), 1e-12)
}

func TestTextSimilarity_BM25UsesLazyIndex(t *testing.T) {
	a := tagged("a")
	a.DescriptionText = "shared glimmer phrase plus unique alpha"
	b := tagged("b")
	b.DescriptionText = "shared glimmer phrase plus unique beta"

	// corpus must be large enough for the df window to keep tokens
	docs := []*core.Document{a, b}
	for i := 0; i < 248; i++ {
		filler := tagged(fmt.Sprintf("filler%d", i))
		filler.DescriptionText = fmt.Sprintf("padding%d lexeme%d", i, i)
		docs = append(docs, filler)
	}

	engine := newTestEngine(t, docs)

	opts := DefaultOptions()
	opts.TextMetric = TextMetricBM25Cosine
	opts.IncludeTags = false

	score := engine.TextSimilarity(a, b, opts)
	assert.Greater(t, score, 0.0)
}
