package similarity

import (
	"testing"

	"github.com/poiesic/cardex/core"
	"github.com/poiesic/cardex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagged(id string, tags ...string) *core.Document {
	doc := &core.Document{ID: id, Name: id}
	doc.SetTags(tags)
	return doc
}

func unweighted() tagWeighting {
	return tagWeighting{idf: func(string) float64 { return 1 }, idfMultiplier: 1}
}

func TestSetMetrics_KnownValues(t *testing.T) {
	doc1 := tagged("doc1", "a", "b")
	doc2 := tagged("doc2", "b", "c")
	doc3 := tagged("doc3", "a", "b", "c")

	// |{a,b} ∩ {a,b,c}| = 2, union 3
	assert.InDelta(t, 2.0/3.0, setJaccard(doc1, doc3, unweighted()), 1e-12)
	// |{a,b} ∩ {b,c}| = 1, union 3
	assert.InDelta(t, 1.0/3.0, setJaccard(doc1, doc2, unweighted()), 1e-12)

	assert.InDelta(t, 2*2.0/5.0, setDice(doc1, doc3, unweighted()), 1e-12)
	assert.InDelta(t, 2.0/2.0, setSimpson(doc1, doc3, unweighted()), 1e-12)
	assert.InDelta(t, 2.0/3.0, setBraunBlanquet(doc1, doc3, unweighted()), 1e-12)

	// hamming: one differing member out of a 3-tag union
	assert.InDelta(t, 1-1.0/3.0, setHamming(doc1, doc3, unweighted()), 1e-12)
}

func TestSetMetrics_SelfSimilarityIsOne(t *testing.T) {
	doc := tagged("doc", "a", "b", "c")

	bounded := []SetMetric{
		SetMetricJaccard, SetMetricTanimoto, SetMetricDice, SetMetricOchiai,
		SetMetricSimpson, SetMetricBraunBlanquet, SetMetricHamming,
		SetMetricManhattan, SetMetricEuclidean, SetMetricCosine,
	}
	for _, metric := range bounded {
		t.Run(string(metric), func(t *testing.T) {
			assert.InDelta(t, 1.0, setMetrics[metric](doc, doc, unweighted()), 1e-12)
		})
	}
}

func TestSetMetrics_Symmetric(t *testing.T) {
	a := tagged("a", "x", "y", "z")
	b := tagged("b", "y", "w")

	w := tagWeighting{
		idf:           func(tag string) float64 { return 1 + float64(len(tag)) },
		weighted:      true,
		idfMultiplier: 3,
	}

	for metric, fn := range setMetrics {
		t.Run(string(metric), func(t *testing.T) {
			assert.InDelta(t, fn(a, b, w), fn(b, a, w), 1e-12)
		})
	}
}

func TestSetMetrics_EmptySetIdentities(t *testing.T) {
	empty1 := tagged("e1")
	empty2 := tagged("e2")
	full := tagged("f", "a")

	// ratio metrics: empty union/denominator yields 0
	for _, metric := range []SetMetric{
		SetMetricJaccard, SetMetricDice, SetMetricOchiai,
		SetMetricSimpson, SetMetricBraunBlanquet, SetMetricCosine,
	} {
		t.Run(string(metric)+" empty", func(t *testing.T) {
			assert.Equal(t, 0.0, setMetrics[metric](empty1, empty2, unweighted()))
		})
	}

	// distance-style metrics: no members means no difference
	for _, metric := range []SetMetric{SetMetricHamming, SetMetricManhattan, SetMetricEuclidean} {
		t.Run(string(metric)+" empty", func(t *testing.T) {
			assert.Equal(t, 1.0, setMetrics[metric](empty1, empty2, unweighted()))
		})
	}

	// disjoint against empty is still well-defined
	assert.Equal(t, 0.0, setJaccard(empty1, full, unweighted()))
}

func TestSetMetrics_HammingManhattanIdentical(t *testing.T) {
	// over binary membership vectors the two formulas coincide; both
	// entry points are kept for compatibility
	pairs := [][2]*core.Document{
		{tagged("a", "x", "y"), tagged("b", "y", "z")},
		{tagged("c", "x"), tagged("d", "x")},
		{tagged("e"), tagged("f", "q", "r")},
	}
	for _, pair := range pairs {
		assert.Equal(t,
			setMetrics[SetMetricHamming](pair[0], pair[1], unweighted()),
			setMetrics[SetMetricManhattan](pair[0], pair[1], unweighted()))
	}
}

func TestSetOverlap(t *testing.T) {
	doc1 := tagged("doc1", "common", "rare")
	doc2 := tagged("doc2", "common", "rare", "other")

	idf := map[string]float64{"common": 1.0, "rare": 3.0, "other": 2.0}
	w := tagWeighting{
		idf:           func(tag string) float64 { return idf[tag] },
		idfMultiplier: 2,
	}

	// 1 + 1*(2-1) + 1 + 3*(2-1) = 6
	assert.InDelta(t, 6.0, setOverlap(doc1, doc2, w), 1e-12)

	// multiplier 1 degenerates to the intersection count
	w.idfMultiplier = 1
	assert.InDelta(t, 2.0, setOverlap(doc1, doc2, w), 1e-12)

	// unbounded: grows with intersection size
	big1 := tagged("b1", "a", "b", "c", "d", "e")
	big2 := tagged("b2", "a", "b", "c", "d", "e")
	assert.Greater(t, setOverlap(big1, big2, w), 1.0)
}

func TestSetCosine_IDFWeighted(t *testing.T) {
	docs := []*core.Document{
		tagged("doc1", "a", "b"),
		tagged("doc2", "b", "c"),
		tagged("doc3", "a", "b", "c"),
	}
	tagIdx := index.BuildTagIndex(docs)

	w := tagWeighting{idf: tagIdx.IDFOf, weighted: true}

	require.InDelta(t, 1.0, setCosine(docs[0], docs[0], w), 1e-12)
	score := setCosine(docs[0], docs[2], w)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}
