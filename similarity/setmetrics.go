package similarity

import (
	"math"

	"github.com/poiesic/cardex/core"
)

// SetMetric selects a tag-set similarity metric.
type SetMetric string

const (
	SetMetricOverlap       SetMetric = "overlap"
	SetMetricJaccard       SetMetric = "jaccard"
	SetMetricTanimoto      SetMetric = "tanimoto" // alias of jaccard
	SetMetricDice          SetMetric = "dice"
	SetMetricOchiai        SetMetric = "ochiai"
	SetMetricSimpson       SetMetric = "simpson"
	SetMetricBraunBlanquet SetMetric = "braun-blanquet"
	SetMetricHamming       SetMetric = "hamming"
	SetMetricManhattan     SetMetric = "manhattan" // identical to hamming over binary membership
	SetMetricEuclidean     SetMetric = "euclidean"
	SetMetricCosine        SetMetric = "cosine" // default
	SetMetricNone          SetMetric = "none"
)

// tagWeighting carries the IDF lookup and the caller's weighting knobs
// into the individual metric functions.
type tagWeighting struct {
	idf           func(tag string) float64
	weighted      bool    // weight cosine vectors by idf
	idfMultiplier float64 // rarity boost for the overlap metric
}

type setMetricFunc func(a, b *core.Document, w tagWeighting) float64

// setMetrics is the exhaustive metric dispatch table.
var setMetrics = map[SetMetric]setMetricFunc{
	SetMetricOverlap:       setOverlap,
	SetMetricJaccard:       setJaccard,
	SetMetricTanimoto:      setJaccard,
	SetMetricDice:          setDice,
	SetMetricOchiai:        setOchiai,
	SetMetricSimpson:       setSimpson,
	SetMetricBraunBlanquet: setBraunBlanquet,
	SetMetricHamming:       setHamming,
	SetMetricManhattan:     setHamming, // binary membership makes them algebraically identical
	SetMetricEuclidean:     setEuclidean,
	SetMetricCosine:        setCosine,
	SetMetricNone:          func(*core.Document, *core.Document, tagWeighting) float64 { return 0 },
}

// intersectionCount counts tags present in both documents.
func intersectionCount(a, b *core.Document) int {
	small, large := a, b
	if len(small.Tags) > len(large.Tags) {
		small, large = large, small
	}
	count := 0
	for _, tag := range small.Tags {
		if large.HasTag(tag) {
			count++
		}
	}
	return count
}

// setOverlap sums 1 + idf(t)*(multiplier-1) over the intersection. With a
// multiplier of 1 this degenerates to the plain intersection count. The
// result is an unbounded non-negative score, unlike its siblings.
func setOverlap(a, b *core.Document, w tagWeighting) float64 {
	small, large := a, b
	if len(small.Tags) > len(large.Tags) {
		small, large = large, small
	}
	sum := 0.0
	for _, tag := range small.Tags {
		if large.HasTag(tag) {
			sum += 1 + w.idf(tag)*(w.idfMultiplier-1)
		}
	}
	return sum
}

func setJaccard(a, b *core.Document, _ tagWeighting) float64 {
	inter := intersectionCount(a, b)
	union := len(a.Tags) + len(b.Tags) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func setDice(a, b *core.Document, _ tagWeighting) float64 {
	total := len(a.Tags) + len(b.Tags)
	if total == 0 {
		return 0
	}
	return 2 * float64(intersectionCount(a, b)) / float64(total)
}

func setOchiai(a, b *core.Document, _ tagWeighting) float64 {
	if len(a.Tags) == 0 || len(b.Tags) == 0 {
		return 0
	}
	return float64(intersectionCount(a, b)) / math.Sqrt(float64(len(a.Tags))*float64(len(b.Tags)))
}

func setSimpson(a, b *core.Document, _ tagWeighting) float64 {
	smaller := len(a.Tags)
	if len(b.Tags) < smaller {
		smaller = len(b.Tags)
	}
	if smaller == 0 {
		return 0
	}
	return float64(intersectionCount(a, b)) / float64(smaller)
}

func setBraunBlanquet(a, b *core.Document, _ tagWeighting) float64 {
	larger := len(a.Tags)
	if len(b.Tags) > larger {
		larger = len(b.Tags)
	}
	if larger == 0 {
		return 0
	}
	return float64(intersectionCount(a, b)) / float64(larger)
}

// setHamming serves hamming and manhattan: 1 minus the fraction of the
// union whose membership differs. An empty union means no difference.
func setHamming(a, b *core.Document, _ tagWeighting) float64 {
	inter := intersectionCount(a, b)
	union := len(a.Tags) + len(b.Tags) - inter
	if union == 0 {
		return 1
	}
	diff := union - inter
	return 1 - float64(diff)/float64(union)
}

func setEuclidean(a, b *core.Document, _ tagWeighting) float64 {
	inter := intersectionCount(a, b)
	union := len(a.Tags) + len(b.Tags) - inter
	if union == 0 {
		return 1
	}
	diff := union - inter
	return 1 - math.Sqrt(float64(diff))/math.Sqrt(float64(union))
}

// setCosine treats each tag set as a sparse vector weighted by idf (or 1
// when unweighted) and returns the cosine of the two vectors.
func setCosine(a, b *core.Document, w tagWeighting) float64 {
	weight := func(string) float64 { return 1 }
	if w.weighted {
		weight = w.idf
	}

	dot := 0.0
	normA := 0.0
	for _, tag := range a.Tags {
		wt := weight(tag)
		normA += wt * wt
		if b.HasTag(tag) {
			dot += wt * wt
		}
	}
	normB := 0.0
	for _, tag := range b.Tags {
		wt := weight(tag)
		normB += wt * wt
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
