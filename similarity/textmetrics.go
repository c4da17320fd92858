package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/poiesic/cardex/core"
	"github.com/poiesic/cardex/index"
)

// TextMetric selects a free-text similarity metric. Metrics operate on
// the concatenated notes+description text of each document.
type TextMetric string

const (
	TextMetricCosineTF      TextMetric = "cosine-tf" // default; term-frequency cosine over the configured n-gram range
	TextMetricBM25Cosine    TextMetric = "bm25-cosine"
	TextMetricJaccardWords  TextMetric = "jaccard-words"
	TextMetricDiceWords     TextMetric = "dice-words"
	TextMetricOverlapWords  TextMetric = "overlap-words"
	TextMetricJaccardNgrams TextMetric = "jaccard-ngrams"
	TextMetricDiceNgrams    TextMetric = "dice-ngrams"
	TextMetricOverlapNgrams TextMetric = "overlap-ngrams"
	TextMetricLevenshtein   TextMetric = "levenshtein"
	TextMetricJaro          TextMetric = "jaro"
	TextMetricJaroWinkler   TextMetric = "jaro-winkler"
	TextMetricLCS           TextMetric = "lcs"
	TextMetricSemanticHash  TextMetric = "semantic-hash"
	TextMetricNone          TextMetric = "none"
)

// semanticHashSize is the number of top-frequency words compared by the
// semantic-hash metric.
const semanticHashSize = 32

// textContext carries shared state into the text metric functions.
type textContext struct {
	textIndex  *index.TextIndex
	nMin, nMax int
}

type textMetricFunc func(a, b *core.Document, ctx textContext) float64

var textMetrics = map[TextMetric]textMetricFunc{
	TextMetricCosineTF:   textCosineTF,
	TextMetricBM25Cosine: textBM25Cosine,
	TextMetricJaccardWords: func(a, b *core.Document, _ textContext) float64 {
		return jaccardStrings(wordSet(a), wordSet(b))
	},
	TextMetricDiceWords: func(a, b *core.Document, _ textContext) float64 {
		return diceStrings(wordSet(a), wordSet(b))
	},
	TextMetricOverlapWords: func(a, b *core.Document, _ textContext) float64 {
		return overlapCountStrings(wordSet(a), wordSet(b))
	},
	TextMetricJaccardNgrams: func(a, b *core.Document, ctx textContext) float64 {
		return jaccardStrings(ngramSet(a, ctx), ngramSet(b, ctx))
	},
	TextMetricDiceNgrams: func(a, b *core.Document, ctx textContext) float64 {
		return diceStrings(ngramSet(a, ctx), ngramSet(b, ctx))
	},
	TextMetricOverlapNgrams: func(a, b *core.Document, ctx textContext) float64 {
		return overlapCountStrings(ngramSet(a, ctx), ngramSet(b, ctx))
	},
	TextMetricLevenshtein:  textLevenshtein,
	TextMetricJaro:         textJaro,
	TextMetricJaroWinkler:  textJaroWinkler,
	TextMetricLCS:          textLCS,
	TextMetricSemanticHash: textSemanticHash,
	TextMetricNone:         func(*core.Document, *core.Document, textContext) float64 { return 0 },
}

// words tokenizes a document's free text into lowercase word tokens with
// stop words removed.
func words(doc *core.Document) []string {
	raw := index.Tokenize(doc.SearchText())
	filtered := make([]string, 0, len(raw))
	for _, token := range raw {
		if !index.IsStopWord(token) {
			filtered = append(filtered, token)
		}
	}
	return filtered
}

func wordSet(doc *core.Document) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range words(doc) {
		set[token] = struct{}{}
	}
	return set
}

// wordNgrams emits space-joined n-grams of the token stream for every n
// in [nMin, nMax].
func wordNgrams(tokens []string, nMin, nMax int) []string {
	if nMin < 1 {
		nMin = 1
	}
	if nMax < nMin {
		nMax = nMin
	}

	var grams []string
	for n := nMin; n <= nMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

func ngramSet(doc *core.Document, ctx textContext) map[string]struct{} {
	set := make(map[string]struct{})
	for _, gram := range wordNgrams(words(doc), ctx.nMin, ctx.nMax) {
		set[gram] = struct{}{}
	}
	return set
}

func stringIntersection(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	count := 0
	for s := range a {
		if _, ok := b[s]; ok {
			count++
		}
	}
	return count
}

func jaccardStrings(a, b map[string]struct{}) float64 {
	inter := stringIntersection(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func diceStrings(a, b map[string]struct{}) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 2 * float64(stringIntersection(a, b)) / float64(total)
}

// overlapCountStrings is the raw intersection count. Like the tag-set
// overlap metric it is an unbounded non-negative score, not normalized
// to [0,1].
func overlapCountStrings(a, b map[string]struct{}) float64 {
	return float64(stringIntersection(a, b))
}

func textCosineTF(a, b *core.Document, ctx textContext) float64 {
	tfA := termFrequencies(wordNgrams(words(a), ctx.nMin, ctx.nMax))
	tfB := termFrequencies(wordNgrams(words(b), ctx.nMin, ctx.nMax))

	if len(tfA) > len(tfB) {
		tfA, tfB = tfB, tfA
	}

	dot := 0.0
	for gram, freqA := range tfA {
		if freqB, ok := tfB[gram]; ok {
			dot += float64(freqA) * float64(freqB)
		}
	}

	normA := 0.0
	for _, f := range tfA {
		normA += float64(f) * float64(f)
	}
	normB := 0.0
	for _, f := range tfB {
		normB += float64(f) * float64(f)
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termFrequencies(grams []string) map[string]int {
	tf := make(map[string]int, len(grams))
	for _, gram := range grams {
		tf[gram]++
	}
	return tf
}

func textBM25Cosine(a, b *core.Document, ctx textContext) float64 {
	if ctx.textIndex == nil {
		return 0
	}
	return ctx.textIndex.Cosine(a.ID, b.ID)
}

func textLevenshtein(a, b *core.Document, _ textContext) float64 {
	ra, rb := textRunes(a), textRunes(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longer)
}

func textJaro(a, b *core.Document, _ textContext) float64 {
	return jaro(textRunes(a), textRunes(b))
}

func textJaroWinkler(a, b *core.Document, _ textContext) float64 {
	return jaroWinkler(textRunes(a), textRunes(b))
}

func textLCS(a, b *core.Document, _ textContext) float64 {
	ra, rb := textRunes(a), textRunes(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1
	}
	return float64(lcsLength(ra, rb)) / float64(longer)
}

func textRunes(doc *core.Document) []rune {
	return []rune(strings.ToLower(doc.SearchText()))
}

// textSemanticHash compares the documents' top-32 most frequent words
// positionally: the fraction of hash slots holding the same word. A
// coarse signal, but cheap and resistant to reordering of long texts.
func textSemanticHash(a, b *core.Document, _ textContext) float64 {
	hashA := semanticHash(a)
	hashB := semanticHash(b)

	limit := len(hashA)
	if len(hashB) < limit {
		limit = len(hashB)
	}

	matches := 0
	for i := 0; i < limit; i++ {
		if hashA[i] == hashB[i] {
			matches++
		}
	}
	return float64(matches) / float64(semanticHashSize)
}

// semanticHash returns up to 32 words ordered by descending frequency,
// ties broken alphabetically for determinism.
func semanticHash(doc *core.Document) []string {
	tf := termFrequencies(words(doc))

	ranked := make([]string, 0, len(tf))
	for word := range tf {
		ranked = append(ranked, word)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if tf[ranked[i]] != tf[ranked[j]] {
			return tf[ranked[i]] > tf[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > semanticHashSize {
		ranked = ranked[:semanticHashSize]
	}
	return ranked
}
