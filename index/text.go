package index

import (
	"math"

	"github.com/poiesic/cardex/core"
)

// BM25 parameters (standard values).
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// Weight applied to each free-text field by repetition when building the
// composite document text.
const textFieldWeight = 2

// maxDocFreqRatio excludes tokens appearing in more than this fraction of
// the corpus: too common to discriminate. Tokens with df <= 1 are excluded
// as too rare to be useful.
const maxDocFreqRatio = 0.01

// TextIndex holds a BM25-weighted sparse vector per document, built over
// the descriptive free-text fields. Immutable once built; callers cache it
// and rebuild only on explicit request.
type TextIndex struct {
	// N is the corpus size.
	N int

	// IDF maps token to its BM25 inverse document frequency. Tokens
	// outside the document-frequency cutoffs are absent.
	IDF map[string]float64

	// Vectors maps document id to its sparse token->weight vector.
	Vectors map[string]map[string]float64

	norms map[string]float64
}

// TextTokens emits unigrams and bigrams over letter/digit runs of the
// text. Stop words are excluded from unigram emission, and a bigram is
// suppressed if either side is a stop word. Bigram adjacency is judged on
// the raw token stream, before stop-word removal.
func TextTokens(text string) []string {
	raw := Tokenize(text)
	tokens := make([]string, 0, len(raw)*2)

	for i, tok := range raw {
		if !IsStopWord(tok) {
			tokens = append(tokens, tok)
		}
		if i+1 < len(raw) && !IsStopWord(tok) && !IsStopWord(raw[i+1]) {
			tokens = append(tokens, tok+" "+raw[i+1])
		}
	}

	return tokens
}

// BuildTextIndex builds BM25 vectors for all documents. Creator notes and
// description both contribute with weight 2 (by repetition).
func BuildTextIndex(docs []*core.Document) *TextIndex {
	n := len(docs)

	termFreqs := make([]map[string]int, n)
	lengths := make([]int, n)
	docFreq := make(map[string]int)
	totalLength := 0

	for i, doc := range docs {
		tf := make(map[string]int)
		length := 0
		for _, field := range []string{doc.CreatorNotesText, doc.DescriptionText} {
			if field == "" {
				continue
			}
			tokens := TextTokens(field)
			for rep := 0; rep < textFieldWeight; rep++ {
				for _, token := range tokens {
					tf[token]++
					length++
				}
			}
		}
		termFreqs[i] = tf
		lengths[i] = length
		totalLength += length
		for token := range tf {
			docFreq[token]++
		}
	}

	avgdl := 0.0
	if n > 0 {
		avgdl = float64(totalLength) / float64(n)
	}

	idx := &TextIndex{
		N:       n,
		IDF:     make(map[string]float64),
		Vectors: make(map[string]map[string]float64, n),
		norms:   make(map[string]float64, n),
	}

	maxDF := maxDocFreqRatio * float64(n)
	for token, df := range docFreq {
		if df <= 1 || float64(df) > maxDF {
			continue
		}
		idx.IDF[token] = math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
	}

	for i, doc := range docs {
		vector := make(map[string]float64)
		normSq := 0.0
		for token, freq := range termFreqs[i] {
			idf, ok := idx.IDF[token]
			if !ok {
				continue
			}
			f := float64(freq)
			lengthNorm := 1 - bm25B + bm25B*float64(lengths[i])/avgdl
			weight := idf * f * (bm25K1 + 1) / (f + bm25K1*lengthNorm)
			vector[token] = weight
			normSq += weight * weight
		}
		idx.Vectors[doc.ID] = vector
		idx.norms[doc.ID] = math.Sqrt(normSq)
	}

	return idx
}

// Cosine returns the cosine similarity of two documents' BM25 vectors.
// Documents with empty vectors score 0.
func (ix *TextIndex) Cosine(idA, idB string) float64 {
	vecA, vecB := ix.Vectors[idA], ix.Vectors[idB]
	if len(vecA) > len(vecB) {
		vecA, vecB = vecB, vecA
	}

	dot := 0.0
	for token, weightA := range vecA {
		if weightB, ok := vecB[token]; ok {
			dot += weightA * weightB
		}
	}

	normA, normB := ix.norms[idA], ix.norms[idB]
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}
