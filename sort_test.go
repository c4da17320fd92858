package cardex

import (
	"testing"

	"github.com/poiesic/cardex/core"
	"github.com/stretchr/testify/assert"
)

func sortDoc(id, name string, tags ...string) *core.Document {
	doc := &core.Document{ID: id, Name: name}
	doc.SetTags(tags)
	return doc
}

func ids(docs []*core.Document) []string {
	out := make([]string, len(docs))
	for i, doc := range docs {
		out[i] = doc.ID
	}
	return out
}

func TestSort_Name(t *testing.T) {
	docs := []*core.Document{
		sortDoc("1", "charlie"),
		sortDoc("2", "Alpha"),
		sortDoc("3", "bravo"),
	}

	Sort(docs, SortByName, SortAsc, "")
	assert.Equal(t, []string{"2", "3", "1"}, ids(docs))

	Sort(docs, SortByName, SortDesc, "")
	assert.Equal(t, []string{"1", "3", "2"}, ids(docs))
}

func TestSort_NumericFieldWithNameTieBreak(t *testing.T) {
	a := sortDoc("1", "zeta")
	a.StorageSize = 10
	b := sortDoc("2", "alpha")
	b.StorageSize = 10
	c := sortDoc("3", "mid")
	c.StorageSize = 5

	docs := []*core.Document{a, b, c}
	Sort(docs, SortByStorageSize, SortDesc, "")
	// equal sizes tie-break by name ascending even when descending
	assert.Equal(t, []string{"2", "1", "3"}, ids(docs))
}

func TestSort_DateAdded(t *testing.T) {
	a := sortDoc("1", "a")
	a.DateAdded = 300
	b := sortDoc("2", "b")
	b.DateAdded = 100
	c := sortDoc("3", "c")
	c.DateAdded = 200

	docs := []*core.Document{a, b, c}
	Sort(docs, SortByDateAdded, SortAsc, "")
	assert.Equal(t, []string{"2", "3", "1"}, ids(docs))
}

func TestSort_FavoriteFirst(t *testing.T) {
	a := sortDoc("1", "a")
	b := sortDoc("2", "b")
	b.Favorite = true
	c := sortDoc("3", "c")

	docs := []*core.Document{a, b, c}
	Sort(docs, SortByFavorite, SortDesc, "")
	assert.Equal(t, "2", docs[0].ID)
}

func TestSort_WeightedScore(t *testing.T) {
	docs := []*core.Document{
		sortDoc("1", "a", "fire"),
		sortDoc("2", "b", "water", "fire"),
		sortDoc("3", "c", "water"),
	}

	Sort(docs, SortByWeightedScore, SortDesc, `weight("fire") = 2.0; weight("water") = 0.5`)
	assert.Equal(t, []string{"2", "1", "3"}, ids(docs))
}

func TestSort_WeightedScoreMalformedExpr(t *testing.T) {
	docs := []*core.Document{
		sortDoc("1", "bravo", "fire"),
		sortDoc("2", "alpha", "water"),
	}

	// no parseable assignments: every score is 0, name breaks the tie
	Sort(docs, SortByWeightedScore, SortDesc, "garbage")
	assert.Equal(t, []string{"2", "1"}, ids(docs))
}

func TestSort_UnknownFieldFallsBackToName(t *testing.T) {
	docs := []*core.Document{
		sortDoc("1", "bravo"),
		sortDoc("2", "alpha"),
	}

	Sort(docs, SortField("nope"), SortAsc, "")
	assert.Equal(t, []string{"2", "1"}, ids(docs))
}
