package cardex

import (
	"sort"
	"strings"

	"github.com/poiesic/cardex/core"
	"github.com/poiesic/cardex/tagexpr"
)

// SortField selects the document field a result set is ordered by.
type SortField string

const (
	SortByName              SortField = "name"
	SortByDateAdded         SortField = "dateAdded"
	SortByLastInteraction   SortField = "lastInteraction"
	SortByInteractionVolume SortField = "interactionVolume"
	SortByStorageSize       SortField = "storageSize"
	SortByTagCount          SortField = "tagCount"
	SortByRaritySum         SortField = "raritySum"
	SortByFavorite          SortField = "favorite"
	SortByWeightedScore     SortField = "weightedScore"
)

// SortDir is the sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Sort orders docs in place by the chosen field and direction. Numeric
// fields tie-break by name ascending regardless of direction. The
// weightedScore field scores each document as the sum of the weights its
// tags were assigned in weightsExpr; unknown or malformed fields fall
// back to a name sort.
func Sort(docs []*core.Document, field SortField, dir SortDir, weightsExpr string) {
	key := sortKey(field, weightsExpr)
	if key == nil {
		sort.SliceStable(docs, func(i, j int) bool {
			if dir == SortDesc {
				return nameLess(docs[j], docs[i])
			}
			return nameLess(docs[i], docs[j])
		})
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		ka, kb := key(docs[i]), key(docs[j])
		if ka != kb {
			if dir == SortDesc {
				return ka > kb
			}
			return ka < kb
		}
		return nameLess(docs[i], docs[j])
	})
}

func nameLess(a, b *core.Document) bool {
	na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if na != nb {
		return na < nb
	}
	return a.ID < b.ID
}

func sortKey(field SortField, weightsExpr string) func(*core.Document) float64 {
	switch field {
	case SortByDateAdded:
		return func(d *core.Document) float64 { return float64(d.DateAdded) }
	case SortByLastInteraction:
		return func(d *core.Document) float64 { return float64(d.DateLastInteraction) }
	case SortByInteractionVolume:
		return func(d *core.Document) float64 { return d.InteractionVolume }
	case SortByStorageSize:
		return func(d *core.Document) float64 { return d.StorageSize }
	case SortByTagCount:
		return func(d *core.Document) float64 { return float64(d.TagCount) }
	case SortByRaritySum:
		return func(d *core.Document) float64 { return d.RaritySum }
	case SortByFavorite:
		return func(d *core.Document) float64 {
			if d.Favorite {
				return 1
			}
			return 0
		}
	case SortByWeightedScore:
		weights := tagexpr.ParseWeights(weightsExpr)
		return func(d *core.Document) float64 {
			score := 0.0
			for _, tag := range d.Tags {
				if w, ok := weights[tag]; ok {
					score += w
				}
			}
			return score
		}
	}
	return nil
}
