package core

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// SynthesizeID generates a deterministic document ID from the document's
// asset path and display name using BLAKE2b hashing. Identical input always
// produces the same ID, so re-ingesting the same payload yields stable
// identifiers even for documents that arrived without one.
func SynthesizeID(assetPath, name string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(assetPath))
	h.Write([]byte{0})
	h.Write([]byte(name))
	return "card-" + hex.EncodeToString(h.Sum(nil))
}

// NormalizeTag canonicalizes a tag: whitespace trimmed, lower-cased.
// Returns "" for tags that are empty after trimming.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Document is the canonical unit of the corpus after normalization.
// Tags holds normalized, deduplicated tags in sorted order. TagCount and
// RaritySum are derived during index construction and after augmentation.
type Document struct {
	ID          string
	Name        string
	CreatorName string

	Tags         []string // sorted, normalized, duplicate-free
	InferredTags []string // machine-inferred subset of Tags

	DescriptionText  string
	CreatorNotesText string

	TagCount  int
	RaritySum float64

	Favorite            bool
	DateAdded           int64
	DateLastInteraction int64
	InteractionVolume   float64
	StorageSize         float64

	tagSet map[string]struct{}
}

// SetTags replaces the document's tag set. Tags are normalized,
// deduplicated, and stored sorted. Empty tags are dropped.
func (d *Document) SetTags(tags []string) {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}

	d.tagSet = set
	d.Tags = make([]string, 0, len(set))
	for tag := range set {
		d.Tags = append(d.Tags, tag)
	}
	sort.Strings(d.Tags)
	d.TagCount = len(d.Tags)
}

// AddInferredTags adds machine-inferred tags to the document's tag set,
// recording them separately so they remain distinguishable from
// source-declared tags. Tags already present are ignored.
// Returns the tags actually added.
func (d *Document) AddInferredTags(tags []string) []string {
	if d.tagSet == nil {
		d.tagSet = make(map[string]struct{})
	}

	added := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := NormalizeTag(tag)
		if normalized == "" {
			continue
		}
		if _, exists := d.tagSet[normalized]; exists {
			continue
		}
		d.tagSet[normalized] = struct{}{}
		d.Tags = append(d.Tags, normalized)
		d.InferredTags = append(d.InferredTags, normalized)
		added = append(added, normalized)
	}

	if len(added) > 0 {
		sort.Strings(d.Tags)
		sort.Strings(d.InferredTags)
		d.TagCount = len(d.Tags)
	}

	return added
}

// HasTag reports whether the normalized form of tag is in the document's
// tag set.
func (d *Document) HasTag(tag string) bool {
	_, ok := d.tagSet[NormalizeTag(tag)]
	return ok
}

// IsInferred reports whether the tag was added by the augmentation pass
// rather than declared by the source payload.
func (d *Document) IsInferred(tag string) bool {
	normalized := NormalizeTag(tag)
	for _, t := range d.InferredTags {
		if t == normalized {
			return true
		}
	}
	return false
}

// SearchText returns the concatenated free-text fields used for text
// similarity and body substring matching.
func (d *Document) SearchText() string {
	if d.CreatorNotesText == "" {
		return d.DescriptionText
	}
	if d.DescriptionText == "" {
		return d.CreatorNotesText
	}
	return d.CreatorNotesText + "\n" + d.DescriptionText
}
