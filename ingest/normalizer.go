package ingest

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/poiesic/cardex/core"
)

// spotCheckSample is how many leading records are inspected for missing
// fields when logging data-quality warnings.
const spotCheckSample = 5

// synthesizedIDWarning fires at most once per process; a payload with
// thousands of id-less records should not flood the log.
var synthesizedIDWarning sync.Once

// Corpus is the normalized document collection an engine instance is
// built over.
type Corpus struct {
	Documents   []*core.Document
	ByID        map[string]*core.Document
	TagUniverse []string
}

// Normalizer converts a decoded payload into a Corpus.
type Normalizer struct {
	logger *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
		return nil
	}
}

// NewNormalizer creates a new normalizer.
func NewNormalizer(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Normalize produces canonical documents from a decoded payload.
//
// Documents are deduplicated by id (first occurrence wins). A document's
// tag set is the union of its declared tags and any tags associated with
// its asset path, both normalized before union. Records that fail domain
// validation are skipped and their errors collected; one bad record never
// aborts the whole build.
func (n *Normalizer) Normalize(payload *Payload) (*Corpus, []error, error) {
	if payload == nil {
		return nil, nil, ErrPayloadRequired
	}

	n.spotCheck(payload)

	corpus := &Corpus{
		Documents: make([]*core.Document, 0, len(payload.Documents)),
		ByID:      make(map[string]*core.Document, len(payload.Documents)),
	}

	var recordErrs []error
	tagUniverse := make(map[string]struct{})

	for i := range payload.Documents {
		raw := &payload.Documents[i]

		id := raw.ID
		if id == "" {
			id = core.SynthesizeID(raw.AvatarPath, raw.Name)
			synthesizedIDWarning.Do(func() {
				n.logger.Warn("payload contains records without ids, synthesizing deterministically",
					"firstIndex", i, "name", raw.Name)
			})
		}

		if _, dup := corpus.ByID[id]; dup {
			// first occurrence wins
			continue
		}

		doc := &core.Document{
			ID:                  id,
			Name:                raw.Name,
			CreatorName:         raw.CreatorName,
			DescriptionText:     raw.Description,
			CreatorNotesText:    raw.CreatorNotes,
			Favorite:            raw.Favorite,
			DateAdded:           int64(raw.DateAdded),
			DateLastInteraction: int64(raw.DateLastInteraction),
			InteractionVolume:   raw.InteractionVolume,
			StorageSize:         raw.StorageSize,
		}

		tags := make([]string, 0, len(raw.Tags))
		tags = append(tags, raw.Tags...)
		if raw.AvatarPath != "" {
			tags = append(tags, payload.AssetTagMap[raw.AvatarPath]...)
		}
		doc.SetTags(tags)

		if err := core.ValidateDocument(doc); err != nil {
			recordErrs = append(recordErrs, fmt.Errorf("record %d: %w", i, err))
			n.logger.Warn("skipping invalid record", "index", i, "id", id, "err", err)
			continue
		}

		corpus.Documents = append(corpus.Documents, doc)
		corpus.ByID[id] = doc
		for _, tag := range doc.Tags {
			tagUniverse[tag] = struct{}{}
		}
	}

	for _, entry := range payload.TagCatalog {
		if tag := core.NormalizeTag(entry.Name); tag != "" {
			tagUniverse[tag] = struct{}{}
		}
	}

	corpus.TagUniverse = make([]string, 0, len(tagUniverse))
	for tag := range tagUniverse {
		corpus.TagUniverse = append(corpus.TagUniverse, tag)
	}
	sort.Strings(corpus.TagUniverse)

	return corpus, recordErrs, nil
}

// spotCheck samples the head of the payload for missing fields and logs a
// data-quality warning. Normalization proceeds regardless; decoded zero
// values stand in for whatever was absent.
func (n *Normalizer) spotCheck(payload *Payload) {
	sample := len(payload.Documents)
	if sample > spotCheckSample {
		sample = spotCheckSample
	}

	missingName, missingTags := 0, 0
	for i := 0; i < sample; i++ {
		if payload.Documents[i].Name == "" {
			missingName++
		}
		if payload.Documents[i].Tags == nil {
			missingTags++
		}
	}

	if missingName > 0 || missingTags > 0 {
		n.logger.Warn("payload sample has records with missing fields, using defaults",
			"sampled", sample, "missingName", missingName, "missingTags", missingTags)
	}
}
