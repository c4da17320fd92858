package ingest

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// RawDocument is a single card record as delivered by the data producer.
// Scalar fields are decoded coercively (numbers arriving as strings, ints
// as floats); missing fields take their zero value.
type RawDocument struct {
	ID                  string   `mapstructure:"id"`
	Name                string   `mapstructure:"name"`
	CreatorName         string   `mapstructure:"creatorName"`
	AvatarPath          string   `mapstructure:"avatarPath"`
	Tags                []string `mapstructure:"tags"`
	Description         string   `mapstructure:"description"`
	CreatorNotes        string   `mapstructure:"creatorNotes"`
	Favorite            bool     `mapstructure:"favorite"`
	DateAdded           float64  `mapstructure:"dateAdded"`
	DateLastInteraction float64  `mapstructure:"dateLastInteraction"`
	InteractionVolume   float64  `mapstructure:"interactionVolume"`
	StorageSize         float64  `mapstructure:"storageSize"`
}

// RawTag is a tag catalog entry.
type RawTag struct {
	Name string `mapstructure:"name"`
}

// Payload is the one-shot ingestion payload: the card records, the tag
// catalog, and a map from asset path to externally associated tags.
type Payload struct {
	Documents   []RawDocument       `mapstructure:"documents" validate:"required"`
	TagCatalog  []RawTag            `mapstructure:"tagCatalog" validate:"required"`
	AssetTagMap map[string][]string `mapstructure:"assetTagMap"`
}

var payloadValidator = validator.New()

// DecodePayload converts a loosely typed payload object (typically the
// result of decoding JSON into any) into a typed Payload.
//
// Shape violations are aggregated into a single *SchemaError: a payload
// whose tagCatalog field is a string and whose documents field is missing
// reports both problems at once. Individual records that cannot be decoded
// are dropped and returned as per-record errors; they never abort the
// payload as a whole.
func DecodePayload(raw any) (*Payload, []error, error) {
	if raw == nil {
		return nil, nil, ErrPayloadRequired
	}

	var violations []string

	m, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, &SchemaError{Violations: []string{"payload is not map-like"}}
	}

	// Pre-check the three top-level fields so each mismatch is reported
	// by name rather than as a generic decode failure. Mis-shaped fields
	// are recorded and stripped rather than aborting here, so that the
	// required-field pass below still contributes its violations.
	badShape := make(map[string]bool)
	if v, present := m["documents"]; present {
		if _, isArray := v.([]any); !isArray {
			violations = append(violations, "documents is not an array")
			badShape["Documents"] = true
		}
	}
	if v, present := m["tagCatalog"]; present {
		if _, isArray := v.([]any); !isArray {
			violations = append(violations, "tagCatalog is not an array")
			badShape["TagCatalog"] = true
		}
	}
	if v, present := m["assetTagMap"]; present && v != nil {
		if _, isMap := v.(map[string]any); !isMap {
			violations = append(violations, "assetTagMap is not map-like")
			badShape["AssetTagMap"] = true
		}
	}

	var recordErrs []error
	var kept []any
	dropped := false
	if docs, isArray := m["documents"].([]any); isArray {
		kept = make([]any, 0, len(docs))
		for i, elem := range docs {
			if _, isMap := elem.(map[string]any); !isMap {
				recordErrs = append(recordErrs,
					fmt.Errorf("record %d: not an object (%T)", i, elem))
				continue
			}
			kept = append(kept, elem)
		}
		dropped = len(kept) != len(docs)
	}

	if len(badShape) > 0 || dropped {
		// shallow copy so the caller's payload object stays untouched
		patched := make(map[string]any, len(m))
		for k, v := range m {
			patched[k] = v
		}
		if dropped {
			patched["documents"] = kept
		}
		for field, key := range map[string]string{
			"Documents":   "documents",
			"TagCatalog":  "tagCatalog",
			"AssetTagMap": "assetTagMap",
		} {
			if badShape[field] {
				delete(patched, key)
			}
		}
		m = patched
	}

	payload := &Payload{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           payload,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("building payload decoder: %w", err)
	}

	if err := decoder.Decode(m); err != nil {
		// mapstructure aggregates its field errors already
		if merr, isAgg := err.(*mapstructure.Error); isAgg {
			violations = append(violations, merr.Errors...)
		} else {
			violations = append(violations, err.Error())
		}
		return nil, nil, &SchemaError{Violations: violations}
	}

	if err := payloadValidator.Struct(payload); err != nil {
		verrs, isAgg := err.(validator.ValidationErrors)
		if !isAgg {
			return nil, nil, err
		}
		for _, verr := range verrs {
			// a stripped mis-shaped field is already reported once
			if badShape[verr.Field()] {
				continue
			}
			violations = append(violations,
				fmt.Sprintf("%s failed %q validation", verr.Field(), verr.Tag()))
		}
	}

	if len(violations) > 0 {
		return nil, nil, &SchemaError{Violations: violations}
	}

	return payload, recordErrs, nil
}
