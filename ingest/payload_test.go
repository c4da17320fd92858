package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	t.Run("nil payload", func(t *testing.T) {
		_, _, err := DecodePayload(nil)
		assert.Equal(t, ErrPayloadRequired, err)
	})

	t.Run("not map-like", func(t *testing.T) {
		_, _, err := DecodePayload("nope")
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.True(t, errors.Is(err, ErrPayloadShape))
	})

	t.Run("valid payload", func(t *testing.T) {
		payload, recordErrs, err := DecodePayload(map[string]any{
			"documents": []any{
				map[string]any{
					"id":   "doc1",
					"name": "Alice",
					"tags": []any{"Fantasy", "Adventure"},
				},
			},
			"tagCatalog": []any{
				map[string]any{"name": "fantasy"},
			},
			"assetTagMap": map[string]any{
				"avatars/alice.png": []any{"heroine"},
			},
		})
		require.NoError(t, err)
		assert.Empty(t, recordErrs)
		require.Len(t, payload.Documents, 1)
		assert.Equal(t, "doc1", payload.Documents[0].ID)
		assert.Equal(t, []string{"Fantasy", "Adventure"}, payload.Documents[0].Tags)
		assert.Equal(t, []string{"heroine"}, payload.AssetTagMap["avatars/alice.png"])
	})

	t.Run("aggregates shape violations", func(t *testing.T) {
		_, _, err := DecodePayload(map[string]any{
			"documents":   "not an array",
			"tagCatalog":  42,
			"assetTagMap": "not a map",
		})
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Len(t, schemaErr.Violations, 3)
	})

	t.Run("shape and required violations aggregate", func(t *testing.T) {
		// a mis-typed tagCatalog must not mask the missing documents field
		_, _, err := DecodePayload(map[string]any{
			"tagCatalog": "not an array",
		})
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		require.Len(t, schemaErr.Violations, 2)
		assert.Contains(t, schemaErr.Violations, "tagCatalog is not an array")
		assert.Contains(t, schemaErr.Violations, `Documents failed "required" validation`)
	})

	t.Run("stripped field is reported once", func(t *testing.T) {
		_, _, err := DecodePayload(map[string]any{
			"documents":  "not an array",
			"tagCatalog": []any{},
		})
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"documents is not an array"}, schemaErr.Violations)
	})

	t.Run("missing documents is a schema error", func(t *testing.T) {
		_, _, err := DecodePayload(map[string]any{
			"tagCatalog": []any{},
		})
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("empty arrays are valid", func(t *testing.T) {
		payload, recordErrs, err := DecodePayload(map[string]any{
			"documents":  []any{},
			"tagCatalog": []any{},
		})
		require.NoError(t, err)
		assert.Empty(t, recordErrs)
		assert.Empty(t, payload.Documents)
	})

	t.Run("non-object record is dropped, not fatal", func(t *testing.T) {
		payload, recordErrs, err := DecodePayload(map[string]any{
			"documents": []any{
				map[string]any{"id": "doc1"},
				"garbage",
				map[string]any{"id": "doc2"},
			},
			"tagCatalog": []any{},
		})
		require.NoError(t, err)
		require.Len(t, recordErrs, 1)
		require.Len(t, payload.Documents, 2)
		assert.Equal(t, "doc1", payload.Documents[0].ID)
		assert.Equal(t, "doc2", payload.Documents[1].ID)
	})

	t.Run("coercive scalar decode", func(t *testing.T) {
		payload, _, err := DecodePayload(map[string]any{
			"documents": []any{
				map[string]any{
					"id":        "doc1",
					"dateAdded": "1700000000",
					"favorite":  1,
				},
			},
			"tagCatalog": []any{},
		})
		require.NoError(t, err)
		require.Len(t, payload.Documents, 1)
		assert.Equal(t, float64(1700000000), payload.Documents[0].DateAdded)
		assert.True(t, payload.Documents[0].Favorite)
	})
}
