package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty id",
			doc:     &Document{},
			wantErr: ErrEmptyID,
		},
		{
			name:    "valid minimal document",
			doc:     &Document{ID: "doc1"},
			wantErr: nil,
		},
		{
			name:    "empty tag",
			doc:     &Document{ID: "doc1", Tags: []string{"a", ""}},
			wantErr: ErrEmptyTag,
		},
		{
			name:    "duplicate tag",
			doc:     &Document{ID: "doc1", Tags: []string{"a", "b", "a"}},
			wantErr: ErrDuplicateTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocument_SetTagsAlwaysValid(t *testing.T) {
	doc := &Document{ID: "doc1"}
	doc.SetTags([]string{"A", "a", "", " b "})

	if err := ValidateDocument(doc); err != nil {
		t.Errorf("documents built via SetTags must validate, got %v", err)
	}
}
