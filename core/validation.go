// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Tags must contain no empty strings and no duplicates
//
// NOT validated (populated later):
//   - TagCount and RaritySum (derived during index construction)
//   - Name and CreatorName (may legitimately be empty)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}

	seen := make(map[string]struct{}, len(doc.Tags))
	for _, tag := range doc.Tags {
		if tag == "" {
			return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTag)
		}
		if _, dup := seen[tag]; dup {
			return fmt.Errorf("%w: %w: %q", ErrInvalidDocument, ErrDuplicateTag, tag)
		}
		seen[tag] = struct{}{}
	}

	return nil
}
