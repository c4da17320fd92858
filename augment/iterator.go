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


package augment

import (
	"context"

	"github.com/poiesic/cardex/core"
)

const (
	// DefaultBatchSize is the default number of documents per batch
	DefaultBatchSize = 200
)

// DocumentIterator iterates over a document slice in batches.
type DocumentIterator struct {
	docs      []*core.Document
	batchSize int
}

// NewDocumentIterator creates a new document iterator.
// batchSize: number of documents in each batch (must be > 0)
func NewDocumentIterator(docs []*core.Document, batchSize int) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &DocumentIterator{
		docs:      docs,
		batchSize: batchSize,
	}
}

// ForEach iterates over all documents, calling fn for each batch.
// Batches are strictly sequential: batch k completes before batch k+1
// starts. Iteration stops on the first error from fn. Context
// cancellation is checked between batches, never mid-batch.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Document) error) error {
	if len(it.docs) == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for i := 0; i < len(it.docs); i += it.batchSize {
		end := i + it.batchSize
		if end > len(it.docs) {
			end = len(it.docs)
		}

		if err := fn(it.docs[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
