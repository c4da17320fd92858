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


// Package index builds the read-only index structures of a corpus:
//
//   - TagIndex: inverted tag index, document-frequency table, and IDF
//     (tag rarity) table, built through a commutative accumulator so the
//     result is identical regardless of document iteration order.
//   - TokenIndex: token postings over name and creator fields for
//     intersection-based token search.
//   - TextIndex: BM25-weighted sparse vectors over the descriptive
//     free-text fields, with stop-word filtering and unigram+bigram
//     tokenization.
//
// All indexes are immutable once built.
package index
