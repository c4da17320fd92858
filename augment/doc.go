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


// Package augment implements probable-tag augmentation via n-gram
// co-occurrence.
//
// The pass builds a corpus-wide map from text n-gram to document
// frequency and per-tag co-occurrence counts, then scores each tag a
// document does not already carry as the sum of P(tag|g) over the
// n-grams present in that document's text. Tags that clear a score
// threshold with evidence from enough distinct n-grams are added to the
// document as machine-inferred tags, up to a per-document cap.
//
// The pass runs in fixed-size batches with cooperative cancellation at
// batch boundaries. After all documents are scored, the derived tag
// count and rarity sum of every mutated document are recomputed using
// the IDF table that was current when the pass started.
package augment
