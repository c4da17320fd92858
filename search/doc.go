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


// Package search provides free-text search over the card corpus.
//
// The Searcher blends three signals into an additive relevance score:
//   - a name substring match (weighted highest)
//   - token membership in the name/creator token index
//   - substring matches in the descriptive body text (weighted lowest)
//
// Matched rows are ranked by descending score with a name-alphabetical
// tie-break. A document whose total score is zero for a non-empty query
// is excluded from the results.
package search
