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


// Package similarity scores document pairs under a selectable tag-set
// metric, a selectable text metric, or an alpha-blended combination of
// both, and ranks a candidate list against a reference document.
//
// Each metric kind is a pure function registered in a lookup table, so
// the dispatch is exhaustive and each metric is testable in isolation.
// All set metrics are bounded to [0,1] except overlap, which is an
// unbounded additive score.
package similarity
