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

import "errors"

var (
	// ErrTagIndexRequired is returned when a tag index is not provided.
	ErrTagIndexRequired = errors.New("tag index required")

	// ErrInvalidNGramRange is returned when the configured n-gram floor
	// exceeds the ceiling.
	ErrInvalidNGramRange = errors.New("invalid n-gram range")
)
