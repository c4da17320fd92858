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


package cardex

import "errors"

var (
	// ErrNotReady is returned when a query runs before a payload has been
	// ingested and indexed.
	ErrNotReady = errors.New("engine not ready")

	// ErrBusy is returned when a query runs while an exclusive-write phase
	// (augmentation) is in progress.
	ErrBusy = errors.New("engine busy")

	// ErrUnknownDocument is returned when a document id does not exist in
	// the corpus.
	ErrUnknownDocument = errors.New("unknown document")
)
