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


package ingest

import (
	"errors"
	"strings"
)

var (
	// ErrPayloadRequired is returned when a nil payload is offered.
	ErrPayloadRequired = errors.New("payload required")

	// ErrPayloadShape is the sentinel wrapped by every SchemaError.
	ErrPayloadShape = errors.New("payload shape invalid")
)

// SchemaError reports that the payload failed shape validation. It
// aggregates all violations found, not just the first.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "payload shape invalid: " + strings.Join(e.Violations, "; ")
}

// Is makes SchemaError matchable against ErrPayloadShape with errors.Is.
func (e *SchemaError) Is(target error) bool {
	return target == ErrPayloadShape
}
