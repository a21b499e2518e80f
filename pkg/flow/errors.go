// Copyright 2024 Antrea Authors
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

package flow

import (
	"errors"
	"fmt"
)

// ErrMalformedDescriptor is returned when a descriptor cannot be compiled at
// all. Callers should test for it with errors.Is.
var ErrMalformedDescriptor = errors.New("malformed flow descriptor")

// ConversionWarning records a single match field or action token that could
// not be converted. The offending field is wildcarded, or the offending token
// contributes no action.
type ConversionWarning struct {
	// Field is the match field name, or "actions" for an action token.
	Field string
	Value string
	Err   error
}

func (w ConversionWarning) String() string {
	return fmt.Sprintf("%s=%q: %v", w.Field, w.Value, w.Err)
}

func malformed(name string, format string, args ...interface{}) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedDescriptor, name, fmt.Sprintf(format, args...))
}
