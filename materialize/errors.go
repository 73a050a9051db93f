/* Copyright 2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package materialize

import (
	"strings"

	"github.com/Comcast/treexf/tree"
)

// AmbiguousFactoryError occurs when building a resolver finds two
// constructors for the same output type.
type AmbiguousFactoryError struct {
	Type   tree.Type
	First  string
	Second string
}

func (e *AmbiguousFactoryError) Error() string {
	return `ambiguous factory for "` + string(e.Type) + `": ` + e.First + " and " + e.Second
}

// MissingFactoryError occurs when no Factory is known for a tag seen
// during materialization.
type MissingFactoryError struct {
	Type tree.Type
}

func (e *MissingFactoryError) Error() string {
	return `no factory for "` + string(e.Type) + `"`
}

// ConstructionError wraps a Factory failure.  ArgTypes lists the Go
// types of the materialized arguments.
type ConstructionError struct {
	Type     tree.Type
	ArgTypes []string
	Err      error
}

func (e *ConstructionError) Error() string {
	return "constructing " + string(e.Type) + "(" + strings.Join(e.ArgTypes, ", ") + "): " + e.Err.Error()
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
