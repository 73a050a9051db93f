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

package tree

// These errors report programming or configuration mistakes.  None
// of them is worth retrying.

import (
	"errors"
	"strconv"
)

// ErrUnmodifiable is returned when something tries to bind a capture
// through a FinalMatch.
var ErrUnmodifiable = errors.New("match is unmodifiable")

// PatternError occurs when a node is used in a role it cannot play,
// such as a NewID placeholder on the matching side of a rule or a
// capture in a term.
type PatternError struct {
	Node   Node
	Reason string
}

func (e *PatternError) Error() string {
	return e.Reason
}

// UnboundError occurs when a replacement refers to a capture that the
// pattern did not bind.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string {
	return `capture "` + e.Name + `" is not bound`
}

// IndexError is the panic value for an out-of-range child index.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return "child index " + strconv.Itoa(e.Index) + " out of range [0," + strconv.Itoa(e.Size) + ")"
}
