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

import (
	"strconv"

	"github.com/google/uuid"
)

// Env is the binding environment of one match attempt.
//
// Captures and placeholders are keyed by name.  Two capture nodes with
// the same name denote the same variable.
type Env interface {
	// Bind binds the named capture to the given node.
	Bind(name string, n Node) error

	// Binding returns the node bound to the named capture, if any.
	Binding(name string) (Node, bool)

	// NewID returns the fresh identifier for the named placeholder.
	// Repeated calls return the same identifier until Clear.
	NewID(name string) string

	// Clear forgets all bindings and identifiers.
	Clear()

	// Sub makes a new, empty Match that draws identifiers from the
	// same generator.
	Sub() *Match
}

// IDGenerator makes fresh identifiers for NewID placeholders.
type IDGenerator interface {
	Next(name string) string
}

// Counter is the default IDGenerator.  It appends a sequence number
// to the placeholder name.
type Counter struct {
	n int
}

func (c *Counter) Next(name string) string {
	c.n++
	return name + strconv.Itoa(c.n)
}

// UUIDs is an IDGenerator that appends a random UUID, which is handy
// when generated names must not collide across separate runs.
type UUIDs struct{}

func (UUIDs) Next(name string) string {
	return name + "_" + uuid.New().String()
}

// Match is the binding store for a match attempt.
//
// A Match is reused sequentially, and Clear must be called before
// every fresh top-level attempt.  The rewriting engine does that.
// The identifier generator is never reset, so two attempts on the
// same Match never hand out the same identifier.
type Match struct {
	IDs IDGenerator

	bindings map[string]Node
	ids      map[string]string
}

// NewMatch makes a Match with a Counter.
func NewMatch() *Match {
	return NewMatchWith(&Counter{})
}

// NewMatchWith makes a Match with the given generator.
func NewMatchWith(ids IDGenerator) *Match {
	return &Match{
		IDs:      ids,
		bindings: make(map[string]Node, 8),
		ids:      make(map[string]string, 2),
	}
}

func (m *Match) Bind(name string, n Node) error {
	m.bindings[name] = n
	return nil
}

func (m *Match) Binding(name string) (Node, bool) {
	n, have := m.bindings[name]
	return n, have
}

func (m *Match) NewID(name string) string {
	if id, have := m.ids[name]; have {
		return id
	}
	if m.IDs == nil {
		m.IDs = &Counter{}
	}
	id := m.IDs.Next(name)
	m.ids[name] = id
	return id
}

func (m *Match) Clear() {
	for k := range m.bindings {
		delete(m.bindings, k)
	}
	for k := range m.ids {
		delete(m.ids, k)
	}
}

func (m *Match) Sub() *Match {
	return NewMatchWith(m.IDs)
}

// Bindings returns a shallow copy of the current bindings.
func (m *Match) Bindings() map[string]Node {
	acc := make(map[string]Node, len(m.bindings))
	for k, n := range m.bindings {
		acc[k] = n
	}
	return acc
}

// FinalMatch is a read-only view of an Env.
//
// Bind fails with ErrUnmodifiable, and Clear does nothing, so a probe
// run through a FinalMatch can neither add bindings nor wipe the
// bindings of the attempt it is part of.
type FinalMatch struct {
	env Env
}

// NewFinalMatch wraps the given Env.
func NewFinalMatch(env Env) *FinalMatch {
	if fm, is := env.(*FinalMatch); is {
		return fm
	}
	return &FinalMatch{env: env}
}

func (fm *FinalMatch) Bind(name string, n Node) error {
	return ErrUnmodifiable
}

func (fm *FinalMatch) Binding(name string) (Node, bool) {
	return fm.env.Binding(name)
}

func (fm *FinalMatch) NewID(name string) string {
	return fm.env.NewID(name)
}

func (fm *FinalMatch) Clear() {
}

func (fm *FinalMatch) Sub() *Match {
	return fm.env.Sub()
}
