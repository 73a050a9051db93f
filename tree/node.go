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

// Package tree implements the node model used by the rewriting
// engine: structural expressions, literal values, capture variables,
// fresh-identifier placeholders, and the binding environment that a
// single match attempt writes into.
//
// A tree plays one of two roles.  A pattern (or replacement) may
// contain captures and placeholders.  A term, which is what patterns
// are matched against, contains only Exprs and Values.  Matching is
// always pattern.Match(env, term).
package tree

import (
	"bytes"
)

// Kind is the structural kind of a Node.
type Kind int

const (
	// ExprKind nodes are structural: a type tag and children.
	// ExprCaptures also report this kind since they stand for an
	// Expr.
	ExprKind Kind = iota

	// ValueKind nodes are scalar leaves.  ValueCaptures and NewID
	// placeholders report this kind.
	ValueKind
)

func (k Kind) String() string {
	switch k {
	case ExprKind:
		return "expr"
	case ValueKind:
		return "value"
	default:
		return "unknown"
	}
}

// Type is the type tag of an Expr.
//
// Tags are plain strings so that callers can extend the tag set
// without touching this package.  Materialization resolves a Type to
// a constructor.
type Type string

// Node is an element of a pattern, replacement, or term tree.
//
// All implementations in this package are pointer types, so two
// Nodes can be compared by identity with ==.  The rewriting engine
// relies on that to detect change.
type Node interface {
	// Kind reports the structural kind.
	Kind() Kind

	// Size is the number of children.  Leaves have zero.
	Size() int

	// Child returns the i-th child.  Panics with an *IndexError
	// if i is out of range.
	Child(i int) Node

	// SetChild replaces the i-th child in place.  Panics with an
	// *IndexError if i is out of range.
	SetChild(i int, n Node)

	// Match reports whether the candidate term matches this node
	// when this node is used as a pattern.  Bindings made along the
	// way are written to env.
	Match(env Env, candidate Node) (bool, error)

	// Find searches this node and its descendants, in pre-order,
	// for the first subtree matched by the given pattern.  Returns
	// nil if there is none.
	Find(env Env, pattern Node) (Node, error)

	// Expand builds a fresh term from this node, used as a
	// replacement, and the bindings in env.
	Expand(env Env) (Node, error)

	// AppendTo writes the debug rendering of this node.
	AppendTo(buf *bytes.Buffer)
}

// Matches calls pattern.Match(env, candidate) if the two nodes have the
// same kind.  A NewID pattern always fails with a *PatternError.
func Matches(env Env, pattern, candidate Node) (bool, error) {
	if p, is := pattern.(*NewID); is {
		return p.Match(env, candidate)
	}
	if pattern.Kind() != candidate.Kind() {
		return false, nil
	}
	return pattern.Match(env, candidate)
}

// Find searches the given term for the first subtree that matches
// the pattern.
//
// The search is pre-order and returns the first hit only.  There
// is no backtracking: bindings made while testing a subtree that
// fails to match are not undone.  Callers that care should probe with
// a FinalMatch.
func Find(env Env, term, pattern Node) (Node, error) {
	matched, err := Matches(env, pattern, term)
	if err != nil {
		return nil, err
	}
	if matched {
		return term, nil
	}
	for i := 0; i < term.Size(); i++ {
		found, err := Find(env, term.Child(i), pattern)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}

// String renders the given node with AppendTo.
func String(n Node) string {
	if n == nil {
		return "nil"
	}
	var buf bytes.Buffer
	n.AppendTo(&buf)
	return buf.String()
}

// CheckTerm verifies that the given tree contains no captures or
// placeholders.
func CheckTerm(n Node) error {
	switch vv := n.(type) {
	case *Expr:
		for _, c := range vv.children {
			if err := CheckTerm(c); err != nil {
				return err
			}
		}
		return nil
	case *Value:
		return nil
	case nil:
		return &PatternError{Reason: "nil node in term"}
	default:
		return &PatternError{Node: n, Reason: "pattern node " + String(n) + " in term"}
	}
}

// leaf provides the child accessors for nodes without children.
type leaf struct{}

func (leaf) Size() int {
	return 0
}

func (leaf) Child(i int) Node {
	panic(&IndexError{Index: i, Size: 0})
}

func (leaf) SetChild(i int, n Node) {
	panic(&IndexError{Index: i, Size: 0})
}
