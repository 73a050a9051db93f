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
	"bytes"
	"unicode"
	"unicode/utf8"
)

// Expr is a structural node: a type tag and an ordered list of
// children.
type Expr struct {
	Type     Type
	children []Node
}

// NewExpr makes an Expr.  The children slice is copied.
func NewExpr(t Type, children ...Node) *Expr {
	cs := make([]Node, len(children))
	copy(cs, children)
	return &Expr{
		Type:     t,
		children: cs,
	}
}

func (e *Expr) Kind() Kind {
	return ExprKind
}

func (e *Expr) Size() int {
	return len(e.children)
}

func (e *Expr) Child(i int) Node {
	if i < 0 || len(e.children) <= i {
		panic(&IndexError{Index: i, Size: len(e.children)})
	}
	return e.children[i]
}

func (e *Expr) SetChild(i int, n Node) {
	if i < 0 || len(e.children) <= i {
		panic(&IndexError{Index: i, Size: len(e.children)})
	}
	e.children[i] = n
}

// Children returns a copy of the child list.
func (e *Expr) Children() []Node {
	acc := make([]Node, len(e.children))
	copy(acc, e.children)
	return acc
}

// Match requires an Expr candidate with the same type tag and arity
// whose children match pairwise, left to right.  The first child that
// fails aborts the match.  Bindings made by earlier children stay in
// env.
func (e *Expr) Match(env Env, candidate Node) (bool, error) {
	c, is := candidate.(*Expr)
	if !is {
		return false, nil
	}
	if e.Type != c.Type || len(e.children) != len(c.children) {
		return false, nil
	}
	for i, p := range e.children {
		matched, err := Matches(env, p, c.children[i])
		if err != nil || !matched {
			return false, err
		}
	}
	return true, nil
}

func (e *Expr) Find(env Env, pattern Node) (Node, error) {
	return Find(env, e, pattern)
}

// Expand builds a new Expr with the same type tag from the expansions
// of the children.
func (e *Expr) Expand(env Env) (Node, error) {
	acc := make([]Node, len(e.children))
	for i, c := range e.children {
		x, err := c.Expand(env)
		if err != nil {
			return nil, err
		}
		acc[i] = x
	}
	return &Expr{
		Type:     e.Type,
		children: acc,
	}, nil
}

func (e *Expr) AppendTo(buf *bytes.Buffer) {
	buf.WriteString(lowerCamel(string(e.Type)))
	buf.WriteByte('(')
	for i, c := range e.children {
		if 0 < i {
			buf.WriteString(", ")
		}
		c.AppendTo(buf)
	}
	buf.WriteByte(')')
}

func (e *Expr) String() string {
	return String(e)
}

func lowerCamel(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}
