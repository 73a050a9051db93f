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
)

// ExprCapture is a named variable that binds an Expr subtree.
//
// The first occurrence of a capture in a match attempt binds it.
// Every later occurrence must structurally match what is already
// bound.  Captures never rebind.
type ExprCapture struct {
	leaf

	Name string

	// Exclude lists forbidden patterns.  A candidate that contains
	// a match for any of them, at its root or below, is rejected.
	//
	// The search runs through a FinalMatch, so a forbidden pattern
	// may refer to captures bound earlier in the same attempt but
	// cannot bind new ones.
	Exclude []Node

	// Accept, if not nil, further restricts which Exprs the
	// capture will bind.
	Accept func(env Env, candidate Node) (bool, error)

	// Rewrite, if not nil, post-processes the expanded binding.
	Rewrite func(env Env, n Node) (Node, error)
}

// NewExprCapture makes a plain ExprCapture.
func NewExprCapture(name string) *ExprCapture {
	return &ExprCapture{Name: name}
}

// ExcludeExpr makes an ExprCapture that rejects any candidate
// containing one of the forbidden patterns.
func ExcludeExpr(name string, forbidden ...Node) *ExprCapture {
	return &ExprCapture{
		Name:    name,
		Exclude: forbidden,
	}
}

func (c *ExprCapture) Kind() Kind {
	return ExprKind
}

func (c *ExprCapture) Match(env Env, candidate Node) (bool, error) {
	if bound, have := env.Binding(c.Name); have {
		return Matches(env, bound, candidate)
	}
	if _, is := candidate.(*Expr); !is {
		return false, nil
	}
	ok, err := c.accept(env, candidate)
	if err != nil || !ok {
		return false, err
	}
	if err := env.Bind(c.Name, candidate); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ExprCapture) accept(env Env, candidate Node) (bool, error) {
	if 0 < len(c.Exclude) {
		probe := NewFinalMatch(env)
		for _, forbidden := range c.Exclude {
			found, err := Find(probe, candidate, forbidden)
			if err != nil {
				return false, err
			}
			if found != nil {
				return false, nil
			}
		}
	}
	if c.Accept != nil {
		return c.Accept(env, candidate)
	}
	return true, nil
}

func (c *ExprCapture) Find(env Env, pattern Node) (Node, error) {
	return nil, &PatternError{Node: c, Reason: "capture <" + c.Name + "> searched as a term"}
}

// Expand expands the bound subtree and applies Rewrite, if any.
func (c *ExprCapture) Expand(env Env) (Node, error) {
	bound, have := env.Binding(c.Name)
	if !have {
		return nil, &UnboundError{Name: c.Name}
	}
	n, err := bound.Expand(env)
	if err != nil {
		return nil, err
	}
	if c.Rewrite != nil {
		return c.Rewrite(env, n)
	}
	return n, nil
}

func (c *ExprCapture) AppendTo(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(c.Name)
	buf.WriteByte('>')
}

func (c *ExprCapture) String() string {
	return String(c)
}

// ValueCapture is the scalar counterpart of ExprCapture.
type ValueCapture struct {
	leaf

	Name string

	// Accept, if not nil, restricts which scalars the capture will
	// bind.  The default accepts everything.
	Accept func(x interface{}) (bool, error)

	// Transform, if not nil, maps the bound scalar on expansion.
	// The default is the identity.
	Transform func(x interface{}) (interface{}, error)
}

// NewValueCapture makes a plain ValueCapture.
func NewValueCapture(name string) *ValueCapture {
	return &ValueCapture{Name: name}
}

func (c *ValueCapture) Kind() Kind {
	return ValueKind
}

func (c *ValueCapture) Match(env Env, candidate Node) (bool, error) {
	if bound, have := env.Binding(c.Name); have {
		return Matches(env, bound, candidate)
	}
	v, is := candidate.(*Value)
	if !is {
		return false, nil
	}
	if c.Accept != nil {
		ok, err := c.Accept(v.x)
		if err != nil || !ok {
			return false, err
		}
	}
	if err := env.Bind(c.Name, candidate); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ValueCapture) Find(env Env, pattern Node) (Node, error) {
	return nil, &PatternError{Node: c, Reason: "capture <" + c.Name + "> searched as a term"}
}

func (c *ValueCapture) Expand(env Env) (Node, error) {
	bound, have := env.Binding(c.Name)
	if !have {
		return nil, &UnboundError{Name: c.Name}
	}
	if c.Transform == nil {
		return bound.Expand(env)
	}
	v, is := bound.(*Value)
	if !is {
		return nil, &PatternError{Node: c, Reason: "capture <" + c.Name + "> is bound to a non-value " + String(bound)}
	}
	x, err := c.Transform(v.x)
	if err != nil {
		return nil, err
	}
	return NewValue(x), nil
}

func (c *ValueCapture) AppendTo(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(c.Name)
	buf.WriteByte('>')
}

func (c *ValueCapture) String() string {
	return String(c)
}

// NewID is a placeholder for a freshly generated identifier.  It may
// only appear in replacements.
//
// Every occurrence of the same placeholder within one expansion
// yields the same identifier.  Separate match attempts yield
// different identifiers.
type NewID struct {
	leaf

	Name string
}

// NewIDReplacement makes a NewID placeholder.
func NewIDReplacement(name string) *NewID {
	return &NewID{Name: name}
}

func (p *NewID) Kind() Kind {
	return ValueKind
}

func (p *NewID) Match(env Env, candidate Node) (bool, error) {
	return false, p.misplaced()
}

func (p *NewID) Find(env Env, pattern Node) (Node, error) {
	return nil, p.misplaced()
}

func (p *NewID) misplaced() error {
	return &PatternError{Node: p, Reason: "{" + p.Name + "} must only appear in a replacement"}
}

// Expand returns a string Value holding the identifier.
func (p *NewID) Expand(env Env) (Node, error) {
	return NewValue(env.NewID(p.Name)), nil
}

func (p *NewID) AppendTo(buf *bytes.Buffer) {
	buf.WriteByte('{')
	buf.WriteString(p.Name)
	buf.WriteByte('}')
}

func (p *NewID) String() string {
	return String(p)
}
