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

// Package rewrite applies lists of Transformations to trees until
// nothing changes.
//
// The engine does no cycle detection.  A rule set that keeps
// rewriting (say, a commutativity rule) will loop forever, and a rule
// set whose result depends on rule order is not made confluent.
// Termination and confluence are properties of a rule set, and the
// tests for a rule set should check them.
package rewrite

import (
	"github.com/Comcast/treexf/tree"
)

// Rewriter rewrites a term.
type Rewriter interface {
	Transform(m *tree.Match, root tree.Node) (tree.Node, error)
}

// TreeTransformer applies an ordered rule list to a term, bottom-up,
// until a fixpoint.
type TreeTransformer struct {
	Name string `json:"name,omitempty" yaml:",omitempty"`
	Doc  string `json:"doc,omitempty" yaml:",omitempty"`

	Rules []*Transformation `json:"rules" yaml:"rules"`

	// Tracer, if not nil, hears about every rule that fires.
	Tracer Tracer `json:"-" yaml:"-"`
}

// NewTreeTransformer makes a TreeTransformer with the given rules.
func NewTreeTransformer(rules ...*Transformation) *TreeTransformer {
	return &TreeTransformer{
		Rules: rules,
	}
}

// Stats reports what a Transform did.
type Stats struct {
	// Passes is the number of full passes, including the last one
	// that changed nothing.
	Passes int `json:"passes"`

	// Firings counts successful rule applications by rule name.
	// Anonymous rules are counted under "".
	Firings map[string]int `json:"firings"`
}

// Total is the number of rule firings.
func (s *Stats) Total() int {
	n := 0
	for _, k := range s.Firings {
		n += k
	}
	return n
}

// Transform rewrites the given term until a full pass changes
// nothing and returns the result.
//
// The term is owned by the transformer for the duration of the call
// and is mutated in place.  Change is detected by node identity.
func (tt *TreeTransformer) Transform(m *tree.Match, root tree.Node) (tree.Node, error) {
	n, _, err := tt.TransformWithStats(m, root)
	return n, err
}

// TransformWithStats is Transform that also reports Stats.
func (tt *TreeTransformer) TransformWithStats(m *tree.Match, root tree.Node) (tree.Node, *Stats, error) {
	stats := &Stats{
		Firings: make(map[string]int, len(tt.Rules)),
	}
	if err := tree.CheckTerm(root); err != nil {
		return nil, stats, err
	}

	result := root
	for {
		stats.Passes++
		p := &pass{
			tt:    tt,
			m:     m,
			stats: stats,
		}
		next, err := p.rewrite(result)
		if err != nil {
			return nil, stats, err
		}
		result = next
		if !p.changed {
			return result, stats, nil
		}
	}
}

// pass is one post-order walk over the whole term.
type pass struct {
	tt      *TreeTransformer
	m       *tree.Match
	stats   *Stats
	changed bool
}

// rewrite rewrites the children of n in place and then runs every
// rule, in order, on n.  Each rule sees the output of the previous
// one.
func (p *pass) rewrite(n tree.Node) (tree.Node, error) {
	for i := 0; i < n.Size(); i++ {
		c := n.Child(i)
		x, err := p.rewrite(c)
		if err != nil {
			return nil, err
		}
		if x != c {
			n.SetChild(i, x)
		}
	}

	out := n
	for _, rule := range p.tt.Rules {
		in := out
		x, fired, err := rule.replace(p.m, in)
		if err != nil {
			return nil, err
		}
		if fired {
			p.stats.Firings[rule.Name]++
			if p.tt.Tracer != nil {
				p.tt.Tracer.Trace(rule, in, x)
			}
		}
		out = x
	}

	if out != n {
		p.changed = true
	}
	return out, nil
}

// Chain runs several Rewriters in order, each to its own fixpoint.
type Chain []Rewriter

func (c Chain) Transform(m *tree.Match, root tree.Node) (tree.Node, error) {
	var err error
	for _, r := range c {
		if root, err = r.Transform(m, root); err != nil {
			return nil, err
		}
	}
	return root, nil
}
