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

package codec

import (
	"fmt"
	"io/ioutil"

	"github.com/jsccast/yaml"

	"github.com/Comcast/treexf/rewrite"
	"github.com/Comcast/treexf/script"
	"github.com/Comcast/treexf/tree"
)

// Library is a named collection of rule sets as written in a rule
// file.
type Library struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Libraries are script sources made available to every hook in
	// the library.
	Libraries []string `json:"libraries,omitempty" yaml:"libraries,omitempty"`

	RuleSets []*RuleSetSpec `json:"ruleSets" yaml:"ruleSets"`
}

// RuleSetSpec is the uncompiled form of a TreeTransformer.
type RuleSetSpec struct {
	Name  string      `json:"name" yaml:"name"`
	Doc   string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Rules []*RuleSpec `json:"rules" yaml:"rules"`
}

// RuleSpec is the uncompiled form of a Transformation.
type RuleSpec struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Doc         string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Pattern     interface{} `json:"pattern" yaml:"pattern"`
	Replacement interface{} `json:"replacement" yaml:"replacement"`
}

// ParseLibrary parses YAML (or JSON, which is YAML) source.
func ParseLibrary(src []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(src, &lib); err != nil {
		return nil, err
	}
	return &lib, nil
}

// ReadLibrary reads and parses a rule file.
func ReadLibrary(filename string) (*Library, error) {
	src, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lib, err := ParseLibrary(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return lib, nil
}

// RuleSet finds the named RuleSetSpec.
func (l *Library) RuleSet(name string) (*RuleSetSpec, bool) {
	for _, rs := range l.RuleSets {
		if rs.Name == name {
			return rs, true
		}
	}
	return nil, false
}

// CompileError reports a problem compiling a library.
type CompileError struct {
	RuleSet string
	Rule    string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("rule set %s: %s", e.RuleSet, e.Err)
	}
	return fmt.Sprintf("rule set %s, rule %s: %s", e.RuleSet, e.Rule, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// UnknownRuleSetError reports a transform reference to a rule set
// that the library doesn't have.
type UnknownRuleSetError struct {
	Name string
}

func (e *UnknownRuleSetError) Error() string {
	return "unknown rule set " + e.Name
}

// CycleError reports rule sets whose transform references lead back
// to themselves.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("rule set transform cycle %v", e.Path)
}

// Compiled holds the TreeTransformers compiled from a Library.
type Compiled struct {
	Library *Library
	ByName  map[string]*rewrite.TreeTransformer
}

// Get returns the named TreeTransformer.
func (c *Compiled) Get(name string) (*rewrite.TreeTransformer, error) {
	tt, have := c.ByName[name]
	if !have {
		return nil, &UnknownRuleSetError{Name: name}
	}
	return tt, nil
}

// Compile builds a TreeTransformer for every rule set.
//
// A transform capture may refer to any rule set in the library,
// including one defined later.  References that form a cycle,
// including a rule set that refers to itself, are rejected with a
// *CycleError.  The given interpreter, which may be nil, compiles script
// hooks; the library's own Libraries are added to it.
func (l *Library) Compile(interp *script.Interpreter) (*Compiled, error) {
	if interp == nil {
		interp = script.NewInterpreter()
	}
	interp = &script.Interpreter{
		Libraries: append(append([]string(nil), interp.Libraries...), l.Libraries...),
		Logger:    interp.Logger,
	}

	c := &Compiled{
		Library: l,
		ByName:  make(map[string]*rewrite.TreeTransformer, len(l.RuleSets)),
	}

	// Allocate every transformer first so that references resolve
	// regardless of order.
	for _, rs := range l.RuleSets {
		if rs.Name == "" {
			return nil, &CompileError{Err: fmt.Errorf("rule set without a name")}
		}
		if _, have := c.ByName[rs.Name]; have {
			return nil, &CompileError{RuleSet: rs.Name, Err: fmt.Errorf("duplicate rule set")}
		}
		tt := rewrite.NewTreeTransformer()
		tt.Name = rs.Name
		tt.Doc = rs.Doc
		c.ByName[rs.Name] = tt
	}

	refs := make(map[string][]string, len(l.RuleSets))
	for _, rs := range l.RuleSets {
		rs := rs
		d := &Decoder{
			Interpreter: interp,
			Rewriters: func(name string) (rewrite.Rewriter, error) {
				tt, have := c.ByName[name]
				if !have {
					return nil, &UnknownRuleSetError{Name: name}
				}
				refs[rs.Name] = append(refs[rs.Name], name)
				return tt, nil
			},
		}
		tt := c.ByName[rs.Name]
		for i, r := range rs.Rules {
			name := r.Name
			if name == "" {
				name = fmt.Sprintf("%s#%d", rs.Name, i)
			}
			t, err := d.Rule(r)
			if err != nil {
				return nil, &CompileError{RuleSet: rs.Name, Rule: name, Err: err}
			}
			t.Name = name
			tt.Rules = append(tt.Rules, t)
		}
	}

	if path := findCycle(l.RuleSets, refs); path != nil {
		return nil, &CompileError{RuleSet: path[0], Err: &CycleError{Path: path}}
	}

	return c, nil
}

// Rule decodes a single rule.
func (d *Decoder) Rule(r *RuleSpec) (*rewrite.Transformation, error) {
	p, err := d.Decode(r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern: %w", err)
	}
	if err := checkPattern(p); err != nil {
		return nil, fmt.Errorf("pattern: %w", err)
	}
	x, err := d.Decode(r.Replacement)
	if err != nil {
		return nil, fmt.Errorf("replacement: %w", err)
	}
	carryRewrites(x, patternRewrites(p, nil))
	t := rewrite.NewTransformation(p, x)
	t.Name = r.Name
	t.Doc = r.Doc
	return t, nil
}

// checkPattern rejects NewIDs in patterns, including in exclusions.
func checkPattern(n tree.Node) error {
	switch vv := n.(type) {
	case *tree.NewID:
		return &tree.PatternError{Node: n, Reason: "{" + vv.Name + "} must only appear in a replacement"}
	case *tree.ExprCapture:
		for _, x := range vv.Exclude {
			if err := checkPattern(x); err != nil {
				return err
			}
		}
	}
	for i := 0; i < n.Size(); i++ {
		if err := checkPattern(n.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

type rewriteFunc func(env tree.Env, n tree.Node) (tree.Node, error)

// patternRewrites collects the Rewrite hooks of the pattern's
// captures by name.
func patternRewrites(n tree.Node, acc map[string]rewriteFunc) map[string]rewriteFunc {
	if acc == nil {
		acc = make(map[string]rewriteFunc, 2)
	}
	if c, is := n.(*tree.ExprCapture); is && c.Rewrite != nil {
		acc[c.Name] = c.Rewrite
	}
	for i := 0; i < n.Size(); i++ {
		patternRewrites(n.Child(i), acc)
	}
	return acc
}

// carryRewrites gives each capture in the replacement the Rewrite of
// the pattern capture with the same name.  A "transform" is written
// where the capture binds, but it runs where the capture expands.
func carryRewrites(n tree.Node, rewrites map[string]rewriteFunc) {
	if len(rewrites) == 0 {
		return
	}
	if c, is := n.(*tree.ExprCapture); is && c.Rewrite == nil {
		if f, have := rewrites[c.Name]; have {
			c.Rewrite = f
		}
	}
	for i := 0; i < n.Size(); i++ {
		carryRewrites(n.Child(i), rewrites)
	}
}

func findCycle(rss []*RuleSetSpec, refs map[string][]string) []string {
	const (
		unseen = iota
		active
		done
	)
	state := make(map[string]int, len(rss))
	var path []string
	var visit func(string) []string
	visit = func(name string) []string {
		switch state[name] {
		case active:
			for i, p := range path {
				if p == name {
					return append(append([]string(nil), path[i:]...), name)
				}
			}
		case done:
			return nil
		}
		state[name] = active
		path = append(path, name)
		for _, next := range refs[name] {
			if cycle := visit(next); cycle != nil {
				return cycle
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}
	for _, rs := range rss {
		if cycle := visit(rs.Name); cycle != nil {
			return cycle
		}
	}
	return nil
}
