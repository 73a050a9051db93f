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

package rewrite

import (
	"github.com/Comcast/treexf/tree"
)

// Transformation is a single rewrite rule.
type Transformation struct {
	// Name identifies the rule in traces and metrics.
	Name string `json:"name,omitempty" yaml:",omitempty"`

	// Doc is opaque documentation.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	Pattern     tree.Node `json:"-" yaml:"-"`
	Replacement tree.Node `json:"-" yaml:"-"`
}

// NewTransformation makes an anonymous rule.
func NewTransformation(pattern, replacement tree.Node) *Transformation {
	return &Transformation{
		Pattern:     pattern,
		Replacement: replacement,
	}
}

// Replace clears the Match and tries the pattern against the node.
// On success, returns the expansion of the replacement.  Otherwise
// returns the node itself.
func (t *Transformation) Replace(m *tree.Match, n tree.Node) (tree.Node, error) {
	out, _, err := t.replace(m, n)
	return out, err
}

func (t *Transformation) replace(m *tree.Match, n tree.Node) (tree.Node, bool, error) {
	m.Clear()
	matched, err := tree.Matches(m, t.Pattern, n)
	if err != nil {
		return nil, false, &RuleError{Rule: t, Err: err}
	}
	if !matched {
		return n, false, nil
	}
	out, err := t.Replacement.Expand(m)
	if err != nil {
		return nil, false, &RuleError{Rule: t, Err: err}
	}
	return out, true, nil
}

func (t *Transformation) String() string {
	name := t.Name
	if name == "" {
		name = "anonymous"
	}
	return name + ": " + tree.String(t.Pattern) + " -> " + tree.String(t.Replacement)
}

// RuleError wraps an error that happened while applying a rule.
type RuleError struct {
	Rule *Transformation
	Err  error
}

func (e *RuleError) Error() string {
	return "rule " + e.Rule.String() + ": " + e.Err.Error()
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
