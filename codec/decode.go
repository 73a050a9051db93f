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

// Package codec renders trees as plain data (the kind of thing
// encoding/json or a YAML parser produces) and back, and loads
// rule-set libraries written that way.
//
// The rendering mirrors the node constructors:
//
//	3, true, null                 Value
//	"tacos"                       string Value
//	"?x"                          ExprCapture x
//	"$n"                          ValueCapture n
//	"{v}"                         NewID v
//	{"Add": [1, "?x"]}            Expr with type tag Add
//	{"literal": "?x"}             string Value that looks special
//	{"capture": "x",
//	 "exclude": [...],
//	 "transform": "ruleSet"}      ExprCapture with options
//	{"value": "n",
//	 "accept": "return ...",
//	 "transform": "return ..."}   ValueCapture with script hooks
//	{"newId": "v"}                NewID v
//
// Library.Compile refuses rule sets whose transform captures refer,
// directly or through other rule sets, back to themselves.  That is a
// policy for rule files.  The rewriting engine itself does no cycle
// or termination checking, and rule sets assembled in Go may refer to
// each other freely.
package codec

import (
	"fmt"
	"strings"

	"github.com/Comcast/treexf/rewrite"
	"github.com/Comcast/treexf/script"
	"github.com/Comcast/treexf/tree"
)

// Decoder turns plain data into Nodes.
type Decoder struct {
	// Interpreter compiles script hooks of ValueCaptures.  If nil,
	// data with hooks is an error.
	Interpreter *script.Interpreter

	// Rewriters resolves the rule-set names used by transform
	// captures.  If nil, data with transform captures is an error.
	Rewriters func(name string) (rewrite.Rewriter, error)
}

// DefaultDecoder decodes data without script hooks or transform
// captures.
var DefaultDecoder = &Decoder{}

// Decode is DefaultDecoder.Decode.
func Decode(x interface{}) (tree.Node, error) {
	return DefaultDecoder.Decode(x)
}

// DecodeError reports data that doesn't represent a node.
type DecodeError struct {
	Data   interface{}
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("can't decode %#v: %s", e.Data, e.Reason)
}

// Decode decodes the given data.
func (d *Decoder) Decode(x interface{}) (tree.Node, error) {
	switch vv := x.(type) {
	case nil, bool, float64, float32, int, int64, int32, uint64:
		return tree.NewValue(vv), nil
	case string:
		return d.decodeString(vv), nil
	case map[interface{}]interface{}:
		m, err := stringMap(vv)
		if err != nil {
			return nil, err
		}
		return d.decodeMap(m)
	case map[string]interface{}:
		return d.decodeMap(vv)
	default:
		return nil, &DecodeError{Data: x, Reason: fmt.Sprintf("unsupported %T", x)}
	}
}

func (d *Decoder) decodeString(s string) tree.Node {
	switch {
	case 1 < len(s) && s[0] == '?':
		return tree.NewExprCapture(s[1:])
	case 1 < len(s) && s[0] == '$':
		return tree.NewValueCapture(s[1:])
	case 2 < len(s) && s[0] == '{' && s[len(s)-1] == '}':
		return tree.NewIDReplacement(s[1 : len(s)-1])
	default:
		return tree.NewValue(s)
	}
}

// special reports whether a string Value needs {"literal": ...}.
func special(s string) bool {
	return (1 < len(s) && (s[0] == '?' || s[0] == '$')) ||
		(2 < len(s) && s[0] == '{' && s[len(s)-1] == '}')
}

func (d *Decoder) decodeMap(m map[string]interface{}) (tree.Node, error) {
	if x, have := m["literal"]; have && len(m) == 1 {
		switch x.(type) {
		case map[string]interface{}, map[interface{}]interface{}, []interface{}:
			return nil, &DecodeError{Data: m, Reason: "literal must be a scalar"}
		}
		return tree.NewValue(x), nil
	}
	if x, have := m["newId"]; have && len(m) == 1 {
		name, is := x.(string)
		if !is || name == "" {
			return nil, &DecodeError{Data: m, Reason: "newId wants a name"}
		}
		return tree.NewIDReplacement(name), nil
	}
	if _, have := m["capture"]; have {
		return d.decodeCapture(m)
	}
	if _, have := m["value"]; have {
		return d.decodeValueCapture(m)
	}
	if len(m) != 1 {
		return nil, &DecodeError{Data: m, Reason: "an expr has exactly one property"}
	}
	for k, v := range m {
		children, is := v.([]interface{})
		if !is {
			if v != nil {
				return nil, &DecodeError{Data: m, Reason: "expr children must be a list"}
			}
		}
		acc := make([]tree.Node, len(children))
		for i, c := range children {
			n, err := d.Decode(c)
			if err != nil {
				return nil, err
			}
			acc[i] = n
		}
		return tree.NewExpr(tree.Type(k), acc...), nil
	}
	panic("unreachable")
}

func (d *Decoder) decodeCapture(m map[string]interface{}) (tree.Node, error) {
	name, err := stringProp(m, "capture", true)
	if err != nil {
		return nil, err
	}
	if err := onlyProps(m, "capture", "exclude", "transform"); err != nil {
		return nil, err
	}
	c := tree.NewExprCapture(name)
	if x, have := m["exclude"]; have {
		xs, is := x.([]interface{})
		if !is {
			return nil, &DecodeError{Data: m, Reason: "exclude must be a list"}
		}
		for _, x := range xs {
			n, err := d.Decode(x)
			if err != nil {
				return nil, err
			}
			c.Exclude = append(c.Exclude, n)
		}
	}
	ruleSet, err := stringProp(m, "transform", false)
	if err != nil {
		return nil, err
	}
	if ruleSet != "" {
		if d.Rewriters == nil {
			return nil, &DecodeError{Data: m, Reason: "no rule sets available for transform"}
		}
		r, err := d.Rewriters(ruleSet)
		if err != nil {
			return nil, err
		}
		c.Rewrite = rewrite.TransformCapture(name, r).Rewrite
	}
	return c, nil
}

func (d *Decoder) decodeValueCapture(m map[string]interface{}) (tree.Node, error) {
	name, err := stringProp(m, "value", true)
	if err != nil {
		return nil, err
	}
	if err := onlyProps(m, "value", "accept", "transform"); err != nil {
		return nil, err
	}
	accept, err := stringProp(m, "accept", false)
	if err != nil {
		return nil, err
	}
	transform, err := stringProp(m, "transform", false)
	if err != nil {
		return nil, err
	}
	if accept == "" && transform == "" {
		return tree.NewValueCapture(name), nil
	}
	if d.Interpreter == nil {
		return nil, &DecodeError{Data: m, Reason: "no interpreter for script hooks"}
	}
	return d.Interpreter.ValueCapture(name, accept, transform)
}

func stringProp(m map[string]interface{}, p string, required bool) (string, error) {
	x, have := m[p]
	if !have {
		if required {
			return "", &DecodeError{Data: m, Reason: "missing " + p}
		}
		return "", nil
	}
	s, is := x.(string)
	if _, isBool := x.(bool); isBool {
		return "", &DecodeError{Data: m, Reason: p + " must be a string (quote names like n or y in YAML)"}
	}
	if !is || (required && s == "") {
		return "", &DecodeError{Data: m, Reason: p + " must be a non-empty string"}
	}
	return s, nil
}

func onlyProps(m map[string]interface{}, ps ...string) error {
REM:
	for k := range m {
		for _, p := range ps {
			if k == p {
				continue REM
			}
		}
		return &DecodeError{Data: m, Reason: "unknown property " + k + " (want " + strings.Join(ps, ", ") + ")"}
	}
	return nil
}

// stringMap converts a map[interface{}]interface{} (as some YAML
// parsers produce) to a map[string]interface{}.
func stringMap(m map[interface{}]interface{}) (map[string]interface{}, error) {
	acc := make(map[string]interface{}, len(m))
	for k, v := range m {
		s, is := k.(string)
		if !is {
			return nil, fmt.Errorf("codec: bad key (%T)", k)
		}
		acc[s] = v
	}
	return acc, nil
}
