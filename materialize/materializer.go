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

// Package materialize turns a rewritten generic tree into a concrete
// object graph.
//
// Each Expr type tag is resolved to a Factory.  Children are
// materialized first and passed to the Factory as arguments.  Values
// pass their raw scalars through.
package materialize

import (
	"fmt"

	"github.com/Comcast/treexf/tree"
)

// Materializer builds concrete objects from terms.
type Materializer struct {
	Resolver FactoryResolver
}

// New makes a Materializer.
func New(r FactoryResolver) *Materializer {
	return &Materializer{
		Resolver: r,
	}
}

// Materialize converts the given term.
func (m *Materializer) Materialize(root tree.Node) (interface{}, error) {
	switch vv := root.(type) {
	case *tree.Value:
		return vv.Scalar(), nil
	case *tree.Expr:
		f, have := m.Resolver.Factory(vv.Type)
		if !have {
			return nil, &MissingFactoryError{Type: vv.Type}
		}
		args := make([]interface{}, vv.Size())
		for i := range args {
			x, err := m.Materialize(vv.Child(i))
			if err != nil {
				return nil, err
			}
			args[i] = x
		}
		x, err := f.Create(args)
		if err != nil {
			return nil, &ConstructionError{
				Type:     vv.Type,
				ArgTypes: argTypes(args),
				Err:      err,
			}
		}
		return x, nil
	case nil:
		return nil, &tree.PatternError{Reason: "nil node in term"}
	default:
		return nil, &tree.PatternError{Node: root, Reason: "cannot materialize pattern node " + tree.String(root)}
	}
}

func argTypes(args []interface{}) []string {
	acc := make([]string, len(args))
	for i, a := range args {
		acc[i] = fmt.Sprintf("%T", a)
	}
	return acc
}
