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

package materialize

import (
	"fmt"
	"reflect"

	"github.com/Comcast/treexf/tree"
)

// Factory constructs a concrete object from already materialized
// arguments.
type Factory interface {
	Create(args []interface{}) (interface{}, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(args []interface{}) (interface{}, error)

func (f FactoryFunc) Create(args []interface{}) (interface{}, error) {
	return f(args)
}

// FactoryResolver finds the Factory for a type tag.
type FactoryResolver interface {
	Factory(t tree.Type) (Factory, bool)
}

// ResolverFunc adapts a function to FactoryResolver.
type ResolverFunc func(t tree.Type) (Factory, bool)

func (f ResolverFunc) Factory(t tree.Type) (Factory, bool) {
	return f(t)
}

// FactoryMap is an explicit registry from type tag to Factory.
type FactoryMap map[tree.Type]Factory

// NewFactoryMap makes an empty FactoryMap.
func NewFactoryMap() FactoryMap {
	return make(FactoryMap, 16)
}

// Register adds a Factory.  Registering a second Factory for the same
// tag is an *AmbiguousFactoryError.
func (fm FactoryMap) Register(t tree.Type, f Factory) error {
	if prev, have := fm[t]; have {
		return &AmbiguousFactoryError{
			Type:   t,
			First:  describe(prev),
			Second: describe(f),
		}
	}
	fm[t] = f
	return nil
}

// Func registers a FactoryFunc.
func (fm FactoryMap) Func(t tree.Type, f func(args []interface{}) (interface{}, error)) error {
	return fm.Register(t, FactoryFunc(f))
}

func (fm FactoryMap) Factory(t tree.Type) (Factory, bool) {
	f, have := fm[t]
	return f, have
}

// Chain consults several resolvers in order.  The first one that
// knows the tag wins.
//
// A typical chain puts a static FactoryMap first and resolvers for
// dynamically defined tags after it.
type Chain []FactoryResolver

func (c Chain) Factory(t tree.Type) (Factory, bool) {
	for _, r := range c {
		if f, have := r.Factory(t); have {
			return f, true
		}
	}
	return nil, false
}

func describe(f Factory) string {
	switch vv := f.(type) {
	case fmt.Stringer:
		return vv.String()
	case FactoryFunc:
		return funcName(reflect.ValueOf(vv))
	default:
		return fmt.Sprintf("%T", f)
	}
}
