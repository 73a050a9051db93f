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
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"runtime"

	"github.com/Comcast/treexf/tree"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// BuildFactoryMap indexes the exported methods of the given value by
// the name of the type they return.
//
// A method is eligible if it returns exactly one value, or a value
// and an error, and the (pointer-stripped) result type is named.  So
// a method
//
//	func (Factory) Add(l, r Expr) *Add
//
// becomes the Factory for the tag "Add".  Two methods returning the
// same type give an *AmbiguousFactoryError here rather than at
// materialization time.
func BuildFactoryMap(factory interface{}) (FactoryMap, error) {
	v := reflect.ValueOf(factory)
	if !v.IsValid() {
		return nil, errors.New("nil factory")
	}
	t := v.Type()
	owner := typeName(t)

	fm := NewFactoryMap()
	for i := 0; i < t.NumMethod(); i++ {
		meth := t.Method(i)
		tag, ok := outputTag(v.Method(i).Type())
		if !ok {
			continue
		}
		f := &funcFactory{
			name: owner + "." + meth.Name,
			fn:   v.Method(i),
		}
		if err := fm.Register(tag, f); err != nil {
			return nil, err
		}
	}
	return fm, nil
}

// FuncFactories is BuildFactoryMap for a list of plain functions.
func FuncFactories(fns ...interface{}) (FactoryMap, error) {
	fm := NewFactoryMap()
	for _, fn := range fns {
		v := reflect.ValueOf(fn)
		if v.Kind() != reflect.Func {
			return nil, fmt.Errorf("%T is not a function", fn)
		}
		tag, ok := outputTag(v.Type())
		if !ok {
			return nil, fmt.Errorf("%s does not return a named type", funcName(v))
		}
		if err := fm.Register(tag, &funcFactory{name: funcName(v), fn: v}); err != nil {
			return nil, err
		}
	}
	return fm, nil
}

func outputTag(ft reflect.Type) (tree.Type, bool) {
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return "", false
		}
	default:
		return "", false
	}
	name := typeName(ft.Out(0))
	if name == "" {
		return "", false
	}
	return tree.Type(name), true
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func funcName(v reflect.Value) string {
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}

// funcFactory calls a function or method value via reflection.
type funcFactory struct {
	name string
	fn   reflect.Value
}

func (f *funcFactory) String() string {
	return f.name
}

// Create converts the arguments to the parameter types and calls the
// function.  For a variadic function, the arguments from the variadic
// position on are packed into a new slice of the element type.
func (f *funcFactory) Create(args []interface{}) (x interface{}, err error) {
	ft := f.fn.Type()
	n := ft.NumIn()
	fixed := n
	if ft.IsVariadic() {
		fixed = n - 1
		if len(args) < fixed {
			return nil, fmt.Errorf("%s wants at least %d arguments, got %d", f.name, fixed, len(args))
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("%s wants %d arguments, got %d", f.name, n, len(args))
	}

	in := make([]reflect.Value, 0, n)
	for i := 0; i < fixed; i++ {
		a, err := convert(args[i], ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", f.name, i, err)
		}
		in = append(in, a)
	}

	defer func() {
		if r := recover(); r != nil {
			x = nil
			err = fmt.Errorf("%s panicked: %v", f.name, r)
		}
	}()

	var out []reflect.Value
	if ft.IsVariadic() {
		st := ft.In(n - 1)
		rest := args[fixed:]
		packed := reflect.MakeSlice(st, len(rest), len(rest))
		for j, arg := range rest {
			a, err := convert(arg, st.Elem())
			if err != nil {
				return nil, fmt.Errorf("%s argument %d: %w", f.name, fixed+j, err)
			}
			packed.Index(j).Set(a)
		}
		in = append(in, packed)
		out = f.fn.CallSlice(in)
	} else {
		out = f.fn.Call(in)
	}

	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// convert makes a reflect.Value of type t from x.  Numbers convert
// between numeric types when the conversion doesn't change the value.
// Nothing else is converted.
func convert(x interface{}, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("nil for %s", t)
		}
	}
	v := reflect.ValueOf(x)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		if !exact(v, t) {
			return reflect.Value{}, fmt.Errorf("%v (%T) is not exactly a %s", x, x, t)
		}
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%T is not a %s", x, t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// exact reports whether the number v converts to type t without loss.
func exact(v reflect.Value, t reflect.Type) bool {
	var f *big.Float
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		x := v.Float()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
		}
		f = big.NewFloat(x)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = new(big.Float).SetInt64(v.Int())
	default:
		f = new(big.Float).SetUint64(v.Uint())
	}

	z := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Float32:
		_, acc := f.Float32()
		return acc == big.Exact
	case reflect.Float64:
		_, acc := f.Float64()
		return acc == big.Exact
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, acc := f.Int64()
		return acc == big.Exact && !z.OverflowInt(i)
	default:
		u, acc := f.Uint64()
		return acc == big.Exact && !z.OverflowUint(u)
	}
}
