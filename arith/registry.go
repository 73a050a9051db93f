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

package arith

import (
	"fmt"

	"github.com/Comcast/treexf/materialize"
	"github.com/Comcast/treexf/tree"
)

// Type tags of the core forms.  Square and Sub only exist before
// desugaring.
const (
	NumType tree.Type = "Num"
	AddType tree.Type = "Add"
	MulType tree.Type = "Mul"
	NegType tree.Type = "Neg"
	SumType tree.Type = "Sum"
	VarType tree.Type = "Var"
	LetType tree.Type = "Let"
)

// Registry returns a FactoryMap for the core forms that calls the
// Factory methods directly.
//
// It resolves the same tags as materialize.BuildFactoryMap(Factory{})
// without reflection.
func Registry() materialize.FactoryMap {
	var f Factory
	fm := materialize.NewFactoryMap()
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(fm.Func(NumType, func(args []interface{}) (interface{}, error) {
		if err := arity(args, 1); err != nil {
			return nil, err
		}
		x, err := number(args[0])
		if err != nil {
			return nil, err
		}
		return f.Num(x), nil
	}))
	must(fm.Func(AddType, func(args []interface{}) (interface{}, error) {
		xs, err := exprs(args, 2)
		if err != nil {
			return nil, err
		}
		return f.Add(xs[0], xs[1]), nil
	}))
	must(fm.Func(MulType, func(args []interface{}) (interface{}, error) {
		xs, err := exprs(args, 2)
		if err != nil {
			return nil, err
		}
		return f.Mul(xs[0], xs[1]), nil
	}))
	must(fm.Func(NegType, func(args []interface{}) (interface{}, error) {
		xs, err := exprs(args, 1)
		if err != nil {
			return nil, err
		}
		return f.Neg(xs[0]), nil
	}))
	must(fm.Func(SumType, func(args []interface{}) (interface{}, error) {
		xs, err := exprs(args, -1)
		if err != nil {
			return nil, err
		}
		return f.Sum(xs...), nil
	}))
	must(fm.Func(VarType, func(args []interface{}) (interface{}, error) {
		if err := arity(args, 1); err != nil {
			return nil, err
		}
		name, is := args[0].(string)
		if !is {
			return nil, fmt.Errorf("variable name is a %T", args[0])
		}
		return f.Var(name)
	}))
	must(fm.Func(LetType, func(args []interface{}) (interface{}, error) {
		if err := arity(args, 3); err != nil {
			return nil, err
		}
		name, is := args[0].(string)
		if !is {
			return nil, fmt.Errorf("variable name is a %T", args[0])
		}
		xs, err := exprs(args[1:], 2)
		if err != nil {
			return nil, err
		}
		return f.Let(name, xs[0], xs[1])
	}))

	return fm
}

func arity(args []interface{}, n int) error {
	if len(args) != n {
		return fmt.Errorf("wants %d arguments, got %d", n, len(args))
	}
	return nil
}

// exprs checks that there are n Expr arguments.  A negative n allows
// any number.
func exprs(args []interface{}, n int) ([]Expr, error) {
	if 0 <= n {
		if err := arity(args, n); err != nil {
			return nil, err
		}
	}
	acc := make([]Expr, len(args))
	for i, x := range args {
		e, is := x.(Expr)
		if !is {
			return nil, fmt.Errorf("argument %d is a %T, not an Expr", i, x)
		}
		acc[i] = e
	}
	return acc, nil
}

func number(x interface{}) (float64, error) {
	switch vv := x.(type) {
	case float64:
		return vv, nil
	case float32:
		return float64(vv), nil
	case int:
		return float64(vv), nil
	case int64:
		return float64(vv), nil
	case int32:
		return float64(vv), nil
	case uint64:
		return float64(vv), nil
	default:
		return 0, fmt.Errorf("%T is not a number", x)
	}
}
