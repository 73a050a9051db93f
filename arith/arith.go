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

// Package arith is a small arithmetic language built on the rewriting
// engine.
//
// Terms arrive as generic trees, get desugared and simplified by the
// rule sets in rules.yaml, and are materialized into the typed Expr
// graph here for evaluation.
package arith

import (
	"fmt"
)

// Expr is an arithmetic expression.
type Expr interface {
	Eval(env Env) (float64, error)
}

// Env maps variable names to values.
type Env map[string]float64

// with returns a copy of the environment with one more binding.
func (e Env) with(name string, x float64) Env {
	acc := make(Env, len(e)+1)
	for k, v := range e {
		acc[k] = v
	}
	acc[name] = x
	return acc
}

// UnboundError reports a Var without a value.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string {
	return "unbound variable " + e.Name
}

type Num struct {
	X float64
}

func (n *Num) Eval(env Env) (float64, error) {
	return n.X, nil
}

type Add struct {
	L, R Expr
}

func (n *Add) Eval(env Env) (float64, error) {
	l, err := n.L.Eval(env)
	if err != nil {
		return 0, err
	}
	r, err := n.R.Eval(env)
	if err != nil {
		return 0, err
	}
	return l + r, nil
}

type Mul struct {
	L, R Expr
}

func (n *Mul) Eval(env Env) (float64, error) {
	l, err := n.L.Eval(env)
	if err != nil {
		return 0, err
	}
	r, err := n.R.Eval(env)
	if err != nil {
		return 0, err
	}
	return l * r, nil
}

type Neg struct {
	X Expr
}

func (n *Neg) Eval(env Env) (float64, error) {
	x, err := n.X.Eval(env)
	if err != nil {
		return 0, err
	}
	return -x, nil
}

// Sum adds any number of terms.  The empty Sum is zero.
type Sum struct {
	Terms []Expr
}

func (n *Sum) Eval(env Env) (float64, error) {
	acc := 0.0
	for _, t := range n.Terms {
		x, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		acc += x
	}
	return acc, nil
}

type Var struct {
	Name string
}

func (n *Var) Eval(env Env) (float64, error) {
	x, have := env[n.Name]
	if !have {
		return 0, &UnboundError{Name: n.Name}
	}
	return x, nil
}

// Let evaluates Body with Name bound to the value of Value.
type Let struct {
	Name  string
	Value Expr
	Body  Expr
}

func (n *Let) Eval(env Env) (float64, error) {
	x, err := n.Value.Eval(env)
	if err != nil {
		return 0, fmt.Errorf("let %s: %w", n.Name, err)
	}
	return n.Body.Eval(env.with(n.Name, x))
}

// Factory has one constructor per Expr type.  Materialization finds
// constructors by their result types, so every exported method here
// must return an Expr type.
type Factory struct{}

func (Factory) Num(x float64) *Num {
	return &Num{X: x}
}

func (Factory) Add(l, r Expr) *Add {
	return &Add{L: l, R: r}
}

func (Factory) Mul(l, r Expr) *Mul {
	return &Mul{L: l, R: r}
}

func (Factory) Neg(x Expr) *Neg {
	return &Neg{X: x}
}

func (Factory) Sum(terms ...Expr) *Sum {
	return &Sum{Terms: terms}
}

func (Factory) Var(name string) (*Var, error) {
	if name == "" {
		return nil, fmt.Errorf("empty variable name")
	}
	return &Var{Name: name}, nil
}

func (Factory) Let(name string, value, body Expr) (*Let, error) {
	if name == "" {
		return nil, fmt.Errorf("empty variable name")
	}
	return &Let{Name: name, Value: value, Body: body}, nil
}
