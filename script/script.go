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

// Package script provides ECMAScript value hooks for ValueCaptures
// using Goja.
//
// A hook source is the body of a function.  The scalar under
// consideration is at _.value, and the source should return a result
// explicitly:
//
//	return 0 <= _.value && _.value < 10;
//
// See https://github.com/dop251/goja.
package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dop251/goja"

	"github.com/Comcast/treexf/tree"
)

// Interpreter compiles and runs hook sources.
type Interpreter struct {
	// Libraries are sources prepended to every hook.  Handy for
	// helper functions shared by a rule set.
	Libraries []string

	// Logger receives output from _.log().  Defaults to the
	// standard logger.
	Logger *log.Logger
}

// NewInterpreter makes a new Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Error reports a hook that failed to compile or run.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return "script: " + e.Err.Error() + ": " + e.Source
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// Compile checks and compiles the given hook source.
func (i *Interpreter) Compile(src string) (*goja.Program, error) {
	code := wrapSrc(src)
	for j := len(i.Libraries) - 1; 0 <= j; j-- {
		code = i.Libraries[j] + "\n" + code
	}
	p, err := goja.Compile("", code, true)
	if err != nil {
		return nil, &Error{Source: src, Err: err}
	}
	return p, nil
}

// Exec runs a compiled hook with the given scalar at _.value and
// returns the exported result.
func (i *Interpreter) Exec(p *goja.Program, value interface{}) (interface{}, error) {
	o := goja.New()
	env := map[string]interface{}{
		"value": value,
	}
	env["log"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		bs, err := json.Marshal(&x)
		if err != nil {
			return err.Error()
		}
		if i.Logger != nil {
			i.Logger.Printf("script: %s", bs)
		} else {
			log.Printf("script: %s", bs)
		}
		return x
	}
	o.Set("_", env)

	v, err := o.RunProgram(p)
	if err != nil {
		return nil, err
	}
	if v == nil || goja.IsUndefined(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// Accept compiles a predicate hook.  The source must return a
// boolean.
func (i *Interpreter) Accept(src string) (func(x interface{}) (bool, error), error) {
	p, err := i.Compile(src)
	if err != nil {
		return nil, err
	}
	return func(x interface{}) (bool, error) {
		y, err := i.Exec(p, x)
		if err != nil {
			return false, &Error{Source: src, Err: err}
		}
		b, is := y.(bool)
		if !is {
			return false, &Error{Source: src, Err: fmt.Errorf("predicate returned a %T", y)}
		}
		return b, nil
	}, nil
}

// Transform compiles a value transform hook.  The source returns the
// new scalar.
func (i *Interpreter) Transform(src string) (func(x interface{}) (interface{}, error), error) {
	p, err := i.Compile(src)
	if err != nil {
		return nil, err
	}
	return func(x interface{}) (interface{}, error) {
		y, err := i.Exec(p, x)
		if err != nil {
			return nil, &Error{Source: src, Err: err}
		}
		switch y.(type) {
		case nil, string, bool, int64, float64:
			return y, nil
		default:
			return nil, &Error{Source: src, Err: fmt.Errorf("transform returned a non-scalar %T", y)}
		}
	}, nil
}

// ErrNoHooks is returned by ValueCapture when given no sources.
var ErrNoHooks = errors.New("script: no hook sources")

// ValueCapture makes a ValueCapture with script hooks.  Either source
// may be empty.
func (i *Interpreter) ValueCapture(name, acceptSrc, transformSrc string) (*tree.ValueCapture, error) {
	if acceptSrc == "" && transformSrc == "" {
		return nil, ErrNoHooks
	}
	c := tree.NewValueCapture(name)
	if acceptSrc != "" {
		f, err := i.Accept(acceptSrc)
		if err != nil {
			return nil, err
		}
		c.Accept = f
	}
	if transformSrc != "" {
		f, err := i.Transform(transformSrc)
		if err != nil {
			return nil, err
		}
		c.Transform = f
	}
	return c, nil
}
