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
	_ "embed"
	"fmt"

	"github.com/Comcast/treexf/codec"
	"github.com/Comcast/treexf/materialize"
	"github.com/Comcast/treexf/rewrite"
	"github.com/Comcast/treexf/script"
	"github.com/Comcast/treexf/tree"
)

//go:embed rules.yaml
var RulesSource []byte

// Library parses the built-in rules.
func Library() (*codec.Library, error) {
	return codec.ParseLibrary(RulesSource)
}

// Engine rewrites, materializes, and evaluates arithmetic terms.
type Engine struct {
	Rules *codec.Compiled

	// Rewriter is what Evaluate applies before materializing.  It
	// defaults to desugar then simplify.
	Rewriter rewrite.Rewriter

	Materializer *materialize.Materializer

	// IDs generates the names for bindings introduced by rules.
	// Defaults to a tree.Counter.
	IDs tree.IDGenerator
}

// NewEngine compiles the built-in rules.  The interpreter may be nil.
func NewEngine(interp *script.Interpreter) (*Engine, error) {
	lib, err := Library()
	if err != nil {
		return nil, err
	}
	return NewEngineWith(lib, interp)
}

// NewEngineWith compiles the given library, which must have
// "desugar" and "simplify" rule sets.
func NewEngineWith(lib *codec.Library, interp *script.Interpreter) (*Engine, error) {
	c, err := lib.Compile(interp)
	if err != nil {
		return nil, err
	}
	desugar, err := c.Get("desugar")
	if err != nil {
		return nil, err
	}
	simplify, err := c.Get("simplify")
	if err != nil {
		return nil, err
	}
	return &Engine{
		Rules:        c,
		Rewriter:     rewrite.Chain{desugar, simplify},
		Materializer: materialize.New(Registry()),
	}, nil
}

// Rewrite applies the engine's Rewriter.
func (e *Engine) Rewrite(term tree.Node) (tree.Node, error) {
	ids := e.IDs
	if ids == nil {
		ids = &tree.Counter{}
	}
	return e.Rewriter.Transform(tree.NewMatchWith(ids), term)
}

// Materialize builds the Expr for a rewritten term.
func (e *Engine) Materialize(term tree.Node) (Expr, error) {
	x, err := e.Materializer.Materialize(term)
	if err != nil {
		return nil, err
	}
	expr, is := x.(Expr)
	if !is {
		return nil, fmt.Errorf("%s is not an expression (%T)", tree.String(term), x)
	}
	return expr, nil
}

// Evaluate rewrites, materializes, and evaluates a term.
func (e *Engine) Evaluate(term tree.Node, env Env) (float64, error) {
	rewritten, err := e.Rewrite(term)
	if err != nil {
		return 0, err
	}
	expr, err := e.Materialize(rewritten)
	if err != nil {
		return 0, err
	}
	return expr.Eval(env)
}
