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

// Package main is a command-line utility for matching and rewriting
// trees.
//
//	treexf print -t '{"Add":[{"Num":[0]},{"Var":["x"]}]}'
//	treexf match -p '{"Add":[{"Num":[0]},"?x"]}' -t '{"Add":[{"Num":[0]},{"Var":["x"]}]}'
//	treexf rewrite -r rules.yaml -s simplify -t @term.json
//	treexf eval -t '{"Square":[{"Var":["x"]}]}' --var x=3
//	treexf doc -r rules.yaml > rules.html
//
// Trees and patterns are JSON or YAML, given inline or as @FILENAME.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jsccast/yaml"
	"github.com/spf13/cobra"

	"github.com/Comcast/treexf/codec"
	"github.com/Comcast/treexf/rewrite"
	"github.com/Comcast/treexf/script"
	"github.com/Comcast/treexf/tree"
	"github.com/Comcast/treexf/util"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options are the persistent flags.
type options struct {
	verbose bool
	uuids   bool
}

func (o *options) match() *tree.Match {
	if o.uuids {
		return tree.NewMatchWith(tree.UUIDs{})
	}
	return tree.NewMatch()
}

// tracer returns a LogTracer writing to the command's error stream if
// verbose.
func (o *options) tracer(cmd *cobra.Command) rewrite.Tracer {
	if !o.verbose {
		return nil
	}
	return &rewrite.LogTracer{
		Logger: log.New(cmd.ErrOrStderr(), "", 0),
	}
}

func (o *options) interpreter(cmd *cobra.Command) *script.Interpreter {
	return &script.Interpreter{
		Logger: log.New(cmd.ErrOrStderr(), "", 0),
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "treexf",
		Short:        "Match and rewrite trees",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.Logging = o.verbose
			util.SetOutput(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log every rule that fires")
	root.PersistentFlags().BoolVar(&o.uuids, "uuids", false, "generate UUID-based names for new bindings")

	root.AddCommand(
		newPrintCmd(o),
		newMatchCmd(o),
		newRewriteCmd(o),
		newEvalCmd(o),
		newDocCmd(o),
		newDotCmd(o),
	)
	return root
}

// readData parses JSON or YAML given inline or, with a leading '@',
// in a file.
func readData(arg string) (interface{}, error) {
	src := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		filename := arg[1:]
		bs, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		src = bs
		util.Logf("read %d bytes from %s", len(bs), filename)
	}
	var x interface{}
	if err := yaml.Unmarshal(src, &x); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", arg, err)
	}
	return x, nil
}

// readNode is readData followed by decoding.
func readNode(d *codec.Decoder, arg string) (tree.Node, error) {
	x, err := readData(arg)
	if err != nil {
		return nil, err
	}
	return d.Decode(x)
}

func required(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
