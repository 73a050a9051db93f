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

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Comcast/treexf/arith"
	"github.com/Comcast/treexf/codec"
	"github.com/Comcast/treexf/metrics"
	"github.com/Comcast/treexf/rewrite"
	"github.com/Comcast/treexf/tools"
	"github.com/Comcast/treexf/tree"
	"github.com/Comcast/treexf/util"
)

func newPrintCmd(o *options) *cobra.Command {
	var (
		term   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print a tree or pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &codec.Decoder{Interpreter: o.interpreter(cmd)}
			n, err := readNode(d, term)
			if err != nil {
				return err
			}
			if asJSON {
				js, err := codec.JSON(n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", js)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", tree.String(n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&term, "tree", "t", "", "tree (JSON or YAML, or @FILENAME)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print canonical JSON")
	required(cmd, "tree")
	return cmd
}

func newMatchCmd(o *options) *cobra.Command {
	var (
		pattern string
		term    string
		find    bool
		bench   int
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a pattern against a tree and print the bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &codec.Decoder{Interpreter: o.interpreter(cmd)}
			p, err := readNode(d, pattern)
			if err != nil {
				return err
			}
			t, err := readNode(codec.DefaultDecoder, term)
			if err != nil {
				return err
			}

			attempt := func(m *tree.Match) (bool, error) {
				if find {
					found, err := tree.Find(m, t, p)
					return found != nil, err
				}
				return tree.Matches(m, p, t)
			}

			if 0 < bench {
				var stats runtime.MemStats
				runtime.ReadMemStats(&stats)
				allocs := stats.TotalAlloc
				then := time.Now()
				for i := 0; i < bench; i++ {
					if _, err := attempt(o.match()); err != nil {
						return err
					}
				}
				elapsed := time.Since(then)
				meanNanos := elapsed.Nanoseconds() / int64(bench)

				runtime.ReadMemStats(&stats)
				allocated := (stats.TotalAlloc - allocs) / uint64(bench)

				log.New(cmd.ErrOrStderr(), "", 0).Printf("%d iterations, %d mean ns/match, %d mean bytes allocated per match", bench, meanNanos, allocated)
			}

			m := o.match()
			matched, err := attempt(m)
			if err != nil {
				return err
			}
			if !matched {
				fmt.Fprintf(cmd.OutOrStdout(), "false\n")
				return nil
			}
			bs := make(map[string]interface{})
			for name, n := range m.Bindings() {
				x, err := codec.Encode(n)
				if err != nil {
					return err
				}
				bs[name] = x
			}
			js, err := json.Marshal(bs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", js)
			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "pattern (JSON or YAML, or @FILENAME)")
	cmd.Flags().StringVarP(&term, "tree", "t", "", "tree (JSON or YAML, or @FILENAME)")
	cmd.Flags().BoolVar(&find, "find", false, "search the whole tree rather than matching at the root")
	cmd.Flags().IntVar(&bench, "bench", 0, "number of times to run (and report time)")
	required(cmd, "pattern", "tree")
	return cmd
}

func newRewriteCmd(o *options) *cobra.Command {
	var (
		rules     string
		ruleSets  []string
		term      string
		asJSON    bool
		showStats bool
		showTrace bool
	)
	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite a tree with rule sets from a rule file",
		Long: `Rewrite a tree with rule sets from a rule file.

When more than one rule set is given, they run in order, each to a
fixpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := tools.ReadLibrary(rules)
			if err != nil {
				return err
			}
			c, err := lib.Compile(o.interpreter(cmd))
			if err != nil {
				return err
			}
			t, err := readNode(codec.DefaultDecoder, term)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			mt := metrics.NewTracer(reg)
			traces := rewrite.NewTraces()

			m := o.match()
			for _, name := range ruleSets {
				tt, err := c.Get(name)
				if err != nil {
					return err
				}
				var tracers rewrite.Tracers
				if lt := o.tracer(cmd); lt != nil {
					tracers = append(tracers, lt)
				}
				if showTrace {
					tracers = append(tracers, traces)
				}
				traced := *tt
				if 0 < len(tracers) {
					traced.Tracer = tracers
				}
				out, s, err := mt.Transform(&traced, m, t)
				if err != nil {
					return err
				}
				util.Logf("rule set %s: %d passes, %d firings", name, s.Passes, s.Total())
				t = out
			}

			if asJSON {
				js, err := codec.JSON(t)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", js)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", tree.String(t))
			}

			if showTrace {
				js, err := json.MarshalIndent(traces, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", js)
			}
			if showStats {
				return printMetrics(cmd, reg)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&rules, "rules", "r", "", "rule file (YAML or JSON)")
	cmd.Flags().StringSliceVarP(&ruleSets, "rule-set", "s", nil, "rule set names, applied in order")
	cmd.Flags().StringVarP(&term, "tree", "t", "", "tree (JSON or YAML, or @FILENAME)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print canonical JSON")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print firing counts and passes to stderr")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print every rewrite as JSON to stderr")
	required(cmd, "rules", "rule-set", "tree")
	return cmd
}

// printMetrics writes the gathered counters and histograms one per
// line, sorted.
func printMetrics(cmd *cobra.Command, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var pairs []string
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+strconv.Quote(lp.GetValue()))
			}
			label := strings.Join(pairs, ",")
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s{%s} %v", mf.GetName(), label, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s{%s} count=%d sum=%v", mf.GetName(), label, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(cmd.ErrOrStderr(), line)
	}
	return nil
}

func newEvalCmd(o *options) *cobra.Command {
	var (
		rules string
		term  string
		vars  map[string]string
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Rewrite, materialize, and evaluate an arithmetic tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := arith.Library()
			if rules != "" {
				lib, err = tools.ReadLibrary(rules)
			}
			if err != nil {
				return err
			}
			e, err := arith.NewEngineWith(lib, o.interpreter(cmd))
			if err != nil {
				return err
			}
			if o.uuids {
				e.IDs = tree.UUIDs{}
			}
			if lt := o.tracer(cmd); lt != nil {
				for _, tt := range e.Rules.ByName {
					tt.Tracer = lt
				}
			}

			env := make(arith.Env, len(vars))
			for name, s := range vars {
				x, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fmt.Errorf("variable %s: %w", name, err)
				}
				env[name] = x
			}

			t, err := readNode(codec.DefaultDecoder, term)
			if err != nil {
				return err
			}
			rewritten, err := e.Rewrite(t)
			if err != nil {
				return err
			}
			util.Logf("rewritten: %s", tree.String(rewritten))
			expr, err := e.Materialize(rewritten)
			if err != nil {
				return err
			}
			x, err := expr.Eval(env)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", x)
			return nil
		},
	}
	cmd.Flags().StringVarP(&rules, "rules", "r", "", "rule file to use instead of the built-in rules")
	cmd.Flags().StringVarP(&term, "tree", "t", "", "tree (JSON or YAML, or @FILENAME)")
	cmd.Flags().StringToStringVar(&vars, "var", nil, "variable values as NAME=NUMBER")
	required(cmd, "tree")
	return cmd
}

func newDocCmd(o *options) *cobra.Command {
	var (
		rules    string
		cssFiles []string
	)
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Render a rule file as HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := arith.Library()
			if rules != "" {
				lib, err = tools.ReadLibrary(rules)
			}
			if err != nil {
				return err
			}
			return tools.RenderLibraryPage(lib, cmd.OutOrStdout(), cssFiles)
		},
	}
	cmd.Flags().StringVarP(&rules, "rules", "r", "", "rule file (defaults to the built-in arithmetic rules)")
	cmd.Flags().StringSliceVar(&cssFiles, "css", nil, "stylesheet URLs")
	return cmd
}

func newDotCmd(o *options) *cobra.Command {
	var term string
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Render a tree as a Graphviz dot graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &codec.Decoder{Interpreter: o.interpreter(cmd)}
			n, err := readNode(d, term)
			if err != nil {
				return err
			}
			return tools.Dot(n, cmd.OutOrStdout(), nil)
		},
	}
	cmd.Flags().StringVarP(&term, "tree", "t", "", "tree (JSON or YAML, or @FILENAME)")
	required(cmd, "tree")
	return cmd
}
