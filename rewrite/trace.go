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

package rewrite

import (
	"log"

	"github.com/Comcast/treexf/tree"
)

var (
	// TracesInitialCap is the initial capacity for Traces buffers.
	TracesInitialCap = 16
)

// Tracer hears about successful rewrites.  Tracing is diagnostic
// only.  Nothing in the engine depends on it.
type Tracer interface {
	Trace(rule *Transformation, input, output tree.Node)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(rule *Transformation, input, output tree.Node)

func (f TracerFunc) Trace(rule *Transformation, input, output tree.Node) {
	f(rule, input, output)
}

// Tracers fans out to several Tracers.
type Tracers []Tracer

func (ts Tracers) Trace(rule *Transformation, input, output tree.Node) {
	for _, t := range ts {
		t.Trace(rule, input, output)
	}
}

// LogTracer writes a line per rewrite.
type LogTracer struct {
	// Logger defaults to the standard logger.
	Logger *log.Logger
}

func (lt *LogTracer) Trace(rule *Transformation, input, output tree.Node) {
	logf := log.Printf
	if lt.Logger != nil {
		logf = lt.Logger.Printf
	}
	logf("rule %s: %s => %s", rule, tree.String(input), tree.String(output))
}

// Trace is one recorded rewrite.  The trees are rendered when the
// rewrite happens since the engine keeps mutating the term.
type Trace struct {
	Rule        string `json:"rule"`
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	Input       string `json:"input"`
	Output      string `json:"output"`
}

// Traces holds trace messages.
type Traces struct {
	Messages []Trace `json:"messages,omitempty" yaml:",omitempty"`
}

// NewTraces creates an initialized Traces.
//
// The Messages array has TracesInitialCap initial capacity.
func NewTraces() *Traces {
	return &Traces{
		Messages: make([]Trace, 0, TracesInitialCap),
	}
}

func (ts *Traces) Trace(rule *Transformation, input, output tree.Node) {
	ts.Messages = append(ts.Messages, Trace{
		Rule:        rule.Name,
		Pattern:     tree.String(rule.Pattern),
		Replacement: tree.String(rule.Replacement),
		Input:       tree.String(input),
		Output:      tree.String(output),
	})
}
