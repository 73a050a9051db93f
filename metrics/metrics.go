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

// Package metrics exports rewriting activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Comcast/treexf/rewrite"
	"github.com/Comcast/treexf/tree"
)

// Tracer is a rewrite.Tracer that counts rule firings.
//
// A Tracer is safe for concurrent use.
type Tracer struct {
	Firings *prometheus.CounterVec
	Passes  *prometheus.HistogramVec
}

// NewTracer registers the metrics with the given registerer.  A nil
// registerer means prometheus.DefaultRegisterer.
func NewTracer(reg prometheus.Registerer) *Tracer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Tracer{
		Firings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treexf_rule_firings_total",
			Help: "Number of times each rule rewrote a node",
		}, []string{"rule"}),
		Passes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treexf_transform_passes",
			Help:    "Passes needed to reach a fixpoint",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
		}, []string{"rule_set"}),
	}
}

func (t *Tracer) Trace(rule *rewrite.Transformation, input, output tree.Node) {
	name := rule.Name
	if name == "" {
		name = "anonymous"
	}
	t.Firings.WithLabelValues(name).Inc()
}

// ObserveTransform records the passes of a finished transformation.
func (t *Tracer) ObserveTransform(ruleSet string, s *rewrite.Stats) {
	if s == nil {
		return
	}
	t.Passes.WithLabelValues(ruleSet).Observe(float64(s.Passes))
}

// Transform runs the transformer with this Tracer added to its
// tracers and records the resulting Stats.
func (t *Tracer) Transform(tt *rewrite.TreeTransformer, m *tree.Match, root tree.Node) (tree.Node, *rewrite.Stats, error) {
	traced := *tt
	if tt.Tracer == nil {
		traced.Tracer = t
	} else {
		traced.Tracer = rewrite.Tracers{tt.Tracer, t}
	}
	out, s, err := traced.TransformWithStats(m, root)
	if err != nil {
		return nil, s, err
	}
	t.ObserveTransform(tt.Name, s)
	return out, s, nil
}
