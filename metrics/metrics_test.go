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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Comcast/treexf/rewrite"
	"github.com/Comcast/treexf/tree"
)

func negNeg() *rewrite.TreeTransformer {
	x := tree.NewExprCapture("x")
	r := rewrite.NewTransformation(tree.NewExpr("Neg", tree.NewExpr("Neg", x)), x)
	r.Name = "neg-neg"
	tt := rewrite.NewTreeTransformer(r)
	tt.Name = "simplify"
	return tt
}

func TestTracer(t *testing.T) {
	reg := prometheus.NewRegistry()
	tr := NewTracer(reg)

	traces := rewrite.NewTraces()
	tt := negNeg()
	tt.Tracer = traces

	lit := tree.NewExpr("Lit", tree.NewValue(1))
	term := tree.NewExpr("Pair",
		tree.NewExpr("Neg", tree.NewExpr("Neg", lit)),
		tree.NewExpr("Neg", tree.NewExpr("Neg", tree.NewExpr("Neg", tree.NewExpr("Neg", lit)))))

	out, s, err := tr.Transform(tt, tree.NewMatch(), term)
	require.NoError(t, err)
	assert.Equal(t, "pair(lit(1), lit(1))", tree.String(out))

	assert.Equal(t, 3, s.Total())
	assert.Equal(t, float64(3), testutil.ToFloat64(tr.Firings.WithLabelValues("neg-neg")))
	assert.Len(t, traces.Messages, 3)
	assert.Equal(t, 1, testutil.CollectAndCount(tr.Passes))

	// The transformer itself isn't changed.
	assert.Same(t, traces, tt.Tracer)
}

func TestTracerAnonymous(t *testing.T) {
	tr := NewTracer(prometheus.NewRegistry())
	r := rewrite.NewTransformation(tree.NewExpr("A"), tree.NewExpr("B"))
	tr.Trace(r, tree.NewExpr("A"), tree.NewExpr("B"))
	assert.Equal(t, float64(1), testutil.ToFloat64(tr.Firings.WithLabelValues("anonymous")))
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewTracer(reg)
	assert.Panics(t, func() { NewTracer(reg) })
}
