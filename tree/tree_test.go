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

package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(x interface{}) *Expr {
	return NewExpr("Lit", NewValue(x))
}

func TestAppendTo(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"add", NewExpr("Add", NewValue(1), NewValue(2)), "add(1, 2)"},
		{"nested", NewExpr("Add", lit(3), NewExpr("Neg", lit(2.5))), "add(lit(3), neg(lit(2.5)))"},
		{"empty", NewExpr("Nil"), "nil()"},
		{"string", NewValue("a\"b"), `"a\"b"`},
		{"null", NewValue(nil), "null"},
		{"bool", NewValue(true), "true"},
		{"captures", NewExpr("Let", NewIDReplacement("v"), NewValueCapture("n"), NewExprCapture("x")), "let({v}, <n>, <x>)"},
		{"lower stays", NewExpr("add"), "add()"},
		{"camel", NewExpr("LetIn", NewValue(1)), "letIn(1)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, String(tc.node))
		})
	}
}

func TestRepeatedCapture(t *testing.T) {
	x := NewExprCapture("x")
	pattern := NewExpr("Add", x, x)

	m := NewMatch()
	matched, err := Matches(m, pattern, NewExpr("Add", lit(3), lit(3)))
	require.NoError(t, err)
	assert.True(t, matched)

	m.Clear()
	matched, err = Matches(m, pattern, NewExpr("Add", lit(3), lit(4)))
	require.NoError(t, err)
	assert.False(t, matched)

	// Distinct capture nodes with the same name are one variable.
	m.Clear()
	pattern = NewExpr("Add", NewExprCapture("x"), NewExprCapture("x"))
	matched, err = Matches(m, pattern, NewExpr("Add", lit(3), lit(4)))
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestExprCaptureBindsOnlyExprs(t *testing.T) {
	m := NewMatch()
	matched, err := Matches(m, NewExpr("Add", NewExprCapture("x")), NewExpr("Add", NewValue(1)))
	require.NoError(t, err)
	assert.False(t, matched)

	m.Clear()
	matched, err = Matches(m, NewExpr("Add", NewValueCapture("x")), NewExpr("Add", NewValue(1)))
	require.NoError(t, err)
	assert.True(t, matched)
	bound, have := m.Binding("x")
	require.True(t, have)
	assert.Equal(t, "1", String(bound))
}

func TestArityAndTag(t *testing.T) {
	m := NewMatch()
	pattern := NewExpr("Add", NewExprCapture("x"), NewExprCapture("y"))
	for _, candidate := range []Node{
		NewExpr("Add", lit(1)),
		NewExpr("Add", lit(1), lit(2), lit(3)),
		NewExpr("Mul", lit(1), lit(2)),
		NewValue(1),
	} {
		m.Clear()
		matched, err := Matches(m, pattern, candidate)
		require.NoError(t, err)
		assert.False(t, matched, String(candidate))
	}
}

func TestNumbersCompareByValue(t *testing.T) {
	matched, err := Matches(NewMatch(), NewValue(1), NewValue(1.0))
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = Matches(NewMatch(), NewValue("1"), NewValue(1))
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestLargeIntegersCompareExactly(t *testing.T) {
	tests := []struct {
		name string
		x, y interface{}
		want bool
	}{
		{"int64 neighbors", int64(1 << 53), int64(1<<53 + 1), false},
		{"uint64 neighbors", uint64(1<<64 - 1), uint64(1<<64 - 2), false},
		{"int64 and uint64", int64(1<<62 + 1), uint64(1<<62 + 1), true},
		{"negative and uint64", int64(-1), uint64(1<<64 - 1), false},
		{"int and integral float", int64(1 << 53), float64(1 << 53), true},
		{"int and rounded float", int64(1<<53 + 1), float64(1 << 53), false},
		{"int and fraction", 2, 2.5, false},
		{"uint and float", uint32(7), float32(7), true},
		{"float out of range", int64(1<<63 - 1), float64(1 << 63), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Equal(tc.x, tc.y))
			assert.Equal(t, tc.want, Equal(tc.y, tc.x))
		})
	}

	// A repeated capture binds two equal literals only.
	pattern := NewExpr("Pair", NewValueCapture("n"), NewValueCapture("n"))
	matched, err := Matches(NewMatch(), pattern,
		NewExpr("Pair", NewValue(int64(1<<53)), NewValue(int64(1<<53+1))))
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestExclude(t *testing.T) {
	forbidden := NewExpr("Var", NewValue("a"))
	pattern := NewExpr("Neg", ExcludeExpr("x", forbidden))

	tests := []struct {
		name      string
		candidate Node
		want      bool
	}{
		{"absent", NewExpr("Neg", NewExpr("Add", lit(1), NewExpr("Var", NewValue("b")))), true},
		{"nested", NewExpr("Neg", NewExpr("Add", lit(1), NewExpr("Var", NewValue("a")))), false},
		{"root", NewExpr("Neg", NewExpr("Var", NewValue("a"))), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matched, err := Matches(NewMatch(), pattern, tc.candidate)
			require.NoError(t, err)
			assert.Equal(t, tc.want, matched)
		})
	}
}

func TestExcludeRefersToBoundCapture(t *testing.T) {
	// let(<n>, <v>, <body>) where body must not mention var(<n>).
	pattern := NewExpr("Let",
		NewValueCapture("n"),
		NewExprCapture("v"),
		ExcludeExpr("body", NewExpr("Var", NewValueCapture("n"))))

	unused := NewExpr("Let", NewValue("a"), lit(1), NewExpr("Var", NewValue("b")))
	used := NewExpr("Let", NewValue("a"), lit(1), NewExpr("Neg", NewExpr("Var", NewValue("a"))))

	matched, err := Matches(NewMatch(), pattern, unused)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = Matches(NewMatch(), pattern, used)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestExcludeCannotBind(t *testing.T) {
	pattern := ExcludeExpr("x", NewExpr("Var", NewValueCapture("unbound")))
	_, err := Matches(NewMatch(), pattern, NewExpr("Var", NewValue("a")))
	assert.True(t, errors.Is(err, ErrUnmodifiable))
}

func TestNewIDInPattern(t *testing.T) {
	var pe *PatternError

	_, err := Matches(NewMatch(), NewIDReplacement("v"), NewExpr("Add"))
	require.Error(t, err)
	assert.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "must only appear in a replacement")

	_, err = Matches(NewMatch(), NewExpr("Var", NewIDReplacement("v")), NewExpr("Var", NewValue("a")))
	assert.True(t, errors.As(err, &pe))
}

func TestNewIDConsistency(t *testing.T) {
	v := NewIDReplacement("v")
	replacement := NewExpr("Let", v, NewExprCapture("x"), NewExpr("Mul", NewExpr("Var", v), NewExpr("Var", NewIDReplacement("v"))))

	m := NewMatch()
	require.NoError(t, m.Bind("x", lit(2)))
	out, err := replacement.Expand(m)
	require.NoError(t, err)
	assert.Equal(t, `let("v1", lit(2), mul(var("v1"), var("v1")))`, String(out))

	m.Clear()
	require.NoError(t, m.Bind("x", lit(2)))
	out, err = replacement.Expand(m)
	require.NoError(t, err)
	assert.Equal(t, `let("v2", lit(2), mul(var("v2"), var("v2")))`, String(out))
}

func TestSubSharesIDs(t *testing.T) {
	m := NewMatch()
	a := m.NewID("t")
	b := m.Sub().NewID("t")
	assert.NotEqual(t, a, b)
}

func TestUUIDs(t *testing.T) {
	m := NewMatchWith(UUIDs{})
	a := m.NewID("t")
	assert.Equal(t, a, m.NewID("t"))
	m.Clear()
	assert.NotEqual(t, a, m.NewID("t"))
}

func TestFinalMatch(t *testing.T) {
	m := NewMatch()
	require.NoError(t, m.Bind("x", lit(1)))
	fm := NewFinalMatch(m)

	assert.Equal(t, ErrUnmodifiable, fm.Bind("y", lit(2)))
	fm.Clear()
	bound, have := fm.Binding("x")
	require.True(t, have)
	assert.Equal(t, "lit(1)", String(bound))
	assert.Equal(t, m.NewID("v"), fm.NewID("v"))
	assert.Same(t, fm, NewFinalMatch(fm))
}

func TestFind(t *testing.T) {
	target := NewExpr("Add",
		NewExpr("Mul", lit(1), lit(2)),
		NewExpr("Mul", lit(3), lit(4)))

	m := NewMatch()
	found, err := target.Find(m, NewExpr("Mul", NewExprCapture("a"), NewExprCapture("b")))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Same(t, target.Child(0), found)

	found, err = target.Find(NewMatch(), NewExpr("Div"))
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = target.Find(NewMatch(), target)
	require.NoError(t, err)
	assert.Same(t, target, found)
}

func TestValueCaptureHooks(t *testing.T) {
	c := &ValueCapture{
		Name: "n",
		Accept: func(x interface{}) (bool, error) {
			f, is := x.(int)
			return is && 0 <= f, nil
		},
		Transform: func(x interface{}) (interface{}, error) {
			return x.(int) * 10, nil
		},
	}
	pattern := NewExpr("Lit", c)

	m := NewMatch()
	matched, err := Matches(m, pattern, lit(-1))
	require.NoError(t, err)
	assert.False(t, matched)

	m.Clear()
	matched, err = Matches(m, pattern, lit(4))
	require.NoError(t, err)
	require.True(t, matched)

	out, err := pattern.Expand(m)
	require.NoError(t, err)
	assert.Equal(t, "lit(40)", String(out))
}

func TestUnbound(t *testing.T) {
	_, err := NewExprCapture("x").Expand(NewMatch())
	var ue *UnboundError
	assert.True(t, errors.As(err, &ue))
	assert.Equal(t, "x", ue.Name)
}

func TestExpandCopies(t *testing.T) {
	m := NewMatch()
	bound := NewExpr("Neg", lit(1))
	require.NoError(t, m.Bind("x", bound))
	out, err := NewExprCapture("x").Expand(m)
	require.NoError(t, err)
	assert.NotSame(t, bound, out)
	assert.Equal(t, String(bound), String(out))
}

func TestChildIndex(t *testing.T) {
	assert.PanicsWithError(t, "child index 0 out of range [0,0)", func() {
		NewValue(1).Child(0)
	})
	assert.PanicsWithError(t, "child index 2 out of range [0,2)", func() {
		NewExpr("Add", lit(1), lit(2)).SetChild(2, lit(3))
	})
	assert.PanicsWithError(t, "child index -1 out of range [0,0)", func() {
		NewExprCapture("x").Child(-1)
	})
}

func TestCheckTerm(t *testing.T) {
	assert.NoError(t, CheckTerm(NewExpr("Add", lit(1), NewValue("x"))))
	var pe *PatternError
	assert.True(t, errors.As(CheckTerm(NewExpr("Add", NewExprCapture("x"))), &pe))
	assert.True(t, errors.As(CheckTerm(NewIDReplacement("v")), &pe))
}
