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

package script

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Comcast/treexf/tree"
)

func TestAccept(t *testing.T) {
	i := NewInterpreter()
	f, err := i.Accept("return 0 <= _.value && _.value < 10;")
	require.NoError(t, err)

	for _, tc := range []struct {
		x    interface{}
		want bool
	}{
		{3, true},
		{3.5, true},
		{-1, false},
		{12, false},
	} {
		got, err := f(tc.x)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%v", tc.x)
	}
}

func TestAcceptNotBool(t *testing.T) {
	f, err := NewInterpreter().Accept("return 'yes';")
	require.NoError(t, err)
	_, err = f(1)
	var se *Error
	assert.True(t, errors.As(err, &se))
}

func TestCompileError(t *testing.T) {
	_, err := NewInterpreter().Transform("return (;")
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "return (;", se.Source)
}

func TestRuntimeError(t *testing.T) {
	f, err := NewInterpreter().Transform("throw 'nope';")
	require.NoError(t, err)
	_, err = f(1)
	assert.Error(t, err)
}

func TestTransformNonScalar(t *testing.T) {
	f, err := NewInterpreter().Transform("return [1, 2];")
	require.NoError(t, err)
	_, err = f(1)
	assert.Error(t, err)
}

func TestLibrariesAndLog(t *testing.T) {
	var buf bytes.Buffer
	i := &Interpreter{
		Libraries: []string{"function twice(x) { return 2 * x; }"},
		Logger:    log.New(&buf, "", 0),
	}
	f, err := i.Transform("_.log(_.value); return twice(_.value);")
	require.NoError(t, err)
	y, err := f(21)
	require.NoError(t, err)
	assert.Equal(t, int64(42), y)
	assert.Equal(t, "script: 21\n", buf.String())
}

func TestValueCapture(t *testing.T) {
	i := NewInterpreter()
	c, err := i.ValueCapture("n", "return typeof _.value === 'number';", "return -_.value;")
	require.NoError(t, err)

	pattern := tree.NewExpr("Num", c)
	m := tree.NewMatch()
	matched, err := tree.Matches(m, pattern, tree.NewExpr("Num", tree.NewValue("x")))
	require.NoError(t, err)
	assert.False(t, matched)

	m.Clear()
	matched, err = tree.Matches(m, pattern, tree.NewExpr("Num", tree.NewValue(4)))
	require.NoError(t, err)
	require.True(t, matched)

	out, err := pattern.Expand(m)
	require.NoError(t, err)
	assert.Equal(t, "num(-4)", tree.String(out))

	_, err = i.ValueCapture("n", "", "")
	assert.Equal(t, ErrNoHooks, err)
}
