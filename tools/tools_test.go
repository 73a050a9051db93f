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

package tools

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Comcast/treexf/codec"
	"github.com/Comcast/treexf/tree"
)

var src = `
name: demo
doc: Some *rules*.
ruleSets:
  - name: simplify
    doc: Makes things **smaller**.
    rules:
      - name: add-zero
        doc: Zero is the additive identity.
        pattern: {Add: [{Num: [0]}, "?x"]}
        replacement: "?x"
      - name: neg-num
        pattern: {Neg: [{Num: [{value: "n", accept: "return typeof _.value === 'number';"}]}]}
        replacement: {Num: [{value: "n", transform: "return -_.value;"}]}
  - name: standard
    rules:
      - pattern: {Simplify: [{capture: x, transform: simplify}]}
        replacement: "?x"
`

func TestRenderLibraryHTML(t *testing.T) {
	lib, err := codec.ParseLibrary([]byte(src))
	require.NoError(t, err)

	out := bytes.NewBuffer(make([]byte, 0, 1024*16))
	require.NoError(t, RenderLibraryPage(lib, out, []string{"library.css"}))

	page := out.String()
	for _, want := range []string{
		"<title>demo</title>",
		`<link href="library.css" rel="stylesheet">`,
		"<em>rules</em>",
		"<strong>smaller</strong>",
		`<span class="ruleName">add-zero</span>`,
		`<code class="pattern">add(num(0), &lt;x&gt;)</code>`,
		`<code class="replacement">num(&lt;n&gt;)</code>`,
		`<code class="pattern">simplify(&lt;x&gt;)</code>`,
	} {
		assert.Contains(t, page, want)
	}
}

func TestRenderLibraryHTMLBadRule(t *testing.T) {
	lib := &codec.Library{
		RuleSets: []*codec.RuleSetSpec{{
			Name:  "bad",
			Rules: []*codec.RuleSpec{{Pattern: map[string]interface{}{"Add": 1}}},
		}},
	}
	var out bytes.Buffer
	err := RenderLibraryHTML(lib, &out)
	var de *codec.DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestDot(t *testing.T) {
	x := tree.NewExpr("Num", tree.NewValue(1))
	root := tree.NewExpr("Add", x, tree.NewExprCapture("y"))

	var out bytes.Buffer
	require.NoError(t, Dot(root, &out, x))
	dot := out.String()

	assert.True(t, strings.HasPrefix(dot, "digraph G {\n"))
	assert.Contains(t, dot, `n1 [shape="box", style="rounded,filled", color="black", fillcolor="#99ddc8", label=<Add> ]`)
	assert.Contains(t, dot, `n2 [shape="box", style="rounded,filled", color="red", fillcolor="#99ddc8", label=<Num> ]`)
	assert.Contains(t, dot, `label=<&lt;y&gt;>`)
	assert.Contains(t, dot, `n1 -> n4 [ label="1" ]`)
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestInline(t *testing.T) {
	got, err := Inline([]byte(`a %inline("x") b %inline ("y")`), func(name string) ([]byte, error) {
		return []byte(strings.ToUpper(name)), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a X b Y", string(got))

	_, err = Inline([]byte(`%inline("x")`), func(name string) ([]byte, error) {
		return nil, os.ErrNotExist
	})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadLibrary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accept.js"),
		[]byte(`"return typeof _.value === 'number';"`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte(`
name: inlined
ruleSets:
  - name: nums
    rules:
      - pattern: {Num: [{value: "n", accept: %inline("accept.js")}]}
        replacement: {Ok: []}
`), 0644))

	lib, err := ReadLibrary(filepath.Join(dir, "rules.yaml"))
	require.NoError(t, err)
	c, err := lib.Compile(nil)
	require.NoError(t, err)
	tt, err := c.Get("nums")
	require.NoError(t, err)

	out, err := tt.Transform(tree.NewMatch(), tree.NewExpr("Num", tree.NewValue(3)))
	require.NoError(t, err)
	assert.Equal(t, "ok()", tree.String(out))
}
