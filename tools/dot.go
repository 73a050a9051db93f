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

// dot -Tpng g.dot > g.png

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/Comcast/treexf/tree"
)

// Dot writes a Graphviz dot graph for the given tree.
//
// Exprs are boxes labeled with their type tags.  Values are plain
// ellipses.  Captures and NewIDs are dashed.  If highlight is not
// nil, that node (by identity) is drawn in red, which is handy for
// showing where a rule fired.
func Dot(root tree.Node, w io.Writer, highlight tree.Node) error {
	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.4]
  node [fontsize="12"]
`)

	id := 0
	var walk func(n tree.Node) (string, error)
	walk = func(n tree.Node) (string, error) {
		if n == nil {
			return "", fmt.Errorf("nil node")
		}
		id++
		name := fmt.Sprintf("n%d", id)

		var label, shape, style string
		switch vv := n.(type) {
		case *tree.Expr:
			label = string(vv.Type)
			shape = "box"
			style = "rounded,filled"
		case *tree.Value:
			var buf bytes.Buffer
			vv.AppendTo(&buf)
			label = buf.String()
			shape = "ellipse"
			style = "solid"
		default:
			label = tree.String(n)
			shape = "ellipse"
			style = "dashed"
		}
		color := "black"
		if highlight != nil && n == highlight {
			color = "red"
		}
		fmt.Fprintf(w, "  %s [shape=\"%s\", style=\"%s\", color=\"%s\", fillcolor=\"#99ddc8\", label=<%s> ]\n",
			name, shape, style, color, html.EscapeString(label))

		for i := 0; i < n.Size(); i++ {
			child, err := walk(n.Child(i))
			if err != nil {
				return "", err
			}
			fmt.Fprintf(w, "  %s -> %s [ label=\"%d\" ]\n", name, child, i)
		}
		return name, nil
	}

	if _, err := walk(root); err != nil {
		return err
	}

	fmt.Fprintf(w, "}\n")
	return nil
}
