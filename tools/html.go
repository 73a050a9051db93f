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

// Package tools has utilities for rule libraries and trees: HTML
// documentation, Graphviz renderings, and file inlining.
package tools

import (
	"fmt"
	"html"
	"io"

	md "github.com/russross/blackfriday/v2"

	"github.com/Comcast/treexf/codec"
	"github.com/Comcast/treexf/rewrite"
	"github.com/Comcast/treexf/script"
	"github.com/Comcast/treexf/tree"
)

// RenderLibraryHTML writes an HTML fragment documenting the library.
//
// Docs are Markdown.  Patterns and replacements are shown in their
// printed form.
func RenderLibraryHTML(lib *codec.Library, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	if lib.Doc != "" {
		f(`<div class="libraryDoc doc">%s</div>`, md.Run([]byte(lib.Doc)))
	}

	for _, rs := range lib.RuleSets {
		f(`<div class="ruleSet">`)
		f(`<h2 id="%s" class="ruleSetName">%s</h2>`, html.EscapeString(rs.Name), html.EscapeString(rs.Name))
		if rs.Doc != "" {
			f(`<div class="ruleSetDoc doc">%s</div>`, md.Run([]byte(rs.Doc)))
		}
		f(`<table class="rules">`)
		for i, r := range rs.Rules {
			pattern, err := printed(r.Pattern)
			if err != nil {
				return fmt.Errorf("rule set %s, rule %d: %w", rs.Name, i, err)
			}
			replacement, err := printed(r.Replacement)
			if err != nil {
				return fmt.Errorf("rule set %s, rule %d: %w", rs.Name, i, err)
			}
			f(`<tr class="rule"><td><span class="ruleName">%s</span></td><td>`, html.EscapeString(r.Name))
			if r.Doc != "" {
				f(`<div class="ruleDoc doc">%s</div>`, md.Run([]byte(r.Doc)))
			}
			f(`<div><code class="pattern">%s</code> &rarr; <code class="replacement">%s</code></div>`,
				html.EscapeString(pattern), html.EscapeString(replacement))
			f(`</td></tr>`)
		}
		f(`</table>`)
		f(`</div>`)
	}

	return nil
}

// printed renders a rule's data the way tree.String does.  Hooks and
// transform references only show up as their captures, so a decoder
// with stand-ins serves.
func printed(x interface{}) (string, error) {
	n, err := docDecoder.Decode(x)
	if err != nil {
		return "", err
	}
	return tree.String(n), nil
}

var docDecoder = &codec.Decoder{
	Interpreter: script.NewInterpreter(),
	Rewriters:   noRewriter,
}

func noRewriter(string) (rewrite.Rewriter, error) {
	return rewrite.Chain{}, nil
}

// RenderLibraryPage writes a complete HTML page for the library.
func RenderLibraryPage(lib *codec.Library, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/library.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(lib.Name))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(lib.Name))

	if err := RenderLibraryHTML(lib, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}
