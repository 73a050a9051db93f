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
	"github.com/Comcast/treexf/tree"
)

// TransformCapture makes an ExprCapture that, on expansion, runs its
// binding through the given Rewriter.
//
// The nested rewrite gets its own Match (from Env.Sub), so it cannot
// disturb the bindings of the expansion it is part of.  Identifiers
// come from the same generator, so names made inside and outside do
// not collide.
func TransformCapture(name string, r Rewriter) *tree.ExprCapture {
	return &tree.ExprCapture{
		Name: name,
		Rewrite: func(env tree.Env, n tree.Node) (tree.Node, error) {
			return r.Transform(env.Sub(), n)
		},
	}
}
