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

// Package treexf provides tree pattern matching and rewriting.
//
// Trees and patterns are in package 'tree', the fixpoint rewriter is
// in 'rewrite', and 'materialize' turns rewritten trees into typed
// objects.  Rule files are loaded by 'codec', and some command-line
// tools are in `cmd`.
package treexf
