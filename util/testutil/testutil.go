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

// Package testutil has small helpers for writing tests about trees
// as data.
package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/jsccast/yaml"
)

// JS renders its argument as JSON, or with %#v when it can't be.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}

// Dwimjs parses a string or bytes as JSON.  Source that isn't JSON
// comes back as a string, so "?x" stays a bare capture.  Anything
// else is returned unchanged.
//
// See https://en.wikipedia.org/wiki/DWIM.
func Dwimjs(x interface{}) interface{} {
	return dwim(x, json.Unmarshal, false)
}

// Dwimyaml is Dwimjs for YAML, except that source that isn't YAML
// panics.
func Dwimyaml(x interface{}) interface{} {
	return dwim(x, yaml.Unmarshal, true)
}

func dwim(x interface{}, unmarshal func([]byte, interface{}) error, strict bool) interface{} {
	var src []byte
	switch vv := x.(type) {
	case []byte:
		src = vv
	case string:
		src = []byte(vv)
	default:
		return x
	}
	var v interface{}
	if err := unmarshal(src, &v); err != nil {
		if strict {
			panic(err)
		}
		return string(src)
	}
	return v
}
