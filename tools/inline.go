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
	"fmt"
	"io/ioutil"
	"path/filepath"
	"regexp"

	"github.com/Comcast/treexf/codec"
)

var inlinePattern = regexp.MustCompile(`%inline *\("([^"]*)"\)`)

// Inline replaces each '%inline("NAME")' in the source with f(NAME).
//
// Rule files use this to keep long script hooks in their own files.
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	var err error
	acc := inlinePattern.ReplaceAllFunc(bs, func(m []byte) []byte {
		if err != nil {
			return nil
		}
		name := inlinePattern.FindSubmatch(m)[1]
		var replacement []byte
		if replacement, err = f(string(name)); err != nil {
			err = fmt.Errorf("inlining %s: %w", name, err)
		}
		return replacement
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// ReadFileWithInlines is ioutil.ReadFile with Inline()ing relative to
// the file's directory.
func ReadFileWithInlines(filename string) ([]byte, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(filename)
	return Inline(bs, func(name string) ([]byte, error) {
		return ioutil.ReadFile(filepath.Join(dir, name))
	})
}

// ReadLibrary reads a rule file with inlining and parses it.
func ReadLibrary(filename string) (*codec.Library, error) {
	src, err := ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	lib, err := codec.ParseLibrary(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return lib, nil
}
