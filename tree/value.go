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
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Value is a leaf wrapping an immutable scalar: a string, a bool,
// nil, or a number.
type Value struct {
	leaf
	x interface{}
}

// NewValue wraps the given scalar.
func NewValue(x interface{}) *Value {
	return &Value{x: x}
}

// Scalar returns the wrapped scalar as given to NewValue.
func (v *Value) Scalar() interface{} {
	return v.x
}

func (v *Value) Kind() Kind {
	return ValueKind
}

// Match requires a Value candidate with an equal scalar.
func (v *Value) Match(env Env, candidate Node) (bool, error) {
	c, is := candidate.(*Value)
	if !is {
		return false, nil
	}
	return Equal(v.x, c.x), nil
}

func (v *Value) Find(env Env, pattern Node) (Node, error) {
	return Find(env, v, pattern)
}

// Expand returns the receiver.  Values are never mutated, so sharing
// them between trees is safe.
func (v *Value) Expand(env Env) (Node, error) {
	return v, nil
}

func (v *Value) AppendTo(buf *bytes.Buffer) {
	appendScalar(buf, v.x)
}

func (v *Value) String() string {
	return String(v)
}

// normalize maps signed integers to int64, unsigned integers to
// uint64 and floats to float64.
func normalize(x interface{}) interface{} {
	switch vv := x.(type) {
	case int:
		return int64(vv)
	case int8:
		return int64(vv)
	case int16:
		return int64(vv)
	case int32:
		return int64(vv)
	case uint:
		return uint64(vv)
	case uint8:
		return uint64(vv)
	case uint16:
		return uint64(vv)
	case uint32:
		return uint64(vv)
	case float32:
		return float64(vv)
	default:
		return x
	}
}

// Equal reports whether two scalars are equal.  Numbers compare by
// value regardless of their Go type, so 1 and 1.0 are equal.
// Integers compare exactly, and an integer equals a float only when
// the float is that integer.
func Equal(x, y interface{}) bool {
	x, y = normalize(x), normalize(y)
	switch a := x.(type) {
	case nil:
		return y == nil
	case int64:
		switch b := y.(type) {
		case int64:
			return a == b
		case uint64:
			return 0 <= a && uint64(a) == b
		case float64:
			return isInt(b, a)
		}
		return false
	case uint64:
		switch b := y.(type) {
		case int64:
			return 0 <= b && uint64(b) == a
		case uint64:
			return a == b
		case float64:
			return isUint(b, a)
		}
		return false
	case float64:
		switch b := y.(type) {
		case int64:
			return isInt(a, b)
		case uint64:
			return isUint(a, b)
		case float64:
			return a == b
		}
		return false
	case string, bool:
		return x == y
	default:
		return reflect.DeepEqual(x, y)
	}
}

// isInt reports whether f is exactly i.
func isInt(f float64, i int64) bool {
	return f == math.Trunc(f) && -1<<63 <= f && f < 1<<63 && int64(f) == i
}

// isUint reports whether f is exactly u.
func isUint(f float64, u uint64) bool {
	return f == math.Trunc(f) && 0 <= f && f < 1<<64 && uint64(f) == u
}

func appendScalar(buf *bytes.Buffer, x interface{}) {
	switch vv := x.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		buf.WriteString(strconv.Quote(vv))
	case float64:
		buf.WriteString(strconv.FormatFloat(vv, 'g', -1, 64))
	case float32:
		buf.WriteString(strconv.FormatFloat(float64(vv), 'g', -1, 32))
	default:
		fmt.Fprint(buf, vv)
	}
}
