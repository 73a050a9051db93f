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

package codec

import (
	"encoding/json"
	"fmt"

	"github.com/Comcast/treexf/tree"
)

// EncodeError reports a node that can't be written as data.  Hooks
// (script or Go) can't be.
type EncodeError struct {
	Node   tree.Node
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("can't encode %s: %s", tree.String(e.Node), e.Reason)
}

// reserved are the properties that Decode reads as something other
// than an Expr type tag.
var reserved = map[string]bool{
	"literal": true,
	"newId":   true,
	"capture": true,
	"value":   true,
}

// Encode renders a node as data that Decode would turn back into an
// equivalent node.  Hooks and Exprs whose tags are reserved
// properties can't be encoded.
func Encode(n tree.Node) (interface{}, error) {
	switch vv := n.(type) {
	case *tree.Value:
		if s, is := vv.Scalar().(string); is && special(s) {
			return map[string]interface{}{"literal": s}, nil
		}
		return vv.Scalar(), nil
	case *tree.Expr:
		if reserved[string(vv.Type)] {
			return nil, &EncodeError{Node: n, Reason: "type tag " + string(vv.Type) + " is a reserved property"}
		}
		children := make([]interface{}, vv.Size())
		for i := range children {
			x, err := Encode(vv.Child(i))
			if err != nil {
				return nil, err
			}
			children[i] = x
		}
		return map[string]interface{}{string(vv.Type): children}, nil
	case *tree.ExprCapture:
		if vv.Accept != nil || vv.Rewrite != nil {
			return nil, &EncodeError{Node: n, Reason: "capture has hooks"}
		}
		if len(vv.Exclude) == 0 {
			return "?" + vv.Name, nil
		}
		xs := make([]interface{}, len(vv.Exclude))
		for i, x := range vv.Exclude {
			y, err := Encode(x)
			if err != nil {
				return nil, err
			}
			xs[i] = y
		}
		return map[string]interface{}{
			"capture": vv.Name,
			"exclude": xs,
		}, nil
	case *tree.ValueCapture:
		if vv.Accept != nil || vv.Transform != nil {
			return nil, &EncodeError{Node: n, Reason: "capture has hooks"}
		}
		return "$" + vv.Name, nil
	case *tree.NewID:
		return "{" + vv.Name + "}", nil
	default:
		return nil, &EncodeError{Node: n, Reason: fmt.Sprintf("unknown node %T", n)}
	}
}

// JSON renders a node as JSON.
func JSON(n tree.Node) ([]byte, error) {
	x, err := Encode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&x)
}

// ParseJSON parses JSON and decodes the result with DefaultDecoder.
func ParseJSON(bs []byte) (tree.Node, error) {
	return DefaultDecoder.ParseJSON(bs)
}

// ParseJSON parses JSON and decodes the result.
func (d *Decoder) ParseJSON(bs []byte) (tree.Node, error) {
	var x interface{}
	if err := json.Unmarshal(bs, &x); err != nil {
		return nil, err
	}
	return d.Decode(x)
}
