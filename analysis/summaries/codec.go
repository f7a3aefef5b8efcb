// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package summaries

import (
	"encoding/json"
	"fmt"

	"github.com/awslabs/lineage-tools/analysis/lineage"
)

// vertexRec is the persisted JSON form of a vertex. Callee uses the
// [module:]function/arity descriptor syntax.
type vertexRec struct {
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Index  int    `json:"index,omitempty"`
	Path   string `json:"path,omitempty"`
	Callee string `json:"callee,omitempty"`
}

// EncodeVertex serializes a vertex to its persisted JSON form.
func EncodeVertex(v lineage.Vertex) string {
	var rec vertexRec
	switch x := v.(type) {
	case lineage.Local:
		rec = vertexRec{Kind: "local", Name: x.Name, Path: string(x.Path)}
	case lineage.Argument:
		rec = vertexRec{Kind: "arg", Index: x.Index, Path: string(x.Path)}
	case lineage.Return:
		rec = vertexRec{Kind: "ret", Path: string(x.Path)}
	case lineage.ArgumentOf:
		rec = vertexRec{Kind: "arg_of", Callee: x.Callee.String(), Index: x.Index, Path: string(x.Path)}
	case lineage.ReturnOf:
		rec = vertexRec{Kind: "ret_of", Callee: x.Callee.String(), Path: string(x.Path)}
	case lineage.Captured:
		rec = vertexRec{Kind: "captured", Index: x.Index}
	case lineage.CapturedBy:
		rec = vertexRec{Kind: "captured_by", Callee: x.Callee.String(), Index: x.Index}
	case lineage.Self:
		rec = vertexRec{Kind: "self"}
	case lineage.Function:
		rec = vertexRec{Kind: "function", Callee: x.Proc.String()}
	}
	b, _ := json.Marshal(rec)
	return string(b)
}

// DecodeVertex parses the persisted JSON form of a vertex.
func DecodeVertex(s string) (lineage.Vertex, error) {
	var rec vertexRec
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return nil, fmt.Errorf("could not decode vertex %q: %w", s, err)
	}
	callee := func() (lineage.ProcID, error) {
		return lineage.ParseProc(rec.Callee)
	}
	switch rec.Kind {
	case "local":
		return lineage.Local{Name: rec.Name, Path: lineage.FieldPath(rec.Path)}, nil
	case "arg":
		return lineage.Argument{Index: rec.Index, Path: lineage.FieldPath(rec.Path)}, nil
	case "ret":
		return lineage.Return{Path: lineage.FieldPath(rec.Path)}, nil
	case "arg_of":
		c, err := callee()
		if err != nil {
			return nil, err
		}
		return lineage.ArgumentOf{Callee: c, Index: rec.Index, Path: lineage.FieldPath(rec.Path)}, nil
	case "ret_of":
		c, err := callee()
		if err != nil {
			return nil, err
		}
		return lineage.ReturnOf{Callee: c, Path: lineage.FieldPath(rec.Path)}, nil
	case "captured":
		return lineage.Captured{Index: rec.Index}, nil
	case "captured_by":
		c, err := callee()
		if err != nil {
			return nil, err
		}
		return lineage.CapturedBy{Callee: c, Index: rec.Index}, nil
	case "self":
		return lineage.Self{}, nil
	case "function":
		c, err := callee()
		if err != nil {
			return nil, err
		}
		return lineage.Function{Proc: c}, nil
	default:
		return nil, fmt.Errorf("unknown vertex kind %q", rec.Kind)
	}
}

// EncodeKind serializes an edge kind to (kind, callee) columns; callee is
// empty except for summary edges.
func EncodeKind(k lineage.EdgeKind) (string, string) {
	if k.Op == lineage.OpSummary {
		return "summary", k.Callee.String()
	}
	return k.Op.String(), ""
}

// DecodeKind parses the (kind, callee) columns of an edge.
func DecodeKind(kind, callee string) (lineage.EdgeKind, error) {
	switch kind {
	case "direct":
		return lineage.EdgeKind{Op: lineage.OpDirect}, nil
	case "call":
		return lineage.EdgeKind{Op: lineage.OpCall}, nil
	case "return":
		return lineage.EdgeKind{Op: lineage.OpReturn}, nil
	case "capture":
		return lineage.EdgeKind{Op: lineage.OpCapture}, nil
	case "summary":
		c, err := lineage.ParseProc(callee)
		if err != nil {
			return lineage.EdgeKind{}, fmt.Errorf("bad summary callee %q: %w", callee, err)
		}
		return lineage.SummaryKind(c), nil
	case "builtin":
		return lineage.EdgeKind{Op: lineage.OpBuiltin}, nil
	case "dyn_call_fun":
		return lineage.EdgeKind{Op: lineage.OpDynamicCallFunction}, nil
	case "dyn_call_mod":
		return lineage.EdgeKind{Op: lineage.OpDynamicCallModule}, nil
	default:
		return lineage.EdgeKind{}, fmt.Errorf("unknown edge kind %q", kind)
	}
}
