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

package lineage

import (
	"fmt"
	"strings"
)

// ProcID identifies a procedure by module name, function name and arity.
// The empty module denotes the default module. ProcIDs are comparable and
// totally ordered so they can key maps and be sorted for stable output.
type ProcID struct {
	Module string
	Name   string
	Arity  int
}

func (p ProcID) String() string {
	if p.Module == "" {
		return fmt.Sprintf("%s/%d", p.Name, p.Arity)
	}
	return fmt.Sprintf("%s:%s/%d", p.Module, p.Name, p.Arity)
}

// Less orders procedures by module, then name, then arity.
func (p ProcID) Less(q ProcID) bool {
	if p.Module != q.Module {
		return p.Module < q.Module
	}
	if p.Name != q.Name {
		return p.Name < q.Name
	}
	return p.Arity < q.Arity
}

// A FieldPath is an ordered sequence of record-field selectors applied to a
// base location, encoded as a "."-joined string. The empty path denotes the
// whole value. String encoding keeps vertices comparable map keys.
type FieldPath string

// NewFieldPath joins the given selectors into a field path.
func NewFieldPath(selectors ...string) FieldPath {
	return FieldPath(strings.Join(selectors, "."))
}

// Selectors returns the individual field selectors of the path.
func (fp FieldPath) Selectors() []string {
	if fp == "" {
		return nil
	}
	return strings.Split(string(fp), ".")
}

func (fp FieldPath) String() string {
	if fp == "" {
		return "[]"
	}
	return string(fp)
}

// A Vertex is a dataflow location in one procedure's lineage graph. All
// implementations are small comparable value types so vertices can key maps
// directly. The set of variants is closed; switches over Vertex should
// handle every one of them.
type Vertex interface {
	isVertex()
	String() string
}

// Local is a named local storage location within the procedure.
type Local struct {
	Name string
	Path FieldPath
}

// Argument is the Index-th formal parameter of the procedure, or a subfield
// of it.
type Argument struct {
	Index int
	Path  FieldPath
}

// Return is the formal return of the procedure, or a subfield of it.
type Return struct {
	Path FieldPath
}

// ArgumentOf is the callsite-materialized actual argument at an outgoing
// call to Callee.
type ArgumentOf struct {
	Callee ProcID
	Index  int
	Path   FieldPath
}

// ReturnOf is the callsite-materialized return value of an outgoing call to
// Callee.
type ReturnOf struct {
	Callee ProcID
	Path   FieldPath
}

// Captured is the Index-th closure capture of the procedure, analogous to
// an argument.
type Captured struct {
	Index int
}

// CapturedBy is the callsite-materialized capture at a closure creation for
// Callee, analogous to ArgumentOf.
type CapturedBy struct {
	Callee ProcID
	Index  int
}

// Self is the distinguished self node used by some front ends.
type Self struct{}

// Function is a first-class reference to a procedure.
type Function struct {
	Proc ProcID
}

func (Local) isVertex()      {}
func (Argument) isVertex()   {}
func (Return) isVertex()     {}
func (ArgumentOf) isVertex() {}
func (ReturnOf) isVertex()   {}
func (Captured) isVertex()   {}
func (CapturedBy) isVertex() {}
func (Self) isVertex()       {}
func (Function) isVertex()   {}

func (v Local) String() string    { return fmt.Sprintf("local(%s, %s)", v.Name, v.Path) }
func (v Argument) String() string { return fmt.Sprintf("arg(%d, %s)", v.Index, v.Path) }
func (v Return) String() string   { return fmt.Sprintf("ret(%s)", v.Path) }
func (v ArgumentOf) String() string {
	return fmt.Sprintf("arg_of(%s, %d, %s)", v.Callee, v.Index, v.Path)
}
func (v ReturnOf) String() string   { return fmt.Sprintf("ret_of(%s, %s)", v.Callee, v.Path) }
func (v Captured) String() string   { return fmt.Sprintf("captured(%d)", v.Index) }
func (v CapturedBy) String() string { return fmt.Sprintf("captured_by(%s, %d)", v.Callee, v.Index) }
func (Self) String() string         { return "self" }
func (v Function) String() string   { return fmt.Sprintf("function(%s)", v.Proc) }

// EdgeOp enumerates the semantic kinds of lineage edges.
type EdgeOp int

const (
	// OpDirect is in-procedure data movement.
	OpDirect EdgeOp = iota
	// OpCall is a formal-to-actual crossing into a callee.
	OpCall
	// OpReturn is a callee-formal-to-caller crossing out of a callee.
	OpReturn
	// OpCapture is closure-capture movement.
	OpCapture
	// OpSummary is a pre-matched call/return pair elided into a single
	// intra-procedural shortcut through the callee named on the edge kind.
	OpSummary
	// OpBuiltin is an opaque call-like edge through a builtin.
	OpBuiltin
	// OpDynamicCallFunction is an opaque dynamic call where the function is
	// not statically known.
	OpDynamicCallFunction
	// OpDynamicCallModule is an opaque dynamic call where the module is not
	// statically known.
	OpDynamicCallModule
)

func (op EdgeOp) String() string {
	switch op {
	case OpDirect:
		return "direct"
	case OpCall:
		return "call"
	case OpReturn:
		return "return"
	case OpCapture:
		return "capture"
	case OpSummary:
		return "summary"
	case OpBuiltin:
		return "builtin"
	case OpDynamicCallFunction:
		return "dyn_call_fun"
	case OpDynamicCallModule:
		return "dyn_call_mod"
	default:
		return fmt.Sprintf("edgeop(%d)", int(op))
	}
}

// EdgeKind labels the semantic nature of a directed edge. Callee is set
// only when Op is OpSummary.
type EdgeKind struct {
	Op     EdgeOp
	Callee ProcID
}

// SummaryKind returns the edge kind of a summary edge through callee.
func SummaryKind(callee ProcID) EdgeKind {
	return EdgeKind{Op: OpSummary, Callee: callee}
}

func (k EdgeKind) String() string {
	if k.Op == OpSummary {
		return fmt.Sprintf("summary(%s)", k.Callee)
	}
	return k.Op.String()
}

// Edge is a directed, kind-labeled edge between two vertices of one
// procedure's lineage graph.
type Edge struct {
	Src  Vertex
	Dst  Vertex
	Kind EdgeKind
}

func (e Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.Src, e.Kind, e.Dst)
}

// Node is an interprocedural work item: a locator within a named procedure.
// The locator is one of Return, Argument, ReturnOf or ArgumentOf; expansion
// through shape information yields the concrete vertices it denotes.
type Node struct {
	Proc ProcID
	Loc  Vertex
}

func (n Node) String() string {
	return fmt.Sprintf("%s @ %s", n.Proc, n.Loc)
}
