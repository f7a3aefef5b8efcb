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
	"reflect"
	"testing"
)

func TestGraphEdgeDedup(t *testing.T) {
	g := NewGraph()
	e := direct(Local{Name: "x"}, Return{})
	if !g.AddEdge(e) {
		t.Errorf("first insertion must report a new edge")
	}
	if g.AddEdge(e) {
		t.Errorf("second insertion of the same edge must be a no-op")
	}
	if g.NumEdges() != 1 {
		t.Errorf("expected 1 edge, got %d", g.NumEdges())
	}
	// A parallel edge with a different kind is a distinct edge.
	par := Edge{Src: Local{Name: "x"}, Dst: Return{}, Kind: EdgeKind{Op: OpCapture}}
	if !g.AddEdge(par) {
		t.Errorf("parallel edge with distinct kind must be inserted")
	}
	if g.NumEdges() != 2 {
		t.Errorf("expected 2 edges, got %d", g.NumEdges())
	}
}

func TestGraphSelfLoop(t *testing.T) {
	g := NewGraph()
	v := Local{Name: "x"}
	e := direct(v, v)
	g.AddEdge(e)
	if len(g.Out(v)) != 1 || len(g.In(v)) != 1 {
		t.Errorf("self loop must appear in both adjacencies")
	}
}

func TestGraphUnion(t *testing.T) {
	a := graphOf(direct(Argument{Index: 0}, Local{Name: "x"}))
	b := graphOf(
		direct(Argument{Index: 0}, Local{Name: "x"}),
		direct(Local{Name: "x"}, Return{}),
	)
	b.AddVertex(Self{})
	a.Union(b)
	if a.NumEdges() != 2 {
		t.Errorf("expected 2 edges after union, got %d", a.NumEdges())
	}
	if !a.HasVertex(Self{}) {
		t.Errorf("union must carry edge-less vertices over")
	}
}

func TestGraphDeterministicIteration(t *testing.T) {
	mk := func() *Graph {
		return graphOf(
			direct(Local{Name: "b"}, Return{}),
			direct(Local{Name: "a"}, Local{Name: "b"}),
			direct(Argument{Index: 1}, Local{Name: "a"}),
			direct(Argument{Index: 0}, Local{Name: "a"}),
		)
	}
	e1 := mk().Edges()
	e2 := mk().Edges()
	if !reflect.DeepEqual(e1, e2) {
		t.Errorf("edge iteration order differs between equal graphs")
	}
	v1 := mk().Vertices()
	v2 := mk().Vertices()
	if !reflect.DeepEqual(v1, v2) {
		t.Errorf("vertex iteration order differs between equal graphs")
	}
}

func TestResultMerge(t *testing.T) {
	f := proc("m", "f", 1)
	res := Result{}
	res.merge(f, graphOf(direct(Argument{Index: 0}, Local{Name: "x"})))
	res.merge(f, graphOf(direct(Local{Name: "x"}, Return{})))
	if res[f].NumEdges() != 2 {
		t.Errorf("merging must union subgraphs, got %d edges", res[f].NumEdges())
	}
	if res.NumEdges() != 2 {
		t.Errorf("result edge count wrong: %d", res.NumEdges())
	}
}
