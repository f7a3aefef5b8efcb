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
	"io"
	"sort"
	"testing"

	"github.com/awslabs/lineage-tools/analysis/config"
	"github.com/awslabs/lineage-tools/internal/funcutil"
)

// testStore is a minimal in-memory store for engine tests. The summaries
// package has a full-featured one, but importing it here would be a cycle.
type testStore struct {
	sums  map[ProcID]*Summary
	descs map[ProcID]string
}

func newTestStore() *testStore {
	return &testStore{sums: map[ProcID]*Summary{}, descs: map[ProcID]string{}}
}

func (s *testStore) add(p ProcID, sum *Summary) *testStore {
	s.sums[p] = sum
	return s
}

func (s *testStore) describe(p ProcID, desc string) *testStore {
	s.descs[p] = desc
	return s
}

func (s *testStore) Load(p ProcID) (*Summary, error) {
	return s.sums[p], nil
}

func (s *testStore) Iterate(fn func(owner ProcID, deps DepSet) error) error {
	ps := make([]ProcID, 0, len(s.sums))
	for p := range s.sums {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
	for _, p := range ps {
		if err := fn(p, s.sums[p].Deps); err != nil {
			return err
		}
	}
	return nil
}

func (s *testStore) Resolve(p ProcID) funcutil.Optional[string] {
	if d, ok := s.descs[p]; ok {
		return funcutil.Some(d)
	}
	return funcutil.None[string]()
}

func proc(module string, name string, arity int) ProcID {
	return ProcID{Module: module, Name: name, Arity: arity}
}

func direct(src Vertex, dst Vertex) Edge {
	return Edge{Src: src, Dst: dst, Kind: EdgeKind{Op: OpDirect}}
}

func callEdge(src Vertex, dst Vertex) Edge {
	return Edge{Src: src, Dst: dst, Kind: EdgeKind{Op: OpCall}}
}

func returnEdge(src Vertex, dst Vertex) Edge {
	return Edge{Src: src, Dst: dst, Kind: EdgeKind{Op: OpReturn}}
}

func summaryEdge(src Vertex, dst Vertex, callee ProcID) Edge {
	return Edge{Src: src, Dst: dst, Kind: SummaryKind(callee)}
}

func graphOf(edges ...Edge) *Graph {
	g := NewGraph()
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

// summaryOf builds a summary whose dependency set contains the callees of
// the graph's call-like and summary edges, so caller index construction in
// tests mirrors what summary producers record.
func summaryOf(g *Graph, extraDeps ...ProcID) *Summary {
	depSet := map[ProcID]bool{}
	for _, e := range g.Edges() {
		if e.Kind.Op == OpSummary {
			depSet[e.Kind.Callee] = true
		}
		for _, v := range []Vertex{e.Src, e.Dst} {
			switch x := v.(type) {
			case ArgumentOf:
				depSet[x.Callee] = true
			case ReturnOf:
				depSet[x.Callee] = true
			case CapturedBy:
				depSet[x.Callee] = true
			}
		}
	}
	for _, p := range extraDeps {
		depSet[p] = true
	}
	var deps []ProcID
	for p := range depSet {
		deps = append(deps, p)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Less(deps[j]) })
	return &Summary{Deps: DepSet{Procs: deps, Complete: true}, Graph: g}
}

func testLogger() *config.LogGroup {
	l := config.NewLogGroup(config.NewDefault())
	l.SetAllOutput(io.Discard)
	return l
}

func testState(t *testing.T, store Store, sanitizers ...ProcID) *State {
	t.Helper()
	callers, err := BuildCallerIndex(store)
	if err != nil {
		t.Fatalf("could not build caller index: %v", err)
	}
	return NewState(config.NewDefault(), testLogger(), store, callers, sanitizers)
}

func checkEdge(t *testing.T, res Result, p ProcID, e Edge) {
	t.Helper()
	g, ok := res[p]
	if !ok {
		t.Fatalf("no subgraph for %s", p)
	}
	if !g.HasEdge(e) {
		t.Errorf("missing edge %s in %s", e, p)
	}
}

func checkNoEdge(t *testing.T, res Result, p ProcID, e Edge) {
	t.Helper()
	if g, ok := res[p]; ok && g.HasEdge(e) {
		t.Errorf("unexpected edge %s in %s", e, p)
	}
}

// checkSubset verifies that every edge of sub is also in super, per
// procedure.
func checkSubset(t *testing.T, sub Result, super Result) {
	t.Helper()
	for p, g := range sub {
		sg, ok := super[p]
		if !ok {
			if g.NumEdges() > 0 {
				t.Errorf("procedure %s has edges but is absent from the superset", p)
			}
			continue
		}
		for _, e := range g.Edges() {
			if !sg.HasEdge(e) {
				t.Errorf("edge %s of %s is not in the superset", e, p)
			}
		}
	}
}
