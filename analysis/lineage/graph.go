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

import "sort"

// Graph is one procedure's lineage subgraph: a directed multigraph over
// vertices with kind-labeled edges. Self-loops are permitted, and parallel
// edges are permitted as long as their kinds differ. Adjacency is sparse,
// keyed by vertex, and edges are deduplicated by (src, dst, kind).
type Graph struct {
	succ     map[Vertex][]Edge
	pred     map[Vertex][]Edge
	edgeSet  map[Edge]bool
	vertices map[Vertex]bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		succ:     map[Vertex][]Edge{},
		pred:     map[Vertex][]Edge{},
		edgeSet:  map[Edge]bool{},
		vertices: map[Vertex]bool{},
	}
}

// AddVertex records v in the graph even if no edge touches it. A vertex
// recorded this way keeps the graph non-trivial when a procedure has no
// lineage summary but is still an endpoint.
func (g *Graph) AddVertex(v Vertex) {
	g.vertices[v] = true
}

// AddEdge inserts e, recording both endpoints, and returns true if the edge
// was not already present.
func (g *Graph) AddEdge(e Edge) bool {
	if g.edgeSet[e] {
		return false
	}
	g.edgeSet[e] = true
	g.vertices[e.Src] = true
	g.vertices[e.Dst] = true
	g.succ[e.Src] = append(g.succ[e.Src], e)
	g.pred[e.Dst] = append(g.pred[e.Dst], e)
	return true
}

// HasEdge reports whether e is in the graph.
func (g *Graph) HasEdge(e Edge) bool {
	return g.edgeSet[e]
}

// HasVertex reports whether v is in the graph.
func (g *Graph) HasVertex(v Vertex) bool {
	return g.vertices[v]
}

// Out returns the edges whose source is v, in insertion order.
func (g *Graph) Out(v Vertex) []Edge {
	return g.succ[v]
}

// In returns the edges whose destination is v, in insertion order.
func (g *Graph) In(v Vertex) []Edge {
	return g.pred[v]
}

// NumEdges returns the number of distinct edges.
func (g *Graph) NumEdges() int {
	return len(g.edgeSet)
}

// NumVertices returns the number of recorded vertices.
func (g *Graph) NumVertices() int {
	return len(g.vertices)
}

// Union adds every vertex and edge of other into g.
func (g *Graph) Union(other *Graph) {
	if other == nil {
		return
	}
	for v := range other.vertices {
		g.AddVertex(v)
	}
	for e := range other.edgeSet {
		g.AddEdge(e)
	}
}

// Vertices returns the recorded vertices sorted by their string form, so
// that iteration over equal graphs is reproducible.
func (g *Graph) Vertices() []Vertex {
	vs := make([]Vertex, 0, len(g.vertices))
	for v := range g.vertices {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return vertexLess(vs[i], vs[j]) })
	return vs
}

// Edges returns the edges sorted by (src, dst, kind) string form.
func (g *Graph) Edges() []Edge {
	es := make([]Edge, 0, len(g.edgeSet))
	for e := range g.edgeSet {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return edgeLess(es[i], es[j]) })
	return es
}

func vertexLess(a, b Vertex) bool {
	return a.String() < b.String()
}

func edgeLess(a, b Edge) bool {
	as, bs := a.Src.String(), b.Src.String()
	if as != bs {
		return as < bs
	}
	ad, bd := a.Dst.String(), b.Dst.String()
	if ad != bd {
		return ad < bd
	}
	return a.Kind.String() < b.Kind.String()
}

// Result maps each procedure to the subgraph an engine collected for it.
type Result map[ProcID]*Graph

// Procs returns the procedures of the result in sorted order.
func (r Result) Procs() []ProcID {
	ps := make([]ProcID, 0, len(r))
	for p := range r {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
	return ps
}

// NumEdges returns the total number of edges across all procedures.
func (r Result) NumEdges() int {
	n := 0
	for _, g := range r {
		n += g.NumEdges()
	}
	return n
}

// merge unions g into the subgraph accumulated for proc, installing g as the
// accumulator when proc has none yet.
func (r Result) merge(proc ProcID, g *Graph) {
	if acc, ok := r[proc]; ok {
		acc.Union(g)
		return
	}
	r[proc] = g
}
