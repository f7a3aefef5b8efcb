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

// Reachable collects, per procedure, the subgraph of edges on a realizable
// forward path from any of the source nodes.
//
// Realizability: once a path has followed a Call edge it may not later
// follow a Return edge; matched call/return pairs are represented by
// Summary edges, which are ordinary intra-procedural edges. The engine
// enforces this with a two-phase schedule. In phase A, reaching a Return
// vertex of p enqueues a ReturnOf continuation into every caller of p on
// the primary worklist, and reaching an ArgumentOf vertex enqueues the
// callee's Argument on a deferred worklist. When the primary worklist
// empties, the deferred worklist is promoted and return-following is
// disabled for everything after (phase B): exploration that has crossed
// into a callee may keep descending into further callees, but may never
// come back out on a Return edge.
//
// A procedure may be visited several times with different root vertices;
// its accumulated subgraph is the union across visits. Sanitizer
// procedures are discarded before their summary is even loaded, and
// Summary edges through a sanitizer are never traversed.
func (s *State) Reachable(sources []Node) (Result, error) {
	res := Result{}
	primary := append([]Node{}, sources...)
	var deferred []Node
	visited := map[Node]bool{}
	followReturn := true

	for len(primary) > 0 || len(deferred) > 0 {
		if len(primary) == 0 {
			// Phase B: calls already crossed cannot be matched by returns
			// any further down the path.
			primary, deferred = deferred, nil
			followReturn = false
			s.Logger.Debugf("forward phase: promoting %d deferred nodes, follow-return disabled", len(primary))
		}
		it := primary[0]
		primary = primary[1:]
		if visited[it] {
			continue
		}
		visited[it] = true

		if s.IsSanitizer(it.Proc) {
			s.Logger.Debugf("discarding %s: sanitizer", it)
			continue
		}

		sum, err := s.summary(it.Proc)
		if err != nil {
			return nil, err
		}
		var shape *Shape
		var g *Graph
		if sum != nil {
			shape = sum.Shape
			g = sum.Graph
		}

		roots := expandLocator(it.Loc, shape)
		sort.Slice(roots, func(i, j int) bool { return vertexLess(roots[i], roots[j]) })

		acc := NewGraph()
		reached := s.forwardVisit(g, res[it.Proc], roots, acc)
		res.merge(it.Proc, acc)

		for _, v := range reached {
			switch rv := v.(type) {
			case Return:
				if !followReturn {
					continue
				}
				for _, c := range s.Callers.Callers(it.Proc) {
					primary = append(primary, Node{Proc: c, Loc: ReturnOf{Callee: it.Proc, Path: rv.Path}})
				}
			case ArgumentOf:
				next := Node{Proc: rv.Callee, Loc: Argument{Index: rv.Index, Path: rv.Path}}
				if followReturn {
					deferred = append(deferred, next)
				} else {
					primary = append(primary, next)
				}
			}
		}
	}
	return res, nil
}

// forwardVisit runs a forward DFS over the loaded lineage graph g from the
// expanded roots, accumulating traversed edges into acc, and returns the
// visited vertices in visit order. The roots are always recorded as
// vertices, so a procedure with no summary still contributes the endpoint
// itself. Edges already accumulated by an earlier visit of the same
// procedure (prev) are re-walked without being re-charged to the budget;
// an edge the budget cannot pay for is omitted together with the
// exploration beyond it.
func (s *State) forwardVisit(g *Graph, prev *Graph, roots []Vertex, acc *Graph) []Vertex {
	seen := map[Vertex]bool{}
	var order []Vertex
	var stack []Vertex

	for _, r := range roots {
		acc.AddVertex(r)
	}
	if g == nil {
		for _, r := range roots {
			if !seen[r] {
				seen[r] = true
				order = append(order, r)
			}
		}
		return order
	}

	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[v] {
			continue
		}
		seen[v] = true
		order = append(order, v)

		for _, e := range g.Out(v) {
			if e.Kind.Op == OpSummary && s.IsSanitizer(e.Kind.Callee) {
				continue
			}
			if !acc.HasEdge(e) && (prev == nil || !prev.HasEdge(e)) {
				if !s.takeEdge() {
					continue
				}
				acc.AddEdge(e)
			}
			if !seen[e.Dst] {
				stack = append(stack, e.Dst)
			}
		}
	}
	return order
}
