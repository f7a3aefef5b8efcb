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

// Coreachable collects, per procedure, the subgraph of edges from which
// some sink node is reachable, restricted to the reachable map computed by
// the forward phase. Work items naming a procedure absent from the
// reachable map are silently discarded: caller lists are computed globally,
// and a caller that does not itself reach the source has nothing to coreach
// within it. The realizability rule is not replayed here; every edge of the
// reachable map is already on a realizable prefix, so backward exploration
// follows any of them freely.
func (s *State) Coreachable(sinks []Node, reachable Result) (Result, error) {
	res := Result{}
	work := append([]Node{}, sinks...)
	visited := map[Node]bool{}

	for len(work) > 0 {
		it := work[0]
		work = work[1:]
		if visited[it] {
			continue
		}
		visited[it] = true

		rg, ok := reachable[it.Proc]
		if !ok {
			s.Logger.Tracef("discarding %s: not in reachable map", it)
			continue
		}

		sum, err := s.summary(it.Proc)
		if err != nil {
			return nil, err
		}
		var shape *Shape
		if sum != nil {
			shape = sum.Shape
		}

		// Expansion is restricted to vertices the forward phase actually
		// recorded; anything else is silently dropped.
		var roots []Vertex
		for _, v := range expandLocator(it.Loc, shape) {
			if rg.HasVertex(v) {
				roots = append(roots, v)
			}
		}
		if len(roots) == 0 {
			continue
		}
		sort.Slice(roots, func(i, j int) bool { return vertexLess(roots[i], roots[j]) })

		acc := NewGraph()
		reached := backwardVisit(rg, roots, acc)
		res.merge(it.Proc, acc)

		for _, v := range reached {
			switch rv := v.(type) {
			case Argument:
				for _, c := range s.Callers.Callers(it.Proc) {
					work = append(work, Node{Proc: c, Loc: ArgumentOf{Callee: it.Proc, Index: rv.Index, Path: rv.Path}})
				}
			case ReturnOf:
				work = append(work, Node{Proc: rv.Callee, Loc: Return{Path: rv.Path}})
			}
		}
	}
	return res, nil
}

// backwardVisit runs a backward DFS over the predecessors recorded in rg
// from the expanded roots, adding every traversed edge to acc, and returns
// the visited vertices in visit order.
func backwardVisit(rg *Graph, roots []Vertex, acc *Graph) []Vertex {
	seen := map[Vertex]bool{}
	var order []Vertex
	var stack []Vertex

	for _, r := range roots {
		acc.AddVertex(r)
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

		for _, e := range rg.In(v) {
			acc.AddEdge(e)
			if !seen[e.Src] {
				stack = append(stack, e.Src)
			}
		}
	}
	return order
}
