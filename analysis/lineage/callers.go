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
	"sort"

	"github.com/awslabs/lineage-tools/internal/funcutil"
	"github.com/yourbasic/graph"
)

// CallerIndex maps each known procedure to its direct callers. A missing
// key means no caller was recorded. The same caller may appear several
// times for one callee; consumers iterate tolerantly and deduplicate
// through their visited sets.
type CallerIndex map[ProcID][]ProcID

// BuildCallerIndex scans every persisted summary once and inverts the call
// relation: for each dependency d of a summary owned by p, p is appended to
// the callers of d. A summary whose dependency set is marked incomplete
// aborts the build with ErrCorruptSummary.
func BuildCallerIndex(store Store) (CallerIndex, error) {
	idx := CallerIndex{}
	err := store.Iterate(func(owner ProcID, deps DepSet) error {
		if !deps.Complete {
			return fmt.Errorf("%w: dependency set of %s is partial", ErrCorruptSummary, owner)
		}
		for _, d := range deps.Procs {
			idx[d] = append(idx[d], owner)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Callers returns the recorded callers of p, possibly with duplicates.
func (idx CallerIndex) Callers(p ProcID) []ProcID {
	return idx[p]
}

// Procs returns every procedure mentioned in the index, callers included,
// in sorted order.
func (idx CallerIndex) Procs() []ProcID {
	seen := map[ProcID]bool{}
	for callee, callers := range idx {
		seen[callee] = true
		for _, c := range callers {
			seen[c] = true
		}
	}
	ps := make([]ProcID, 0, len(seen))
	for p := range seen {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
	return ps
}

// RecursiveGroups returns the groups of procedures that call each other
// directly or transitively, computed as the strongly connected components
// of the call relation recorded in the index. Groups of a single
// non-self-calling procedure are omitted. The result only informs
// diagnostics: recursion is already folded into summary edges by the
// summary producers.
func (idx CallerIndex) RecursiveGroups() [][]ProcID {
	procs := idx.Procs()
	pos := map[ProcID]int{}
	for i, p := range procs {
		pos[p] = i
	}
	g := graph.New(len(procs))
	for _, p := range procs {
		for _, c := range idx.Callers(p) {
			g.Add(pos[c], pos[p])
		}
	}
	var groups [][]ProcID
	for _, comp := range graph.StrongComponents(g) {
		if len(comp) == 1 && !g.Edge(comp[0], comp[0]) {
			continue
		}
		sort.Ints(comp)
		groups = append(groups, funcutil.Map(comp, func(i int) ProcID { return procs[i] }))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0].Less(groups[j][0]) })
	return groups
}
