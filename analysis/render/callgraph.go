package render

import (
	"fmt"
	"io"

	"github.com/awslabs/lineage-tools/analysis/lineage"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// procNode adapts a procedure to a gonum DOT node.
type procNode struct {
	id   int64
	proc lineage.ProcID
}

func (n procNode) ID() int64 { return n.id }

// DOTID returns the procedure descriptor as the node name.
func (n procNode) DOTID() string { return n.proc.String() }

// WriteCallerGraph writes the caller relation of the index as a DOT graph,
// with an edge from each caller to each callee. Self-calls are folded into
// the node itself and not drawn; the recursive groups are reported through
// [lineage.CallerIndex.RecursiveGroups] instead. Node identifiers follow
// the sorted procedure order, so equal indexes render identically.
func WriteCallerGraph(idx lineage.CallerIndex, w io.Writer) error {
	dg := simple.NewDirectedGraph()
	procs := idx.Procs()
	nodes := map[lineage.ProcID]procNode{}
	for i, p := range procs {
		n := procNode{id: int64(i), proc: p}
		nodes[p] = n
		dg.AddNode(n)
	}
	for _, callee := range procs {
		for _, caller := range idx.Callers(callee) {
			if caller == callee {
				continue
			}
			from, to := nodes[caller], nodes[callee]
			if dg.HasEdgeFromTo(from.ID(), to.ID()) {
				continue
			}
			dg.SetEdge(dg.NewEdge(from, to))
		}
	}
	b, err := dot.Marshal(dg, "callers", "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal caller graph: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("error while writing in file: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	return err
}
