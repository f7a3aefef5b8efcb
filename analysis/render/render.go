package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/awslabs/lineage-tools/analysis/lineage"
)

// edgeColor defines specific colors for specific edges in a lineage graph
// - a summary edge will be colored with a blue edge
// - call and return edges will be colored with a red edge
// - all other edges will have a default color edge
func edgeColor(e lineage.Edge) string {
	switch e.Kind.Op {
	case lineage.OpSummary:
		return " [color=blue]"
	case lineage.OpCall, lineage.OpReturn:
		return " [color=red]"
	default:
		return ""
	}
}

// WriteGraphviz writes a graphviz representation of one procedure's
// subgraph to w. The procedure description becomes the graph label. Output
// is stable: edges and isolated vertices appear in sorted order.
func WriteGraphviz(proc lineage.ProcID, desc string, g *lineage.Graph, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", proc.String())
	fmt.Fprintf(&b, "  label=%q;\n", desc)
	touched := map[lineage.Vertex]bool{}
	for _, e := range g.Edges() {
		touched[e.Src] = true
		touched[e.Dst] = true
		fmt.Fprintf(&b, "  %q -> %q [label=%q]%s;\n",
			e.Src.String(), e.Dst.String(), e.Kind.String(), edgeColor(e))
	}
	for _, v := range g.Vertices() {
		if !touched[v] {
			fmt.Fprintf(&b, "  %q;\n", v.String())
		}
	}
	b.WriteString("}\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("error while writing in file: %w", err)
	}
	return nil
}

// DotWriter serializes per-procedure subgraphs into numbered .dot files in
// a directory, creating the directory on first use. It implements
// [lineage.GraphWriter].
type DotWriter struct {
	// Dir is the destination directory.
	Dir string

	// Prefix names the files: <prefix>-<n>.dot
	Prefix string

	n int
}

// NewDotWriter returns a writer placing <prefix>-<n>.dot files in dir.
func NewDotWriter(dir string, prefix string) *DotWriter {
	return &DotWriter{Dir: dir, Prefix: prefix}
}

// WriteGraph writes one procedure's subgraph as the next numbered file.
func (dw *DotWriter) WriteGraph(proc lineage.ProcID, desc string, g *lineage.Graph) error {
	if err := os.MkdirAll(dw.Dir, 0750); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dw.Dir, err)
	}
	filename := filepath.Join(dw.Dir, fmt.Sprintf("%s-%d.dot", dw.Prefix, dw.n))
	dw.n++
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	return WriteGraphviz(proc, desc, g, w)
}
