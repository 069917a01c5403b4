package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/encodeous/topomon/state"
	"github.com/encodeous/topomon/topology"
)

// WriteDOT writes g as an undirected Graphviz graph. Edges kept in forest are
// drawn solid blue, the rest dashed gray.
func WriteDOT(w io.Writer, g, forest *topology.Graph) error {
	var buf bytes.Buffer
	buf.WriteString("graph topology {\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=lightgreen];\n")

	for _, id := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q;\n", id)
	}
	for _, e := range g.Edges() {
		attrs := "color=gray, style=dashed"
		if forest.HasEdge(e.A, e.B) {
			attrs = "color=blue, penwidth=2"
		}
		fmt.Fprintf(&buf, "  %q -- %q [label=%q, %s];\n", e.A, e.B, state.FormatBandwidth(e.Bandwidth), attrs)
	}

	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}
