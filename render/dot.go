package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/TFMV/graphwork/viewer"
)

// DOTRenderer outputs Graphviz DOT with pinned positions
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the frame in Graphviz DOT format with fixed node positions"
}

// Render writes one node statement per node in points, with y flipped for
// Graphviz's bottom-left origin.
func (r *DOTRenderer) Render(frame *viewer.Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	width, height := dimensions(frame, options)

	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%s, size=\"%g,%g\"];\n",
		strconv.Quote(options.Background), width/72.0, height/72.0)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\"];\n")
	fmt.Fprintf(&buf, "  edge [color=%s, arrowsize=0.5];\n", strconv.Quote(frame.EdgeColor))

	for _, n := range frame.Nodes {
		fmt.Fprintf(&buf, "  %s [tooltip=%s, fillcolor=%s, color=%s, width=%g, pos=\"%g,%g!\"];\n",
			strconv.Quote(n.ID), strconv.Quote(n.Label),
			strconv.Quote(n.Style.Fill), strconv.Quote(n.Style.Stroke),
			2*n.Style.Radius*frame.Transform.K/72.0, n.Screen.X, height-n.Screen.Y)
	}
	for _, e := range frame.Edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", strconv.Quote(e.Source), strconv.Quote(e.Target))
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
