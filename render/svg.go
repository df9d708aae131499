package render

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/TFMV/graphwork/viewer"
	"github.com/TFMV/graphwork/viewport"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the current frame as Scalable Vector Graphics (SVG)"
}

// Render draws nodes and links in world coordinates inside a group carrying
// the viewport transform, so radii and strokes scale with zoom.
func (r *SVGRenderer) Render(frame *viewer.Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	width, height := dimensions(frame, options)

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg" style="max-width: 100%%; height: auto;">
`, width, height, width, height)
	if options.Background != "" {
		fmt.Fprintf(&buf, "<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", html.EscapeString(options.Background))
	}

	t := frame.Transform
	fmt.Fprintf(&buf, "<g transform=\"translate(%g,%g) scale(%g)\">\n", t.X, t.Y, t.K)

	world := make(map[string]viewport.Point, len(frame.Nodes))
	for _, n := range frame.Nodes {
		world[n.ID] = n.World
	}

	fmt.Fprintf(&buf, "<g stroke=\"%s\">\n", html.EscapeString(frame.EdgeColor))
	for _, e := range frame.Edges {
		from, to := world[e.Source], world[e.Target]
		fmt.Fprintf(&buf, "<line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke-width=\"1\"/>\n",
			from.X, from.Y, to.X, to.Y)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<g stroke-width=\"1.5\">\n")
	for _, n := range frame.Nodes {
		fmt.Fprintf(&buf, "<circle id=\"%s\" cx=\"%g\" cy=\"%g\" r=\"%g\" opacity=\"%g\" fill=\"%s\" stroke=\"%s\"><title>%s</title></circle>\n",
			html.EscapeString(n.ID), n.World.X, n.World.Y, n.Style.Radius, n.Style.Opacity,
			html.EscapeString(n.Style.Fill), html.EscapeString(n.Style.Stroke), html.EscapeString(n.ID))
		if options.ShowLabels {
			fmt.Fprintf(&buf, "<text x=\"%g\" y=\"%g\" font-family=\"sans-serif\" font-size=\"%g\" fill=\"#333\" text-anchor=\"middle\">%s</text>\n",
				n.World.X, n.World.Y+n.Style.Radius+options.FontSize, options.FontSize, html.EscapeString(n.Label))
		}
	}
	buf.WriteString("</g>\n</g>\n")

	if options.Timestamp {
		fmt.Fprintf(&buf, "<text x=\"5\" y=\"%g\" font-family=\"sans-serif\" font-size=\"8\" fill=\"#808080\">%s</text>\n",
			height-5, time.Now().Format("2006-01-02 15:04:05"))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
