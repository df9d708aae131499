// Package render turns viewer frames into output documents.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TFMV/graphwork/viewer"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format     string  // Output format (svg, json, ascii, dot)
	Width      float64 // Width of the output; 0 uses the frame width
	Height     float64 // Height of the output; 0 uses the frame height
	Background string  // Background color
	FontSize   float64 // Font size for labels
	ShowLabels bool    // Show node labels
	Timestamp  bool    // Include timestamp in visualization
	Indent     bool    // Pretty-print structured formats
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render creates a visualization of the frame using the provided options
	Render(frame *viewer.Frame, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:     format,
		Background: "#fff",
		FontSize:   10,
	}
}

var renderers = map[string]func() Renderer{
	"svg":   func() Renderer { return &SVGRenderer{} },
	"json":  func() Renderer { return &JSONRenderer{} },
	"ascii": func() Renderer { return &ASCIIRenderer{} },
	"dot":   func() Renderer { return &DOTRenderer{} },
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	newRenderer, ok := renderers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return newRenderer(), nil
}

// Formats lists the supported output formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(renderers))
	for name := range renderers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "svg":
		return "image/svg+xml"
	case "json":
		return "application/json"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render renders frame with the renderer named by options.Format.
func Render(frame *viewer.Frame, options *OutputOptions) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("no frame to render")
	}
	if options == nil {
		options = NewDefaultOptions("svg")
	}
	r, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	out, err := r.Render(frame, options)
	if err != nil {
		return nil, fmt.Errorf("rendering failed: %w", err)
	}
	return out, nil
}

func dimensions(frame *viewer.Frame, options *OutputOptions) (float64, float64) {
	w, h := options.Width, options.Height
	if w <= 0 {
		w = frame.Width
	}
	if h <= 0 {
		h = frame.Height
	}
	return w, h
}
