package render

import (
	"encoding/json"

	"github.com/TFMV/graphwork/viewer"
)

// JSONRenderer outputs the frame itself as JSON for client-side drawing.
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the frame as JSON with screen positions and resolved styles"
}

// Render marshals the frame
func (r *JSONRenderer) Render(frame *viewer.Frame, options *OutputOptions) ([]byte, error) {
	if options.Indent {
		return json.MarshalIndent(frame, "", "  ")
	}
	return json.Marshal(frame)
}
