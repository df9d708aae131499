package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/TFMV/graphwork/models"
)

// JSONProcessor reads graphs of the form
//
//	{"name": "...", "nodes": [{"id", "label", "attributes"}], "edges": [{"id", "source", "target", "attributes"}]}
//
// Attribute order is preserved.
type JSONProcessor struct{}

// NewJSONProcessor creates a new JSON processor
func NewJSONProcessor() *JSONProcessor {
	return &JSONProcessor{}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data
func (p *JSONProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc document[json.RawMessage]
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return build(&doc, decodeJSONAttributes)
}

func decodeJSONAttributes(raw json.RawMessage) ([]models.Attribute, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	attrs := models.NewAttributes()
	if err := attrs.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("error parsing attributes: %w", err)
	}

	out := make([]models.Attribute, 0, attrs.Len())
	for pair := attrs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, models.Attribute{Key: pair.Key, Value: pair.Value})
	}
	return out, nil
}
