package ingest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/TFMV/graphwork/models"
)

// YAMLProcessor reads the same document shape as JSONProcessor written as
// YAML.
type YAMLProcessor struct{}

// NewYAMLProcessor creates a new YAML processor
func NewYAMLProcessor() *YAMLProcessor {
	return &YAMLProcessor{}
}

// GetName returns the name of the processor
func (p *YAMLProcessor) GetName() string {
	return "YAML Processor"
}

// ProcessData processes YAML data
func (p *YAMLProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc document[yaml.Node]
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	return build(&doc, decodeYAMLAttributes)
}

// decodeYAMLAttributes walks the mapping node directly so keys keep their
// document order.
func decodeYAMLAttributes(n yaml.Node) ([]models.Attribute, error) {
	if n.Kind == 0 || n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: attributes must be a mapping", n.Line)
	}

	out := make([]models.Attribute, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: attribute %s: %w", val.Line, key.Value, err)
		}
		out = append(out, models.Attribute{Key: key.Value, Value: v})
	}
	return out, nil
}
