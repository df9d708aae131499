// Package ingest turns graph files into models.Graph values.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/graphwork/models"
)

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a graph representation
	ProcessData(data []byte) (*models.Graph, error)

	// GetName returns the name of the processor
	GetName() string
}

// Formats lists the accepted format names.
var Formats = []string{"gexf", "json", "yaml"}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "gexf", "xml":
		return NewGEXFProcessor(), nil
	case "json":
		return NewJSONProcessor(), nil
	case "yaml", "yml":
		return NewYAMLProcessor(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ProcessFile reads a graph file and picks the processor from its
// extension. Graphs without a name of their own are named after the file.
func ProcessFile(path string) (*models.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ProcessNamed(filepath.Base(path), data)
}

// ProcessNamed processes data whose format is taken from the extension of
// name, as for an uploaded file.
func ProcessNamed(name string, data []byte) (*models.Graph, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return nil, fmt.Errorf("cannot detect format of %q: no file extension", name)
	}
	processor, err := GetProcessor(ext)
	if err != nil {
		return nil, err
	}

	g, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", name, err)
	}
	if g.Name == "" {
		g.Name = strings.TrimSuffix(name, ext)
	}
	return g, nil
}

// document is the shared JSON/YAML shape before attribute decoding.
type document[A any] struct {
	Name  string `json:"name" yaml:"name"`
	Nodes []struct {
		ID         string `json:"id" yaml:"id"`
		Label      string `json:"label" yaml:"label"`
		Attributes A      `json:"attributes" yaml:"attributes"`
	} `json:"nodes" yaml:"nodes"`
	Edges []struct {
		ID         string `json:"id" yaml:"id"`
		Source     string `json:"source" yaml:"source"`
		Target     string `json:"target" yaml:"target"`
		Attributes A      `json:"attributes" yaml:"attributes"`
	} `json:"edges" yaml:"edges"`
}

// build assembles a graph from a decoded document. decode turns a raw
// attribute block into ordered pairs.
func build[A any](doc *document[A], decode func(A) ([]models.Attribute, error)) (*models.Graph, error) {
	g := models.NewGraph(doc.Name)

	for i, n := range doc.Nodes {
		node := models.NewNode(n.ID)
		if n.Label != "" {
			node.Set(models.AttrLabel, n.Label)
		}
		attrs, err := decode(n.Attributes)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.ID, err)
		}
		for _, a := range attrs {
			node.Set(a.Key, a.Value)
		}
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}

	for i, e := range doc.Edges {
		edge := models.NewEdge(e.Source, e.Target)
		if e.ID != "" {
			edge.ID = e.ID
		}
		attrs, err := decode(e.Attributes)
		if err != nil {
			return nil, fmt.Errorf("edge %d (%s -> %s): %w", i, e.Source, e.Target, err)
		}
		for _, a := range attrs {
			edge.Set(a.Key, a.Value)
		}
		if err := g.AddEdge(edge); err != nil {
			return nil, err
		}
	}
	return g, nil
}
