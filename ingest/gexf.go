package ingest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/TFMV/graphwork/models"
)

type gexfDocument struct {
	XMLName xml.Name  `xml:"gexf"`
	Meta    gexfMeta  `xml:"meta"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfMeta struct {
	Creator     string `xml:"creator"`
	Description string `xml:"description"`
}

type gexfGraph struct {
	DefaultEdgeType string           `xml:"defaultedgetype,attr"`
	Attributes      []gexfAttributes `xml:"attributes"`
	Nodes           []gexfNode       `xml:"nodes>node"`
	Edges           []gexfEdge       `xml:"edges>edge"`
}

type gexfAttributes struct {
	Class      string          `xml:"class,attr"`
	Attributes []gexfAttribute `xml:"attribute"`
}

type gexfAttribute struct {
	ID      string  `xml:"id,attr"`
	Title   string  `xml:"title,attr"`
	Type    string  `xml:"type,attr"`
	Default *string `xml:"default"`
}

type gexfValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfNode struct {
	ID     string      `xml:"id,attr"`
	Label  string      `xml:"label,attr"`
	Values []gexfValue `xml:"attvalues>attvalue"`
}

type gexfEdge struct {
	ID     string      `xml:"id,attr"`
	Source string      `xml:"source,attr"`
	Target string      `xml:"target,attr"`
	Label  string      `xml:"label,attr"`
	Weight string      `xml:"weight,attr"`
	Values []gexfValue `xml:"attvalues>attvalue"`
}

// attributeModel maps declared attribute ids to their title and type for
// one class (node or edge).
type attributeModel struct {
	order []gexfAttribute
	byID  map[string]gexfAttribute
}

func newAttributeModel(defs []gexfAttribute) *attributeModel {
	m := &attributeModel{byID: make(map[string]gexfAttribute, len(defs))}
	for _, d := range defs {
		if d.Title == "" {
			d.Title = d.ID
		}
		m.order = append(m.order, d)
		m.byID[d.ID] = d
	}
	return m
}

// GEXFProcessor reads GEXF 1.x documents. Declared attribute titles become
// attribute keys, numeric types decode to float64 and booleans to bool.
// Every edge is imported as directed.
type GEXFProcessor struct{}

// NewGEXFProcessor creates a new GEXF processor
func NewGEXFProcessor() *GEXFProcessor {
	return &GEXFProcessor{}
}

// GetName returns the name of the processor
func (p *GEXFProcessor) GetName() string {
	return "GEXF Processor"
}

// ProcessData processes GEXF data
func (p *GEXFProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var doc gexfDocument
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing GEXF: %w", err)
	}

	var nodeDefs, edgeDefs []gexfAttribute
	for _, block := range doc.Graph.Attributes {
		switch strings.ToLower(block.Class) {
		case "edge":
			edgeDefs = append(edgeDefs, block.Attributes...)
		default:
			nodeDefs = append(nodeDefs, block.Attributes...)
		}
	}
	nodeModel := newAttributeModel(nodeDefs)
	edgeModel := newAttributeModel(edgeDefs)

	g := models.NewGraph(strings.TrimSpace(doc.Meta.Description))

	for _, n := range doc.Graph.Nodes {
		node := models.NewNode(n.ID)
		if n.Label != "" {
			node.Set(models.AttrLabel, n.Label)
		}
		attrs, err := nodeModel.decode(n.Values)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		for _, a := range attrs {
			node.Set(a.Key, a.Value)
		}
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}

	for _, e := range doc.Graph.Edges {
		edge := models.NewEdge(e.Source, e.Target)
		if e.ID != "" {
			edge.ID = e.ID
		}
		if e.Label != "" {
			edge.Set(models.AttrLabel, e.Label)
		}
		if e.Weight != "" {
			w, err := strconv.ParseFloat(e.Weight, 64)
			if err != nil {
				return nil, fmt.Errorf("edge %s: invalid weight %q", e.ID, e.Weight)
			}
			edge.Set("weight", w)
		}
		attrs, err := edgeModel.decode(e.Values)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
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

// decode converts attvalues in document order, then fills declared
// defaults that were not given.
func (m *attributeModel) decode(values []gexfValue) ([]models.Attribute, error) {
	out := make([]models.Attribute, 0, len(values))
	seen := make(map[string]bool, len(values))

	for _, v := range values {
		def, ok := m.byID[v.For]
		if !ok {
			def = gexfAttribute{ID: v.For, Title: v.For, Type: "string"}
		}
		val, err := convertValue(def.Type, v.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", def.Title, err)
		}
		out = append(out, models.Attribute{Key: def.Title, Value: val})
		seen[def.ID] = true
	}

	for _, def := range m.order {
		if seen[def.ID] || def.Default == nil {
			continue
		}
		val, err := convertValue(def.Type, strings.TrimSpace(*def.Default))
		if err != nil {
			return nil, fmt.Errorf("default of attribute %s: %w", def.Title, err)
		}
		out = append(out, models.Attribute{Key: def.Title, Value: val})
	}
	return out, nil
}

func convertValue(typ, raw string) (any, error) {
	switch strings.ToLower(typ) {
	case "integer", "long", "float", "double", "short", "byte", "bigdecimal", "biginteger":
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", typ, raw)
		}
		return f, nil
	case "boolean":
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value %q", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}
