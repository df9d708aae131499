package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns the nodes in insertion (slot) order. Callers must not modify
// the returned slice.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the edges in insertion order. Callers must not modify the
// returned slice.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Index returns the slot of the node with the given id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// HasNode reports whether the graph contains a node with the given id.
func (g *Graph) HasNode(id string) bool {
	if g == nil {
		return false
	}
	_, ok := g.index[id]
	return ok
}

// Node returns a node by its ID
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// OutNeighbors returns the distinct targets of edges leaving id, ordered by
// the first edge that reaches each of them.
func (g *Graph) OutNeighbors(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.collect(g.out[i], func(e *Edge) string { return e.Target })
}

// InNeighbors returns the distinct sources of edges arriving at id, ordered by
// the first edge that arrives from each of them.
func (g *Graph) InNeighbors(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.collect(g.in[i], func(e *Edge) string { return e.Source })
}

func (g *Graph) collect(edgeIdx []int, pick func(*Edge) string) []string {
	result := make([]string, 0, len(edgeIdx))
	seen := make(map[string]bool, len(edgeIdx))
	for _, ei := range edgeIdx {
		id := pick(&g.edges[ei])
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// HasEdge reports whether at least one edge runs from source to target.
func (g *Graph) HasEdge(source, target string) bool {
	si, ok := g.index[source]
	if !ok {
		return false
	}
	for _, ei := range g.out[si] {
		if g.edges[ei].Target == target {
			return true
		}
	}
	return false
}

// Degree returns the number of edge endpoints at id, ignoring self-loops.
func (g *Graph) Degree(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	d := 0
	for _, ei := range g.out[i] {
		if !g.edges[ei].SelfLoop() {
			d++
		}
	}
	for _, ei := range g.in[i] {
		if !g.edges[ei].SelfLoop() {
			d++
		}
	}
	return d
}

// Attribute returns a raw node attribute.
func (g *Graph) Attribute(id, key string) (any, bool) {
	n, ok := g.Node(id)
	if !ok {
		return nil, false
	}
	return n.Attributes.Get(key)
}

// AttributeList returns the node attributes in insertion order.
func (g *Graph) AttributeList(id string) []Attribute {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	list := make([]Attribute, 0, n.Attributes.Len())
	for pair := n.Attributes.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, Attribute{Key: pair.Key, Value: pair.Value})
	}
	return list
}

// Number returns a numeric node attribute. Missing, non-numeric and
// non-finite values read as 0.
func (g *Graph) Number(id, key string) float64 {
	v, ok := g.Attribute(id, key)
	if !ok {
		return 0
	}
	return toFloat(v)
}

// MaxNumber returns the largest value of a numeric attribute across all
// nodes, or 0 for an empty graph.
func (g *Graph) MaxNumber(key string) float64 {
	max := 0.0
	for i := range g.nodes {
		if v := g.Number(g.nodes[i].ID, key); v > max {
			max = v
		}
	}
	return max
}

// Label returns the node's label attribute, falling back to its id.
func (g *Graph) Label(id string) string {
	v, ok := g.Attribute(id, AttrLabel)
	if !ok || v == nil {
		return id
	}
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return id
}

func toFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case uint32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
