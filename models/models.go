// Package models provides the graph model shared by the layout engine, the
// interaction machine and the style resolver.
//
// A Graph is built once per import with AddNode/AddEdge and is treated as
// read-only afterwards. Replacing the displayed graph means building a new
// Graph, never mutating the current one.
package models

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Well-known node attribute keys.
const (
	AttrLabel       = "label"
	AttrNarSize     = "narSize"
	AttrClosureSize = "closureSize"
)

// Attributes is an insertion-ordered attribute map.
type Attributes = orderedmap.OrderedMap[string, any]

// Node represents a node in the graph
type Node struct {
	ID         string
	Attributes *Attributes
}

// Edge represents a directed edge between two nodes
type Edge struct {
	ID         string
	Source     string // ID of the source node
	Target     string // ID of the target node
	Attributes *Attributes
}

// SelfLoop reports whether the edge starts and ends on the same node.
func (e *Edge) SelfLoop() bool {
	return e.Source == e.Target
}

// Graph is a directed multigraph with per-node and per-edge attributes.
type Graph struct {
	ID        string
	Name      string
	CreatedAt time.Time

	nodes []Node
	edges []Edge
	index map[string]int // node id -> slot
	out   [][]int        // slot -> outgoing edge indices
	in    [][]int        // slot -> incoming edge indices
}

// Attribute is a single key/value pair in attribute order.
type Attribute struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}
