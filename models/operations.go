package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NewAttributes creates an empty attribute map.
func NewAttributes() *Attributes {
	return orderedmap.New[string, any]()
}

// NewNode creates a node with the given id and an empty attribute map
func NewNode(id string) *Node {
	return &Node{
		ID:         id,
		Attributes: NewAttributes(),
	}
}

// NewEdge creates a new edge with a unique ID
func NewEdge(source, target string) *Edge {
	return &Edge{
		ID:         uuid.New().String(),
		Source:     source,
		Target:     target,
		Attributes: NewAttributes(),
	}
}

// Set stores an attribute on the node and returns the node for chaining.
func (n *Node) Set(key string, value any) *Node {
	if n.Attributes == nil {
		n.Attributes = NewAttributes()
	}
	n.Attributes.Set(key, value)
	return n
}

// Set stores an attribute on the edge and returns the edge for chaining.
func (e *Edge) Set(key string, value any) *Edge {
	if e.Attributes == nil {
		e.Attributes = NewAttributes()
	}
	e.Attributes.Set(key, value)
	return e
}

// NewGraph creates a new empty graph with a unique ID
func NewGraph(name string) *Graph {
	return &Graph{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
		index:     make(map[string]int),
	}
}

// AddNode adds a node to the graph. Node ids must be non-empty and unique.
func (g *Graph) AddNode(node *Node) error {
	if node.ID == "" {
		return fmt.Errorf("node id must not be empty")
	}
	if _, exists := g.index[node.ID]; exists {
		return fmt.Errorf("node with ID %s already exists in the graph", node.ID)
	}

	n := *node
	if n.Attributes == nil {
		n.Attributes = NewAttributes()
	}

	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return nil
}

// AddEdge adds an edge to the graph
func (g *Graph) AddEdge(edge *Edge) error {
	source, sourceExists := g.index[edge.Source]
	if !sourceExists {
		return fmt.Errorf("source node with ID %s does not exist in the graph", edge.Source)
	}
	target, targetExists := g.index[edge.Target]
	if !targetExists {
		return fmt.Errorf("target node with ID %s does not exist in the graph", edge.Target)
	}

	e := *edge
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Attributes == nil {
		e.Attributes = NewAttributes()
	}

	i := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[source] = append(g.out[source], i)
	g.in[target] = append(g.in[target], i)
	return nil
}
