// Package style maps a node, the interaction state and the graph to the
// node's visual attributes. Resolution is pure: the same inputs always give
// the same Attributes and nothing is mutated.
package style

import (
	"math"

	"github.com/TFMV/graphwork/interaction"
	"github.com/TFMV/graphwork/models"
)

// Palette holds the colours and size constants used by the resolver.
type Palette struct {
	Selected        string  `toml:"selected" json:"selected"`
	Inbound         string  `toml:"inbound" json:"inbound"`
	Outbound        string  `toml:"outbound" json:"outbound"`
	Base            string  `toml:"base" json:"base"`
	HighlightStroke string  `toml:"highlight_stroke" json:"highlight_stroke"`
	DefaultStroke   string  `toml:"default_stroke" json:"default_stroke"`
	Edge            string  `toml:"edge" json:"edge"`
	BaseRadius      float64 `toml:"base_radius" json:"base_radius"`
	FloorRatio      float64 `toml:"floor_ratio" json:"floor_ratio"`
}

// DefaultPalette returns the stock highlight colours.
func DefaultPalette() Palette {
	return Palette{
		Selected:        "#0f0",
		Inbound:         "#f66",
		Outbound:        "#a00",
		Base:            "#000",
		HighlightStroke: "#ccc",
		DefaultStroke:   "#fff",
		Edge:            "#ccc",
		BaseRadius:      5,
		FloorRatio:      0.1,
	}
}

// Attributes are the derived visuals of one node.
type Attributes struct {
	Fill    string  `json:"fill"`
	Stroke  string  `json:"stroke"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`
}

// Resolver resolves node styles for one graph. It caches only values derived
// from the immutable graph.
type Resolver struct {
	graph      *models.Graph
	palette    Palette
	maxNar     float64
	maxClosure float64
}

// NewResolver creates a resolver for g.
func NewResolver(g *models.Graph, palette Palette) *Resolver {
	return &Resolver{
		graph:      g,
		palette:    palette,
		maxNar:     g.MaxNumber(models.AttrNarSize),
		maxClosure: g.MaxNumber(models.AttrClosureSize),
	}
}

// Palette returns the resolver's palette.
func (r *Resolver) Palette() Palette {
	return r.palette
}

// Resolve returns the attributes of node id under state.
func (r *Resolver) Resolve(id string, state interaction.State) Attributes {
	return Attributes{
		Fill:    r.fill(id, state),
		Stroke:  r.stroke(id, state),
		Radius:  r.Radius(id),
		Opacity: r.Opacity(id),
	}
}

// ResolveAll resolves every node in graph order.
func (r *Resolver) ResolveAll(state interaction.State) []Attributes {
	nodes := r.graph.Nodes()
	out := make([]Attributes, len(nodes))
	for i := range nodes {
		out[i] = r.Resolve(nodes[i].ID, state)
	}
	return out
}

// Radius depends only on the graph, so hit-testing can use it without an
// interaction state.
func (r *Resolver) Radius(id string) float64 {
	return r.floored(r.graph.Number(id, models.AttrNarSize), r.maxNar) * r.palette.BaseRadius
}

// Opacity depends only on the graph.
func (r *Resolver) Opacity(id string) float64 {
	return r.floored(r.graph.Number(id, models.AttrClosureSize), r.maxClosure)
}

func (r *Resolver) floored(v, max float64) float64 {
	ratio := 0.0
	if max > 0 {
		ratio = v / max
	}
	return math.Max(ratio, r.palette.FloorRatio)
}

func (r *Resolver) stroke(id string, state interaction.State) string {
	if state.Hovered != "" && id == state.Hovered {
		return r.palette.HighlightStroke
	}
	return r.palette.DefaultStroke
}

// fill applies the fixed precedence selected > inbound > outbound > base.
func (r *Resolver) fill(id string, state interaction.State) string {
	sel := state.Selected
	switch {
	case sel == "":
		return r.palette.Base
	case id == sel:
		return r.palette.Selected
	case r.graph.HasEdge(id, sel):
		return r.palette.Inbound
	case r.graph.HasEdge(sel, id):
		return r.palette.Outbound
	default:
		return r.palette.Base
	}
}
