package viewer

import (
	"math"

	"github.com/TFMV/graphwork/interaction"
	"github.com/TFMV/graphwork/models"
	"github.com/TFMV/graphwork/style"
	"github.com/TFMV/graphwork/viewport"
)

// Frame is everything a renderer needs to draw one frame.
type Frame struct {
	Sequence  uint64             `json:"sequence"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Transform viewport.Transform `json:"transform"`
	Alpha     float64            `json:"alpha"`
	Settled   bool               `json:"settled"`
	State     interaction.State  `json:"state"`
	EdgeColor string             `json:"edge_color"`
	Nodes     []NodeFrame        `json:"nodes"`
	Edges     []EdgeFrame        `json:"edges"`
}

// NodeFrame is one node's position and style.
type NodeFrame struct {
	ID     string           `json:"id"`
	Label  string           `json:"label"`
	World  viewport.Point   `json:"world"`
	Screen viewport.Point   `json:"screen"`
	Style  style.Attributes `json:"style"`
}

// EdgeFrame holds the screen positions of an edge's endpoints.
type EdgeFrame struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	From   viewport.Point `json:"from"`
	To     viewport.Point `json:"to"`
}

// Neighbor is a sidebar entry.
type Neighbor struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Sidebar describes the selected node for list widgets.
type Sidebar struct {
	Selected   string             `json:"selected,omitempty"`
	Label      string             `json:"label,omitempty"`
	Attributes []models.Attribute `json:"attributes,omitempty"`
	Connected  []Neighbor         `json:"connected"`
	NeededBy   []Neighbor         `json:"needed_by"`
}

// Frame builds the current frame.
func (s *Session) Frame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.view.Transform()
	state := s.machine.State()
	nodes := s.graph.Nodes()
	styles := s.resolver.ResolveAll(state)

	f := &Frame{
		Sequence:  s.sequence,
		Width:     s.sim.Config().Width,
		Height:    s.sim.Config().Height,
		Transform: t,
		Alpha:     s.sim.Alpha(),
		Settled:   !s.sim.Active(),
		State:     state,
		EdgeColor: s.palette.Edge,
		Nodes:     make([]NodeFrame, len(nodes)),
		Edges:     make([]EdgeFrame, 0, s.graph.EdgeCount()),
	}

	for i := range nodes {
		world := s.world(i)
		f.Nodes[i] = NodeFrame{
			ID:     nodes[i].ID,
			Label:  s.graph.Label(nodes[i].ID),
			World:  world,
			Screen: t.Apply(world),
			Style:  styles[i],
		}
	}

	edges := s.graph.Edges()
	for i := range edges {
		si, _ := s.graph.Index(edges[i].Source)
		ti, _ := s.graph.Index(edges[i].Target)
		f.Edges = append(f.Edges, EdgeFrame{
			Source: edges[i].Source,
			Target: edges[i].Target,
			From:   f.Nodes[si].Screen,
			To:     f.Nodes[ti].Screen,
		})
	}
	return f
}

// Sidebar returns the selection panel for the current selection.
func (s *Session) Sidebar() *Sidebar {
	s.mu.Lock()
	defer s.mu.Unlock()

	sb := &Sidebar{Connected: []Neighbor{}, NeededBy: []Neighbor{}}
	sel := s.machine.State().Selected
	if sel == "" || !s.graph.HasNode(sel) {
		return sb
	}

	sb.Selected = sel
	sb.Label = s.graph.Label(sel)
	sb.Attributes = s.graph.AttributeList(sel)
	for _, id := range s.graph.OutNeighbors(sel) {
		sb.Connected = append(sb.Connected, Neighbor{ID: id, Label: s.graph.Label(id)})
	}
	for _, id := range s.graph.InNeighbors(sel) {
		sb.NeededBy = append(sb.NeededBy, Neighbor{ID: id, Label: s.graph.Label(id)})
	}
	return sb
}

// NodeAt returns the topmost node under a screen point.
func (s *Session) NodeAt(p viewport.Point) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodeAt(p)
}

// nodeAt hit-tests in world space, so the result does not depend on pan or
// zoom. Nodes drawn later win. Callers hold s.mu.
func (s *Session) nodeAt(p viewport.Point) (string, bool) {
	w := s.view.ToWorld(p)
	nodes := s.graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		pos := s.world(i)
		r := s.resolver.Radius(nodes[i].ID)
		if math.Hypot(w.X-pos.X, w.Y-pos.Y) <= r {
			return nodes[i].ID, true
		}
	}
	return "", false
}

func (s *Session) world(i int) viewport.Point {
	if i >= len(s.positions) {
		return viewport.Point{}
	}
	return viewport.Point{X: s.positions[i].X, Y: s.positions[i].Y}
}
