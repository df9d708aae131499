// Package interaction holds the hover/select/drag state machine and the
// rules by which pointer gestures mutate it and the simulation.
package interaction

import (
	"github.com/TFMV/graphwork/models"
	"github.com/TFMV/graphwork/viewport"
)

// State is the transient UI state. An empty string means the field is unset.
type State struct {
	Hovered  string `json:"hovered,omitempty"`
	Selected string `json:"selected,omitempty"`
	Dragged  string `json:"dragged,omitempty"`
}

// Pinner is the single channel through which interaction mutates the
// simulation.
type Pinner interface {
	Pin(id string, x, y float64) bool
	Unpin(id string)
	Reheat()
	Cool()
}

// Machine applies gestures to State. Gestures that reference a node missing
// from the current graph are ignored and report false.
//
// Machine is not safe for concurrent use; callers serialise gestures with
// simulation steps.
type Machine struct {
	graph  *models.Graph
	pinner Pinner
	state  State
}

// NewMachine creates a machine bound to g with empty state.
func NewMachine(g *models.Graph, pinner Pinner) *Machine {
	return &Machine{graph: g, pinner: pinner}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// PointerEnter marks id as hovered unless a drag is in progress.
func (m *Machine) PointerEnter(id string) bool {
	if !m.graph.HasNode(id) || m.state.Dragged != "" {
		return false
	}
	m.state.Hovered = id
	return true
}

// PointerLeave clears the hover if it is still on id. Stale leaves for a
// node that is no longer hovered are ignored.
func (m *Machine) PointerLeave(id string) bool {
	if m.state.Hovered == "" || m.state.Hovered != id {
		return false
	}
	m.state.Hovered = ""
	return true
}

// Click toggles the selection of id.
func (m *Machine) Click(id string) bool {
	if !m.graph.HasNode(id) {
		return false
	}
	if m.state.Selected == id {
		m.state.Selected = ""
	} else {
		m.state.Selected = id
	}
	return true
}

// ClickCanvas clears the selection.
func (m *Machine) ClickCanvas() bool {
	if m.state.Selected == "" {
		return false
	}
	m.state.Selected = ""
	return true
}

// Select sets the selection without toggling, as a click on a neighbour
// entry in the sidebar does.
func (m *Machine) Select(id string) bool {
	if !m.graph.HasNode(id) {
		return false
	}
	m.state.Selected = id
	return true
}

// DragStart pins id at the pointer's world position and reheats the
// simulation. A drag already in progress is ended first. Non-finite points
// are ignored.
func (m *Machine) DragStart(id string, p viewport.Point) bool {
	if !m.graph.HasNode(id) || !p.IsFinite() {
		return false
	}
	if m.state.Dragged != "" {
		m.DragEnd()
	}
	if !m.pinner.Pin(id, p.X, p.Y) {
		return false
	}
	m.state.Dragged = id
	m.pinner.Reheat()
	return true
}

// DragMove moves the pin of the dragged node to p.
func (m *Machine) DragMove(p viewport.Point) bool {
	if m.state.Dragged == "" || !p.IsFinite() {
		return false
	}
	return m.pinner.Pin(m.state.Dragged, p.X, p.Y)
}

// DragEnd releases the dragged node and lets the simulation cool.
func (m *Machine) DragEnd() bool {
	if m.state.Dragged == "" {
		return false
	}
	m.pinner.Unpin(m.state.Dragged)
	m.pinner.Cool()
	m.state.Dragged = ""
	return true
}

// GraphReplaced rebinds the machine to g and resets every field. The caller
// re-initialises the simulation for g.
func (m *Machine) GraphReplaced(g *models.Graph) {
	m.graph = g
	m.state = State{}
}
