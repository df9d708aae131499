package viewer

import (
	"github.com/TFMV/graphwork/viewport"
)

// Kind names a gesture.
type Kind string

// Gesture kinds accepted by Apply.
const (
	PointerEnter Kind = "pointer_enter"
	PointerLeave Kind = "pointer_leave"
	PointerMove  Kind = "pointer_move"
	Click        Kind = "click"
	Select       Kind = "select"
	DragStart    Kind = "drag_start"
	DragMove     Kind = "drag_move"
	DragEnd      Kind = "drag_end"
	Zoom         Kind = "zoom"
	Pan          Kind = "pan"
	SetTransform Kind = "transform"
	ZoomIn       Kind = "zoom_in"
	ZoomOut      Kind = "zoom_out"
	PanLeft      Kind = "pan_left"
	PanRight     Kind = "pan_right"
	ResetView    Kind = "reset_view"
)

// Gesture is a transport-neutral user input. Screen coordinates are
// converted to world space by the session; Node is optional for gestures
// that can hit-test instead.
type Gesture struct {
	Kind      Kind                `json:"kind"`
	Node      string              `json:"node,omitempty"`
	Screen    *viewport.Point     `json:"screen,omitempty"`
	Factor    float64             `json:"factor,omitempty"`
	DX        float64             `json:"dx,omitempty"`
	DY        float64             `json:"dy,omitempty"`
	Transform *viewport.Transform `json:"transform,omitempty"`
}

// Apply dispatches a gesture and reports whether it changed any state.
// Malformed gestures and gestures naming unknown nodes are ignored.
func (s *Session) Apply(g Gesture) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.apply(g)
	s.metrics.Gesture(string(g.Kind), applied)
	return applied
}

func (s *Session) apply(g Gesture) bool {
	switch g.Kind {
	case PointerEnter:
		return s.machine.PointerEnter(g.Node)
	case PointerLeave:
		return s.machine.PointerLeave(g.Node)
	case PointerMove:
		if g.Screen == nil {
			return false
		}
		return s.pointerMove(*g.Screen)
	case Click:
		return s.click(g)
	case Select:
		return s.machine.Select(g.Node)
	case DragStart:
		return s.dragStart(g)
	case DragMove:
		if g.Screen == nil {
			return false
		}
		ok := s.machine.DragMove(s.view.ToWorld(*g.Screen))
		s.positions = s.sim.Positions()
		return ok
	case DragEnd:
		ok := s.machine.DragEnd()
		s.positions = s.sim.Positions()
		return ok
	case Zoom:
		if g.Screen == nil || g.Factor <= 0 {
			return false
		}
		return s.view.ZoomBy(g.Factor, *g.Screen)
	case Pan:
		return s.view.PanBy(g.DX, g.DY)
	case SetTransform:
		if g.Transform == nil {
			return false
		}
		return s.view.ApplyGestureTransform(*g.Transform)
	case ZoomIn:
		return s.view.ZoomIn()
	case ZoomOut:
		return s.view.ZoomOut()
	case PanLeft:
		return s.view.PanLeft()
	case PanRight:
		return s.view.PanRight()
	case ResetView:
		s.view.Reset()
		return true
	default:
		return false
	}
}

// pointerMove turns a raw pointer position into enter/leave transitions.
func (s *Session) pointerMove(p viewport.Point) bool {
	state := s.machine.State()
	if state.Dragged != "" {
		return false
	}
	hovered := state.Hovered
	id, hit := s.nodeAt(p)
	if hit && id == hovered {
		return false
	}
	changed := false
	if hovered != "" {
		changed = s.machine.PointerLeave(hovered)
	}
	if hit {
		changed = s.machine.PointerEnter(id) || changed
	}
	return changed
}

func (s *Session) click(g Gesture) bool {
	if g.Node != "" {
		return s.machine.Click(g.Node)
	}
	if g.Screen == nil {
		return false
	}
	if id, ok := s.nodeAt(*g.Screen); ok {
		return s.machine.Click(id)
	}
	return s.machine.ClickCanvas()
}

func (s *Session) dragStart(g Gesture) bool {
	if g.Screen == nil {
		return false
	}
	id := g.Node
	if id == "" {
		var ok bool
		if id, ok = s.nodeAt(*g.Screen); !ok {
			return false
		}
	}
	ok := s.machine.DragStart(id, s.view.ToWorld(*g.Screen))
	s.positions = s.sim.Positions()
	return ok
}
