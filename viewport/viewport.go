// Package viewport tracks the pan/zoom transform applied to the rendered
// scene and converts between world and screen coordinates.
package viewport

import (
	"math"
	"sync"
)

// Default scale bounds and button steps.
const (
	DefaultMinScale = 0.25
	DefaultMaxScale = 10
	DefaultZoomStep = 2
	DefaultPanStep  = 50
)

// Point is a 2D coordinate in either world or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform maps world to screen: screen = world*K + (X, Y).
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the transform with no pan and unit scale.
var Identity = Transform{K: 1}

// Apply converts a world point to screen space.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert converts a screen point to world space.
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Options configures a Manager.
type Options struct {
	Width    float64 `toml:"-"`
	Height   float64 `toml:"-"`
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`
	ZoomStep float64 `toml:"zoom_step"`
	PanStep  float64 `toml:"pan_step"`
}

// DefaultOptions returns the stock scale extent and button steps for a
// canvas of the given size.
func DefaultOptions(width, height float64) Options {
	return Options{
		Width:    width,
		Height:   height,
		MinScale: DefaultMinScale,
		MaxScale: DefaultMaxScale,
		ZoomStep: DefaultZoomStep,
		PanStep:  DefaultPanStep,
	}
}

// Manager owns the viewport transform. Translation is not bounded; only the
// scale is clamped.
type Manager struct {
	mu   sync.RWMutex
	opts Options
	t    Transform
}

// NewManager creates a manager at the identity transform.
func NewManager(opts Options) *Manager {
	if opts.MinScale <= 0 {
		opts.MinScale = DefaultMinScale
	}
	if opts.MaxScale < opts.MinScale {
		opts.MaxScale = opts.MinScale
	}
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = DefaultZoomStep
	}
	return &Manager{opts: opts, t: Identity}
}

// Transform returns the current transform.
func (m *Manager) Transform() Transform {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.t
}

// ZoomBy multiplies the scale by factor, clamped to the scale extent, keeping
// the world point under anchor (a screen point) fixed on screen. It reports
// false and leaves the transform alone when the result would not be finite.
func (m *Manager) ZoomBy(factor float64, anchor Point) bool {
	if factor <= 0 || !isFinite(factor) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	world := m.t.Invert(anchor)
	k := m.clamp(m.t.K * factor)
	return m.set(Transform{
		K: k,
		X: anchor.X - world.X*k,
		Y: anchor.Y - world.Y*k,
	})
}

// PanBy shifts the translation by (dx, dy) screen units regardless of scale.
// Pans that would overflow the translation are ignored.
func (m *Manager) PanBy(dx, dy float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.set(Transform{K: m.t.K, X: m.t.X + dx, Y: m.t.Y + dy})
}

// ApplyGestureTransform replaces the whole transform, as produced by a live
// pan/zoom gesture. The scale is clamped; a non-finite translation is
// rejected.
func (m *Manager) ApplyGestureTransform(t Transform) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.K <= 0 || !isFinite(t.K) {
		t.K = m.t.K
	}
	t.K = m.clamp(t.K)
	return m.set(t)
}

// set installs t if every component is finite. Callers hold m.mu.
func (m *Manager) set(t Transform) bool {
	if !isFinite(t.K) || !isFinite(t.X) || !isFinite(t.Y) {
		return false
	}
	m.t = t
	return true
}

// Reset returns to the identity transform.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = Identity
}

// ToScreen converts a world point to screen space.
func (m *Manager) ToScreen(p Point) Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.t.Apply(p)
}

// ToWorld converts a screen point to world space. All hit-testing goes
// through here.
func (m *Manager) ToWorld(p Point) Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.t.Invert(p)
}

// Center returns the screen centre of the canvas.
func (m *Manager) Center() Point {
	return Point{X: m.opts.Width / 2, Y: m.opts.Height / 2}
}

// ZoomIn zooms by ZoomStep around the canvas centre.
func (m *Manager) ZoomIn() bool {
	return m.ZoomBy(m.opts.ZoomStep, m.Center())
}

// ZoomOut zooms by 1/ZoomStep around the canvas centre.
func (m *Manager) ZoomOut() bool {
	return m.ZoomBy(1/m.opts.ZoomStep, m.Center())
}

// PanLeft pans by -PanStep horizontally.
func (m *Manager) PanLeft() bool {
	return m.PanBy(-m.opts.PanStep, 0)
}

// PanRight pans by PanStep horizontally.
func (m *Manager) PanRight() bool {
	return m.PanBy(m.opts.PanStep, 0)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func (m *Manager) clamp(k float64) float64 {
	return math.Max(m.opts.MinScale, math.Min(m.opts.MaxScale, k))
}
