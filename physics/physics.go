// Package physics implements the force-directed layout engine: per-node
// kinematic state, link/many-body/centering forces, damped integration and
// alpha cooling.
package physics

import (
	"math"
	"sync"

	"github.com/TFMV/graphwork/models"
	opensimplex "github.com/ojrac/opensimplex-go"
	"go.uber.org/zap"
)

// Config holds the simulation constants.
type Config struct {
	Width  float64 `toml:"-"`
	Height float64 `toml:"-"`

	AlphaMin      float64 `toml:"alpha_min"`
	AlphaDecay    float64 `toml:"alpha_decay"`
	VelocityDecay float64 `toml:"velocity_decay"`
	ReheatAlpha   float64 `toml:"reheat_alpha"`

	LinkDistance float64 `toml:"link_distance"`

	// ManyBodyStrength is negative for repulsion. It must stay strong
	// relative to the link force or disconnected components overlap.
	ManyBodyStrength float64 `toml:"many_body_strength"`
	Theta            float64 `toml:"theta"`
	DistanceMin2     float64 `toml:"distance_min2"`

	CenterStrength float64 `toml:"center_strength"`
	InitialRadius  float64 `toml:"initial_radius"`
	Seed           int64   `toml:"seed"`
}

// DefaultConfig returns constants matching a stock d3-force simulation on a
// 928x600 canvas.
func DefaultConfig() Config {
	return Config{
		Width:            928,
		Height:           600,
		AlphaMin:         0.001,
		AlphaDecay:       1 - math.Pow(0.001, 1.0/300),
		VelocityDecay:    0.4,
		ReheatAlpha:      0.3,
		LinkDistance:     30,
		ManyBodyStrength: -30,
		Theta:            0.9,
		DistanceMin2:     1,
		CenterStrength:   1,
		InitialRadius:    10,
		Seed:             1,
	}
}

// KinematicState is the simulated state of one node.
type KinematicState struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Pinned bool    `json:"pinned"`
	PX     float64 `json:"px,omitempty"`
	PY     float64 `json:"py,omitempty"`
}

// link references its endpoints by slot so the graph can be swapped without
// dangling pointers.
type link struct {
	source, target int
	strength       float64
	bias           float64
}

// Simulation is a force-directed layout engine. It is safe for concurrent
// use; every method holds the simulation lock for its whole duration.
type Simulation struct {
	mu     sync.Mutex
	cfg    Config
	logger *zap.Logger

	nodes []KinematicState
	index map[string]int
	links []link

	alpha       float64
	alphaTarget float64
	active      bool
	iterations  int

	noise  opensimplex.Noise
	jiggle float64
	tree   quadtree
}

// NewSimulation creates an empty simulation. A nil logger disables logging.
func NewSimulation(cfg Config, logger *zap.Logger) *Simulation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulation{
		cfg:    cfg,
		logger: logger,
		index:  make(map[string]int),
		noise:  opensimplex.New(cfg.Seed),
	}
}

// Config returns the simulation constants.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Initialize replaces all kinematic state with a fresh layout for g. Nodes
// are scattered on a phyllotaxis spiral around the canvas centre with zero
// velocity, and the simulation becomes active at alpha 1 unless the graph
// is empty.
func (s *Simulation) Initialize(g *models.Graph) []KinematicState {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := g.Nodes()
	s.nodes = make([]KinematicState, len(nodes))
	s.index = make(map[string]int, len(nodes))

	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	angle := math.Pi * (3 - math.Sqrt(5))
	for i := range nodes {
		r := s.cfg.InitialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * angle
		s.nodes[i] = KinematicState{
			ID: nodes[i].ID,
			X:  cx + r*math.Cos(a),
			Y:  cy + r*math.Sin(a),
		}
		s.index[nodes[i].ID] = i
	}

	s.links = s.links[:0]
	edges := g.Edges()
	for i := range edges {
		e := &edges[i]
		if e.SelfLoop() {
			continue
		}
		src, _ := g.Index(e.Source)
		dst, _ := g.Index(e.Target)
		ds, dt := float64(g.Degree(e.Source)), float64(g.Degree(e.Target))
		s.links = append(s.links, link{
			source:   src,
			target:   dst,
			strength: 1 / math.Min(ds, dt),
			bias:     ds / (ds + dt),
		})
	}

	s.alpha = 1
	s.alphaTarget = 0
	s.active = len(s.nodes) > 0
	s.iterations = 0

	s.logger.Debug("simulation initialized",
		zap.Int("nodes", len(s.nodes)),
		zap.Int("links", len(s.links)))

	return s.snapshot()
}

// Step advances the simulation by one tick and returns the new state.
// dt scales the position update; values <= 0 are treated as 1.
func (s *Simulation) Step(dt float64) []KinematicState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dt <= 0 {
		dt = 1
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.applyLinks()
	s.applyManyBody()
	s.applyCenter()

	keep := 1 - s.cfg.VelocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Pinned {
			n.X, n.Y = n.PX, n.PY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX * dt
		n.Y += n.VY * dt
	}

	s.iterations++
	if s.active && s.settled() {
		s.active = false
		s.logger.Debug("simulation settled",
			zap.Int("iterations", s.iterations),
			zap.Float64("alpha", s.alpha))
	}

	return s.snapshot()
}

// Reheat raises alpha back to the reheat target and holds it there until
// Cool is called, without discarding positions.
func (s *Simulation) Reheat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alphaTarget = s.cfg.ReheatAlpha
	if s.alpha < s.cfg.ReheatAlpha {
		s.alpha = s.cfg.ReheatAlpha
	}
	s.active = true
}

// Cool releases the reheat target so the layout settles again.
func (s *Simulation) Cool() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alphaTarget = 0
}

// Pin holds the node at (x, y) until Unpin. It reports false for an id that
// is not in the simulation or a position that is not finite.
func (s *Simulation) Pin(id string, x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	n := &s.nodes[i]
	n.Pinned = true
	n.PX, n.PY = x, y
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	return true
}

// Unpin releases a pinned node. It resumes from its current position with
// zero velocity.
func (s *Simulation) Unpin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}
	n := &s.nodes[i]
	n.Pinned = false
	n.PX, n.PY = 0, 0
	n.VX, n.VY = 0, 0
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// Active reports whether further steps should be scheduled.
func (s *Simulation) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Iterations returns the number of steps since the last Initialize.
func (s *Simulation) Iterations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iterations
}

// Positions returns a snapshot of the current state.
func (s *Simulation) Positions() []KinematicState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// State returns the state of a single node.
func (s *Simulation) State(id string) (KinematicState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return KinematicState{}, false
	}
	return s.nodes[i], true
}

func (s *Simulation) settled() bool {
	return s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin
}

func (s *Simulation) snapshot() []KinematicState {
	out := make([]KinematicState, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// nextJiggle returns a tiny deterministic offset used to separate
// coincident points.
func (s *Simulation) nextJiggle() float64 {
	s.jiggle += 0.618
	v := s.noise.Eval2(s.jiggle, 0.5) * 1e-6
	if v == 0 {
		v = 1e-6
	}
	return v
}
