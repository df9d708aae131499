// Package viewer runs one interactive graph view: it owns the displayed
// graph, the force simulation, the viewport and the interaction machine, and
// turns them into per-frame output for a renderer.
//
// All mutation goes through the session lock, so gestures from a transport
// interleave between simulation steps but never run inside one. A new graph
// is staged by Load and swapped in at the start of the next Tick.
package viewer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TFMV/graphwork/interaction"
	"github.com/TFMV/graphwork/metrics"
	"github.com/TFMV/graphwork/models"
	"github.com/TFMV/graphwork/physics"
	"github.com/TFMV/graphwork/style"
	"github.com/TFMV/graphwork/viewport"
)

// Options configures a Session.
type Options struct {
	Physics  physics.Config
	Viewport viewport.Options
	Palette  style.Palette
	Logger   *zap.Logger
	Metrics  *metrics.Collector
}

// DefaultOptions returns stock options for a 928x600 canvas.
func DefaultOptions() Options {
	p := physics.DefaultConfig()
	return Options{
		Physics:  p,
		Viewport: viewport.DefaultOptions(p.Width, p.Height),
		Palette:  style.DefaultPalette(),
	}
}

// Session is a single interactive view of a graph.
type Session struct {
	mu      sync.Mutex
	logger  *zap.Logger
	metrics *metrics.Collector
	palette style.Palette

	graph    *models.Graph
	pending  *models.Graph
	sim      *physics.Simulation
	view     *viewport.Manager
	machine  *interaction.Machine
	resolver *style.Resolver

	positions []physics.KinematicState
	sequence  uint64
}

// New creates a session showing an empty graph.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sim := physics.NewSimulation(opts.Physics, logger.Named("physics"))
	empty := models.NewGraph("empty")

	s := &Session{
		logger:  logger,
		metrics: opts.Metrics,
		palette: opts.Palette,
		sim:     sim,
		view:    viewport.NewManager(opts.Viewport),
	}
	s.machine = interaction.NewMachine(empty, sim)
	s.swap(empty)
	return s
}

// Load stages g for display. The swap happens at the next Tick so a step in
// flight always completes against a single graph. Loading again before the
// next Tick replaces the staged graph.
func (s *Session) Load(g *models.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = g
	s.logger.Info("graph staged",
		zap.String("graph_id", g.ID),
		zap.String("name", g.Name),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))
}

// Tick applies a staged graph, then advances the simulation by one step if
// it has not settled. It reports whether a step ran.
func (s *Session) Tick(dt float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.swap(s.pending)
		s.pending = nil
	}
	s.sequence++

	if !s.sim.Active() {
		return false
	}
	start := time.Now()
	s.positions = s.sim.Step(dt)
	s.metrics.ObserveStep(time.Since(start), s.sim.Alpha())
	return true
}

// Run ticks the session every interval until ctx is cancelled.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("frame loop started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("frame loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(1)
		}
	}
}

// swap installs g as the displayed graph. Callers hold s.mu.
func (s *Session) swap(g *models.Graph) {
	s.graph = g
	s.resolver = style.NewResolver(g, s.palette)
	s.machine.GraphReplaced(g)
	s.positions = s.sim.Initialize(g)
	s.metrics.GraphLoaded(g.NodeCount(), g.EdgeCount())
	s.logger.Info("graph loaded",
		zap.String("graph_id", g.ID),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))
}

// Graph returns the displayed graph.
func (s *Session) Graph() *models.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Pending reports whether a staged graph is waiting for the next Tick.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// State returns the interaction state.
func (s *Session) State() interaction.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Active reports whether the simulation is still moving.
func (s *Session) Active() bool {
	return s.sim.Active()
}

// Viewport exposes the viewport manager.
func (s *Session) Viewport() *viewport.Manager {
	return s.view
}

// Palette returns the session palette.
func (s *Session) Palette() style.Palette {
	return s.palette
}
