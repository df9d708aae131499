package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/graphwork/interaction"
	"github.com/TFMV/graphwork/metrics"
	"github.com/TFMV/graphwork/models"
	"github.com/TFMV/graphwork/viewport"
)

func chain(t *testing.T) *models.Graph {
	t.Helper()
	g := models.NewGraph("chain")
	for _, n := range []struct {
		id, label string
		nar       float64
	}{
		{"a", "Alpha", 10},
		{"b", "Beta", 10},
		{"c", "Gamma", 10},
	} {
		require.NoError(t, g.AddNode(models.NewNode(n.id).
			Set(models.AttrLabel, n.label).
			Set(models.AttrNarSize, n.nar).
			Set(models.AttrClosureSize, 5)))
	}
	require.NoError(t, g.AddEdge(models.NewEdge("a", "b")))
	require.NoError(t, g.AddEdge(models.NewEdge("b", "c")))
	return g
}

func loaded(t *testing.T, g *models.Graph) *Session {
	t.Helper()
	s := New(DefaultOptions())
	s.Load(g)
	s.Tick(1)
	return s
}

func nodeFrame(t *testing.T, f *Frame, id string) NodeFrame {
	t.Helper()
	for _, n := range f.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %s not in frame", id)
	return NodeFrame{}
}

func TestLoadIsStagedUntilTick(t *testing.T) {
	s := New(DefaultOptions())
	g := chain(t)

	s.Load(g)
	assert.True(t, s.Pending())
	assert.Equal(t, 0, s.Graph().NodeCount())

	s.Tick(1)
	assert.False(t, s.Pending())
	assert.Same(t, g, s.Graph())
	assert.Len(t, s.Frame().Nodes, 3)
}

func TestGraphReplacementResetsInteraction(t *testing.T) {
	s := loaded(t, chain(t))
	s.Apply(Gesture{Kind: PointerEnter, Node: "a"})
	s.Apply(Gesture{Kind: Click, Node: "b"})
	require.True(t, s.Apply(Gesture{Kind: DragStart, Node: "c", Screen: &viewport.Point{X: 1, Y: 1}}))

	next := models.NewGraph("next")
	require.NoError(t, next.AddNode(models.NewNode("z")))
	s.Load(next)

	assert.Equal(t, "c", s.State().Dragged, "swap waits for the tick boundary")
	s.Tick(1)

	assert.Equal(t, interaction.State{}, s.State())
	assert.False(t, s.Apply(Gesture{Kind: DragMove, Screen: &viewport.Point{X: 2, Y: 2}}))
	assert.False(t, s.Apply(Gesture{Kind: Click, Node: "a"}))
}

func TestSelectionScenario(t *testing.T) {
	s := loaded(t, chain(t))
	p := s.Palette()

	require.True(t, s.Apply(Gesture{Kind: Click, Node: "a"}))
	f := s.Frame()
	assert.Equal(t, "a", f.State.Selected)
	assert.Equal(t, p.Selected, nodeFrame(t, f, "a").Style.Fill)
	assert.Equal(t, p.Outbound, nodeFrame(t, f, "b").Style.Fill)
	assert.Equal(t, p.Base, nodeFrame(t, f, "c").Style.Fill)

	require.True(t, s.Apply(Gesture{Kind: Click, Node: "a"}))
	for _, n := range s.Frame().Nodes {
		assert.Equal(t, p.Base, n.Style.Fill)
	}
}

func TestHitTestingIsViewportInvariant(t *testing.T) {
	s := loaded(t, chain(t))
	for i := 0; i < 100; i++ {
		s.Tick(1)
	}

	setups := []Gesture{
		{Kind: ResetView},
		{Kind: Zoom, Factor: 3, Screen: &viewport.Point{X: 100, Y: 40}},
		{Kind: Pan, DX: -250, DY: 90},
		{Kind: ZoomOut},
		{Kind: SetTransform, Transform: &viewport.Transform{K: 7, X: -3000, Y: -1800}},
	}
	for _, setup := range setups {
		require.True(t, s.Apply(setup))
		f := s.Frame()
		for _, n := range f.Nodes {
			id, ok := s.NodeAt(n.Screen)
			require.True(t, ok, "%s not hit after %s", n.ID, setup.Kind)
			assert.Equal(t, n.ID, id)
		}
	}

	_, ok := s.NodeAt(viewport.Point{X: -1e6, Y: -1e6})
	assert.False(t, ok)
}

func TestPointerMoveDrivesHover(t *testing.T) {
	s := loaded(t, chain(t))
	f := s.Frame()
	a := nodeFrame(t, f, "a")
	b := nodeFrame(t, f, "b")

	assert.True(t, s.Apply(Gesture{Kind: PointerMove, Screen: &a.Screen}))
	assert.Equal(t, "a", s.State().Hovered)
	assert.Equal(t, s.Palette().HighlightStroke, nodeFrame(t, s.Frame(), "a").Style.Stroke)

	assert.False(t, s.Apply(Gesture{Kind: PointerMove, Screen: &a.Screen}))

	assert.True(t, s.Apply(Gesture{Kind: PointerMove, Screen: &b.Screen}))
	assert.Equal(t, "b", s.State().Hovered)

	assert.True(t, s.Apply(Gesture{Kind: PointerMove, Screen: &viewport.Point{X: -1e6, Y: 0}}))
	assert.Empty(t, s.State().Hovered)
}

func TestDragPinsNodeUnderPointer(t *testing.T) {
	s := loaded(t, chain(t))
	require.True(t, s.Apply(Gesture{Kind: Zoom, Factor: 2, Screen: &viewport.Point{X: 300, Y: 200}}))
	b := nodeFrame(t, s.Frame(), "b")

	require.True(t, s.Apply(Gesture{Kind: DragStart, Screen: &b.Screen}))
	assert.Equal(t, "b", s.State().Dragged)

	target := viewport.Point{X: 50, Y: 60}
	require.True(t, s.Apply(Gesture{Kind: DragMove, Screen: &target}))
	for i := 0; i < 20; i++ {
		s.Tick(1)
	}

	got := nodeFrame(t, s.Frame(), "b")
	want := s.Viewport().ToWorld(target)
	assert.Equal(t, want, got.World)
	assert.InDelta(t, target.X, got.Screen.X, 1e-9)
	assert.InDelta(t, target.Y, got.Screen.Y, 1e-9)
	assert.True(t, s.Active())

	require.True(t, s.Apply(Gesture{Kind: DragEnd}))
	assert.Empty(t, s.State().Dragged)
}

func TestClickOnCanvasClearsSelection(t *testing.T) {
	s := loaded(t, chain(t))
	s.Apply(Gesture{Kind: Select, Node: "c"})

	assert.True(t, s.Apply(Gesture{Kind: Click, Screen: &viewport.Point{X: -1e6, Y: -1e6}}))
	assert.Empty(t, s.State().Selected)
}

func TestSidebarListsNeighborsInOrder(t *testing.T) {
	g := chain(t)
	require.NoError(t, g.AddEdge(models.NewEdge("c", "b")))
	s := loaded(t, g)

	assert.Empty(t, s.Sidebar().Selected)

	s.Apply(Gesture{Kind: Select, Node: "b"})
	sb := s.Sidebar()

	assert.Equal(t, "b", sb.Selected)
	assert.Equal(t, "Beta", sb.Label)
	assert.Equal(t, []Neighbor{{ID: "c", Label: "Gamma"}}, sb.Connected)
	assert.Equal(t, []Neighbor{{ID: "a", Label: "Alpha"}, {ID: "c", Label: "Gamma"}}, sb.NeededBy)
	require.Len(t, sb.Attributes, 3)
	assert.Equal(t, models.AttrLabel, sb.Attributes[0].Key)
}

func TestFrameEdgesFollowNodes(t *testing.T) {
	s := loaded(t, chain(t))
	s.Apply(Gesture{Kind: PanRight})
	f := s.Frame()

	require.Len(t, f.Edges, 2)
	assert.Equal(t, nodeFrame(t, f, "a").Screen, f.Edges[0].From)
	assert.Equal(t, nodeFrame(t, f, "b").Screen, f.Edges[0].To)
	assert.Equal(t, nodeFrame(t, f, "c").Screen, f.Edges[1].To)
}

func TestTickStopsWhenSettled(t *testing.T) {
	s := loaded(t, chain(t))
	steps := 0
	for s.Tick(1) {
		steps++
		require.Less(t, steps, 1000)
	}
	assert.False(t, s.Active())
	assert.True(t, s.Frame().Settled)

	require.True(t, s.Apply(Gesture{Kind: DragStart, Node: "a", Screen: &viewport.Point{X: 10, Y: 10}}))
	assert.True(t, s.Tick(1), "drag reheats the simulation")
}

func TestUnknownGestureIgnored(t *testing.T) {
	s := loaded(t, chain(t))

	assert.False(t, s.Apply(Gesture{Kind: "wiggle"}))
	assert.False(t, s.Apply(Gesture{Kind: Zoom, Factor: 2}))
	assert.False(t, s.Apply(Gesture{Kind: DragStart, Node: "a"}))
	assert.False(t, s.Apply(Gesture{Kind: PointerEnter, Node: "ghost"}))
}

func TestMetricsAreRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Metrics = collector
	s := New(opts)
	s.Load(chain(t))
	s.Tick(1)
	s.Tick(1)
	s.Apply(Gesture{Kind: Click, Node: "a"})

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Steps))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.GraphLoads))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.Nodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Gestures.WithLabelValues("click", "true")))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(DefaultOptions())
	s.Load(chain(t))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	require.Eventually(t, func() bool { return !s.Pending() }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 3, s.Graph().NodeCount())
}

func assertFiniteFrame(t *testing.T, f *Frame) {
	t.Helper()
	finite := func(p viewport.Point) bool {
		return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
	}
	require.Len(t, f.Nodes, 3)
	for _, n := range f.Nodes {
		assert.True(t, finite(n.World), "world position of %s: %v", n.ID, n.World)
		assert.True(t, finite(n.Screen), "screen position of %s: %v", n.ID, n.Screen)
	}
	_, err := json.Marshal(f)
	require.NoError(t, err)
}

func TestExtremeGesturesKeepFrameFinite(t *testing.T) {
	s := loaded(t, chain(t))

	assert.True(t, s.Apply(Gesture{Kind: Pan, DX: 1e308}))
	assert.False(t, s.Apply(Gesture{Kind: Pan, DX: 1e308}))
	assertFiniteFrame(t, s.Frame())

	assert.True(t, s.Apply(Gesture{Kind: SetTransform, Transform: &viewport.Transform{K: 1, X: 1e308}}))
	assert.False(t, s.Apply(Gesture{Kind: DragStart, Node: "a", Screen: &viewport.Point{X: -1e308, Y: 0}}))
	assert.Empty(t, s.Frame().State.Dragged)

	assert.True(t, s.Apply(Gesture{Kind: ResetView}))
	require.True(t, s.Apply(Gesture{Kind: DragStart, Node: "a", Screen: &viewport.Point{X: 10, Y: 10}}))
	assert.True(t, s.Apply(Gesture{Kind: SetTransform, Transform: &viewport.Transform{K: 1, X: 1e308}}))
	assert.False(t, s.Apply(Gesture{Kind: DragMove, Screen: &viewport.Point{X: -1e308, Y: 0}}))
	s.Apply(Gesture{Kind: DragEnd})
	assert.True(t, s.Apply(Gesture{Kind: ResetView}))

	for i := 0; i < 10; i++ {
		s.Tick(1)
	}
	assertFiniteFrame(t, s.Frame())
}
