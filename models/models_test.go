package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, ids []string, edges [][2]string) *Graph {
	t.Helper()
	g := NewGraph("test")
	for _, id := range ids {
		require.NoError(t, g.AddNode(NewNode(id)))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(NewEdge(e[0], e[1])))
	}
	return g
}

func TestAddNodeRejectsEmptyAndDuplicate(t *testing.T) {
	g := NewGraph("test")

	require.NoError(t, g.AddNode(NewNode("a")))
	assert.Error(t, g.AddNode(NewNode("")))
	assert.Error(t, g.AddNode(NewNode("a")))
	assert.Equal(t, 1, g.NodeCount())
}

func TestAddEdgeRequiresEndpoints(t *testing.T) {
	g := buildGraph(t, []string{"a"}, nil)

	err := g.AddEdge(NewEdge("a", "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	err = g.AddEdge(NewEdge("missing", "a"))
	require.Error(t, err)
	assert.Equal(t, 0, g.EdgeCount())
}

func TestNeighborsFollowEdgeOrderWithoutDuplicates(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "c"},
		{"a", "b"},
		{"a", "c"},
		{"d", "a"},
		{"b", "a"},
	})

	assert.Equal(t, []string{"c", "b"}, g.OutNeighbors("a"))
	assert.Equal(t, []string{"d", "b"}, g.InNeighbors("a"))
	assert.Empty(t, g.OutNeighbors("c"))
	assert.Nil(t, g.OutNeighbors("zzz"))
}

func TestHasEdgeIsDirected(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	assert.True(t, g.HasEdge("a", "b"))
	assert.False(t, g.HasEdge("b", "a"))
	assert.False(t, g.HasEdge("x", "b"))
}

func TestDegreeIgnoresSelfLoops(t *testing.T) {
	g := buildGraph(t, []string{"a", "b"}, [][2]string{{"a", "a"}, {"a", "b"}, {"b", "a"}})

	assert.Equal(t, 2, g.Degree("a"))
	assert.Equal(t, 2, g.Degree("b"))
	assert.Equal(t, 0, g.Degree("nope"))
}

func TestNumberTreatsMissingAndMalformedAsZero(t *testing.T) {
	g := NewGraph("numbers")
	require.NoError(t, g.AddNode(NewNode("float").Set(AttrNarSize, 12.5)))
	require.NoError(t, g.AddNode(NewNode("int").Set(AttrNarSize, 7)))
	require.NoError(t, g.AddNode(NewNode("string").Set(AttrNarSize, "3.5")))
	require.NoError(t, g.AddNode(NewNode("garbage").Set(AttrNarSize, "lots")))
	require.NoError(t, g.AddNode(NewNode("bool").Set(AttrNarSize, true)))
	require.NoError(t, g.AddNode(NewNode("missing")))

	assert.Equal(t, 12.5, g.Number("float", AttrNarSize))
	assert.Equal(t, 7.0, g.Number("int", AttrNarSize))
	assert.Equal(t, 3.5, g.Number("string", AttrNarSize))
	assert.Zero(t, g.Number("garbage", AttrNarSize))
	assert.Zero(t, g.Number("bool", AttrNarSize))
	assert.Zero(t, g.Number("missing", AttrNarSize))
	assert.Zero(t, g.Number("unknown", AttrNarSize))
	assert.Equal(t, 12.5, g.MaxNumber(AttrNarSize))
	assert.Zero(t, g.MaxNumber(AttrClosureSize))
}

func TestLabelFallsBackToID(t *testing.T) {
	g := NewGraph("labels")
	require.NoError(t, g.AddNode(NewNode("a").Set(AttrLabel, "Alpha")))
	require.NoError(t, g.AddNode(NewNode("b")))

	assert.Equal(t, "Alpha", g.Label("a"))
	assert.Equal(t, "b", g.Label("b"))
}

func TestAttributeListKeepsInsertionOrder(t *testing.T) {
	g := NewGraph("attrs")
	n := NewNode("a").Set("zeta", 1).Set("alpha", 2).Set(AttrLabel, "A")
	require.NoError(t, g.AddNode(n))

	list := g.AttributeList("a")
	require.Len(t, list, 3)
	assert.Equal(t, "zeta", list[0].Key)
	assert.Equal(t, "alpha", list[1].Key)
	assert.Equal(t, AttrLabel, list[2].Key)
	assert.Nil(t, g.AttributeList("missing"))
}

func TestIndexMatchesInsertionOrder(t *testing.T) {
	g := buildGraph(t, []string{"x", "y", "z"}, nil)

	for want, id := range []string{"x", "y", "z"} {
		got, ok := g.Index(id)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := g.Index("w")
	assert.False(t, ok)
}
