package datastructure

import (
	"sort"
	"testing"

	"github.com/sendero-labs/sendero/pkg"
	"github.com/stretchr/testify/require"
)

func buildGridGraph() *Graph {
	g := NewGraph()

	a := g.AddVertex(19.3855, -99.1700, 1000)
	b := g.AddVertex(19.3860, -99.1650, 1001)
	c := g.AddVertex(19.3900, -99.1655, 1002)

	g.AddEdge(a, b, 0, 520.0, "Calle Amores", pkg.RESIDENTIAL)
	g.AddEdge(b, a, 0, 520.0, "Calle Amores", pkg.RESIDENTIAL)
	g.AddEdge(b, c, 0, 445.0, "Avenida Coyoacán", pkg.SECONDARY)
	g.AddEdge(a, c, 0, 700.0, "", pkg.FOOTWAY)

	g.BuildAdjacency()
	return g
}

func TestGraphAdjacency(t *testing.T) {
	g := buildGridGraph()

	require.Equal(t, 3, g.NumberOfVertices())
	require.Equal(t, 4, g.NumberOfEdges())

	outOf := func(u Index) []Index {
		var heads []Index
		g.ForOutEdgesOf(u, func(e *Edge) {
			require.Equal(t, u, e.GetFrom())
			heads = append(heads, e.GetTo())
		})
		sort.Slice(heads, func(i, j int) bool { return heads[i] < heads[j] })
		return heads
	}

	require.Equal(t, []Index{1, 2}, outOf(0))
	require.Equal(t, []Index{0, 2}, outOf(1))
	require.Empty(t, outOf(2))
}

func TestGraphParallelEdges(t *testing.T) {
	g := NewGraph()
	a := g.AddVertex(19.40, -99.16, 1)
	b := g.AddVertex(19.41, -99.16, 2)

	// two distinct segments between the same vertex pair, a loop road
	// split by the parser
	first := g.AddEdge(a, b, 0, 120.0, "Calle Gabriel Mancera", pkg.RESIDENTIAL)
	second := g.AddEdge(a, b, 1, 180.0, "Calle Gabriel Mancera", pkg.RESIDENTIAL)
	g.BuildAdjacency()

	require.NotEqual(t, first, second)
	require.Equal(t, int32(0), g.GetEdge(first).GetKey())
	require.Equal(t, int32(1), g.GetEdge(second).GetKey())

	count := 0
	g.ForOutEdgesOf(a, func(e *Edge) { count++ })
	require.Equal(t, 2, count)
}

func TestGraphStreetNameInterning(t *testing.T) {
	g := buildGridGraph()

	// both Amores segments share one name id
	require.Equal(t, g.GetEdge(0).GetNameID(), g.GetEdge(1).GetNameID())

	// the unnamed footway resolves to the empty string
	require.Equal(t, "", g.GetStreetName(g.GetEdge(3)))

	names := g.StreetNames()
	sort.Strings(names)
	require.Equal(t, []string{"Avenida Coyoacán", "Calle Amores"}, names)
}

func TestGraphBoundingBox(t *testing.T) {
	g := buildGridGraph()
	bb := g.GetBoundingBox()

	require.Equal(t, 19.3855, bb.GetMinLat())
	require.Equal(t, 19.3900, bb.GetMaxLat())
	require.Equal(t, -99.1700, bb.GetMinLon())
	require.Equal(t, -99.1650, bb.GetMaxLon())
}

func TestEdgeMidPoint(t *testing.T) {
	g := NewGraph()
	a := g.AddVertex(19.38, -99.16, 1)
	b := g.AddVertex(19.40, -99.18, 2)
	id := g.AddEdge(a, b, 0, 100.0, "", pkg.RESIDENTIAL)
	g.BuildAdjacency()

	mid := g.EdgeMidPoint(g.GetEdge(id))
	require.InDelta(t, 19.39, mid.Lat, 1e-4)
	require.InDelta(t, -99.17, mid.Lon, 1e-4)
}

func TestWorkingGraphCopyLengths(t *testing.T) {
	g := buildGridGraph()
	wg := NewWorkingGraph(g)
	wg.CopyLengths()

	for i := 0; i < g.NumberOfEdges(); i++ {
		id := Index(i)
		require.Equal(t, g.GetEdge(id).GetLength(), wg.GetWeight(id))
	}

	// writes stay local to this working graph
	wg.SetWeight(0, 9999.0)
	other := NewWorkingGraph(g)
	other.CopyLengths()
	require.Equal(t, 520.0, other.GetWeight(0))
}
