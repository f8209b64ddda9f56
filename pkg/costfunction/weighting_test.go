package costfunction

import (
	"testing"

	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/stretchr/testify/require"
)

func buildWeightingGraph() *datastructure.Graph {
	g := datastructure.NewGraph()

	// a small patch of the Del Valle grid
	a := g.AddVertex(19.3860, -99.1620, 100)
	b := g.AddVertex(19.3865, -99.1650, 101)
	c := g.AddVertex(19.3900, -99.1655, 102)
	d := g.AddVertex(19.3905, -99.1618, 103)

	g.AddEdge(a, b, 0, 310.0, "Calle Colima", pkg.RESIDENTIAL)
	g.AddEdge(b, a, 0, 310.0, "Calle Colima", pkg.RESIDENTIAL)
	g.AddEdge(b, c, 0, 390.0, "Avenida Insurgentes Sur", pkg.PRIMARY)
	g.AddEdge(c, b, 0, 390.0, "Avenida Insurgentes Sur", pkg.PRIMARY)
	g.AddEdge(c, d, 0, 395.0, "", pkg.FOOTWAY)
	g.AddEdge(d, c, 0, 395.0, "", pkg.FOOTWAY)
	g.AddEdge(a, d, 0, 500.0, "Calle Doctores", pkg.SECONDARY)
	g.AddEdge(d, a, 0, 500.0, "Calle Doctores", pkg.SECONDARY)

	g.BuildAdjacency()
	return g
}

func TestComputeWeightsMatchesSerialEvaluation(t *testing.T) {
	g := buildWeightingGraph()
	profile := NewDefaultRiskProfile()

	for _, workers := range []int{0, 1, 3, 16} {
		cf := NewImpedanceCostFunction(profile, nil, 30, 1.5)

		wg := datastructure.NewWorkingGraph(g)
		ComputeWeights(wg, cf, workers)

		for i := 0; i < g.NumberOfEdges(); i++ {
			e := g.GetEdge(datastructure.Index(i))
			expected := cf.GetWeight(NewGraphEdgeAttributes(g, e))
			require.InDeltaf(t, expected, wg.GetWeight(e.GetID()), 1e-9,
				"edge %d with %d workers", i, workers)
		}
	}
}

func TestComputeWeightsLengthFunction(t *testing.T) {
	g := buildWeightingGraph()

	wg := datastructure.NewWorkingGraph(g)
	ComputeWeights(wg, NewLengthCostFunction(), 2)

	for i := 0; i < g.NumberOfEdges(); i++ {
		e := g.GetEdge(datastructure.Index(i))
		require.Equal(t, e.GetLength(), wg.GetWeight(e.GetID()))
	}
}

func TestComputeWeightsEmptyGraph(t *testing.T) {
	g := datastructure.NewGraph()
	g.BuildAdjacency()

	wg := datastructure.NewWorkingGraph(g)
	// must return without scheduling any worker
	ComputeWeights(wg, NewLengthCostFunction(), 4)
}

func TestWorkingGraphsAreIndependent(t *testing.T) {
	g := buildWeightingGraph()
	profile := NewDefaultRiskProfile()

	direct := datastructure.NewWorkingGraph(g)
	direct.CopyLengths()

	shield := datastructure.NewWorkingGraph(g)
	ComputeWeights(shield, NewImpedanceCostFunction(profile, nil, 0, 1.0), 2)

	// the shield pass must not leak into the direct weight array
	for i := 0; i < g.NumberOfEdges(); i++ {
		id := datastructure.Index(i)
		require.Equal(t, g.GetEdge(id).GetLength(), direct.GetWeight(id))
		require.NotEqual(t, direct.GetWeight(id), shield.GetWeight(id))
	}
}
