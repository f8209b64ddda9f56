package realtime

import (
	"testing"

	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func syntheticTestGraph() *datastructure.Graph {
	g := datastructure.NewGraph()
	for i := 0; i < 10; i++ {
		g.AddVertex(19.36+float64(i)*0.001, -99.17+float64(i)*0.001, int64(i))
	}
	g.AddEdge(0, 1, 0, 150, "Calle Uxmal", pkg.RESIDENTIAL)
	g.BuildAdjacency()
	return g
}

func TestGenerateSyntheticIncidents(t *testing.T) {
	g := syntheticTestGraph()
	rng := rand.New(rand.NewSource(42))

	validTypes := map[string]float64{
		"C5: Incidente Reportado": 5.0,
		"Falla de Luminaria":      1.5,
		"Obra en Vía":             3.0,
	}

	for round := 0; round < 50; round++ {
		incidents := GenerateSyntheticIncidents(g, rng)

		require.GreaterOrEqual(t, len(incidents), 3)
		require.LessOrEqual(t, len(incidents), 8)

		for _, inc := range incidents {
			impact, known := validTypes[inc.Type]
			require.Truef(t, known, "unexpected incident type %q", inc.Type)
			assert.Equal(t, impact, inc.Impact)
			assert.Equal(t, datastructure.ORIGIN_SYNTHETIC, inc.Origin)

			// every synthetic hazard is pinned to a real vertex
			require.GreaterOrEqual(t, int(inc.NodeID), 0)
			require.Less(t, int(inc.NodeID), g.NumberOfVertices())
			lat, lon := g.GetVertexCoordinates(inc.NodeID)
			assert.Equal(t, lat, inc.Lat)
			assert.Equal(t, lon, inc.Lon)
		}
	}
}

func TestGenerateSyntheticIncidentsEmptyGraph(t *testing.T) {
	g := datastructure.NewGraph()
	g.BuildAdjacency()

	assert.Nil(t, GenerateSyntheticIncidents(g, rand.New(rand.NewSource(1))))
}
