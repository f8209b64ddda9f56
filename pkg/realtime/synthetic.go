package realtime

import (
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"golang.org/x/exp/rand"
)

type syntheticKind struct {
	tipo    string
	impacto float64
	icon    string
	color   string
}

var syntheticKinds = []syntheticKind{
	{tipo: "C5: Incidente Reportado", impacto: 5.0, icon: "exclamation-triangle", color: "orange"},
	{tipo: "Falla de Luminaria", impacto: 1.5, icon: "lightbulb", color: "yellow"},
	{tipo: "Obra en Vía", impacto: 3.0, icon: "hard-hat", color: "brown"},
}

const (
	minSyntheticIncidents = 3
	maxSyntheticIncidents = 8
)

// GenerateSyntheticIncidents drops 3 to 8 hypothetical hazards on random
// graph vertices, the proactive-safety demo data injected next to the live
// feed.
func GenerateSyntheticIncidents(g *datastructure.Graph, rng *rand.Rand) []datastructure.Incident {
	n := g.NumberOfVertices()
	if n == 0 {
		return nil
	}

	count := minSyntheticIncidents + rng.Intn(maxSyntheticIncidents-minSyntheticIncidents+1)
	incidents := make([]datastructure.Incident, 0, count)
	for i := 0; i < count; i++ {
		nodeID := datastructure.Index(rng.Intn(n))
		kind := syntheticKinds[rng.Intn(len(syntheticKinds))]
		lat, lon := g.GetVertexCoordinates(nodeID)
		incidents = append(incidents, datastructure.NewIncident(kind.tipo, lat, lon,
			kind.impacto, kind.color, kind.icon, datastructure.ORIGIN_SYNTHETIC, nodeID))
	}
	return incidents
}
