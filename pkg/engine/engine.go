package engine

import (
	"github.com/sendero-labs/sendero/pkg/costfunction"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/geo"
	"github.com/sendero-labs/sendero/pkg/spatialindex"
	"github.com/sendero-labs/sendero/pkg/util"
	"go.uber.org/zap"
)

// quadrant grid over Benito Juárez used to anonymize endpoints in logs and
// analysis output
const (
	bjMinLat = 19.35
	bjMaxLat = 19.41
	bjMinLon = -99.19
	bjMaxLon = -99.14

	quadrantRows = 5
	quadrantCols = 5
)

type Engine struct {
	graph     *datastructure.Graph
	nodeIndex *spatialindex.Rtree[datastructure.Index]
	profile   *costfunction.RiskProfile
	grid      *geo.QuadrantGrid
	log       *zap.Logger

	weightWorkers int
}

func NewEngine(graphFilePath string, weightWorkers int, logger *zap.Logger) (*Engine, error) {
	logger.Info("Starting pedestrian safety routing engine...")

	logger.Info("Reading graph from ", zap.String("graphFilePath", graphFilePath))
	graph, err := datastructure.ReadGraph(graphFilePath)
	if err != nil {
		return nil, err
	}

	return NewEngineFromGraph(graph, weightWorkers, logger), nil
}

func NewEngineFromGraph(graph *datastructure.Graph, weightWorkers int, logger *zap.Logger) *Engine {
	logger.Info("Building vertex spatial index...",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()))

	return &Engine{
		graph:         graph,
		nodeIndex:     spatialindex.NewVertexIndex(graph),
		profile:       costfunction.NewDefaultRiskProfile(),
		grid:          geo.NewQuadrantGrid(bjMinLat, bjMaxLat, bjMinLon, bjMaxLon, quadrantRows, quadrantCols, "BJ"),
		log:           logger,
		weightWorkers: weightWorkers,
	}
}

func (e *Engine) Graph() *datastructure.Graph {
	return e.graph
}

func (e *Engine) RiskProfile() *costfunction.RiskProfile {
	return e.profile
}

// QuadrantID anonymizes a coordinate into its Benito Juárez grid cell id.
func (e *Engine) QuadrantID(c geo.Coordinate) string {
	return e.grid.QuadrantID(c)
}

// SnapToNearestNode maps a coordinate to the closest graph vertex. every
// query snaps its endpoints exactly once and reuses the same vertex pair for
// all route variants.
func (e *Engine) SnapToNearestNode(c geo.Coordinate) (datastructure.Index, error) {
	id, ok := e.nodeIndex.Nearest(c.GetLat(), c.GetLon())
	if !ok {
		return datastructure.INVALID_VERTEX_ID, util.WrapErrorf(nil, util.ErrNoPathFound,
			"no graph vertex near (%f, %f)", c.GetLat(), c.GetLon())
	}
	return id, nil
}
