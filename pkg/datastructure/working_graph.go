package datastructure

// WorkingGraph is the per-pass copy-on-write view of the base graph: the
// topology is shared read-only, only the mutable weight field is private.
// every weighting pass and every search runs on its own WorkingGraph so that
// concurrent requests and concurrent variants stay independent.
type WorkingGraph struct {
	base    *Graph
	weights []float64
}

func NewWorkingGraph(g *Graph) *WorkingGraph {
	return &WorkingGraph{
		base:    g,
		weights: make([]float64, g.NumberOfEdges()),
	}
}

func (wg *WorkingGraph) Base() *Graph {
	return wg.base
}

func (wg *WorkingGraph) SetWeight(edgeID Index, weight float64) {
	wg.weights[edgeID] = weight
}

func (wg *WorkingGraph) GetWeight(edgeID Index) float64 {
	return wg.weights[edgeID]
}

// CopyLengths fills the weight array with the raw edge lengths, the weighting
// of the direct variant.
func (wg *WorkingGraph) CopyLengths() {
	for i := range wg.weights {
		wg.weights[i] = wg.base.edges[i].length
	}
}
