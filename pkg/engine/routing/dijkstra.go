package routing

import (
	"github.com/sendero-labs/sendero/pkg"
	da "github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/util"
)

// Dijkstra answers point-to-point minimum-impedance queries over one
// WorkingGraph. an instance is single-use, create a new one per search.
type Dijkstra struct {
	wg *da.WorkingGraph

	dist       []float64
	parentEdge []da.Index
	heapNodes  []*da.PriorityQueueNode[da.Index]

	pq *da.MinHeap[da.Index]

	numSettledNodes int
}

func NewDijkstra(wg *da.WorkingGraph) *Dijkstra {
	return &Dijkstra{
		wg: wg,
		pq: da.NewFourAryHeap[da.Index](),
	}
}

func (d *Dijkstra) preallocate() {
	n := d.wg.Base().NumberOfVertices()
	d.dist = make([]float64, n)
	d.parentEdge = make([]da.Index, n)
	for i := 0; i < n; i++ {
		d.dist[i] = pkg.INF_WEIGHT
		d.parentEdge[i] = da.INVALID_EDGE_ID
	}
	d.heapNodes = make([]*da.PriorityQueueNode[da.Index], n)
	d.pq.Preallocate(n)
}

// ShortestPath runs a unidirectional search from source and settles vertices
// until target comes off the heap. unreachable targets report
// util.ErrNoPathFound so the caller can degrade that variant instead of
// failing the whole query.
func (d *Dijkstra) ShortestPath(source, target da.Index) (da.RoutePath, error) {
	g := d.wg.Base()
	d.preallocate()

	d.dist[source] = 0
	sNode := da.NewPriorityQueueNode(0, source)
	d.heapNodes[source] = sNode
	d.pq.Insert(sNode)

	for !d.pq.IsEmpty() {
		uNode, err := d.pq.ExtractMin()
		if err != nil {
			break
		}
		u := uNode.GetItem()
		d.numSettledNodes++

		if u == target {
			break
		}

		uDist := d.dist[u]
		g.ForOutEdgesOf(u, func(e *da.Edge) {
			v := e.GetTo()
			newDist := uDist + d.wg.GetWeight(e.GetID())
			if newDist >= d.dist[v] {
				return
			}

			d.dist[v] = newDist
			d.parentEdge[v] = e.GetID()
			if d.heapNodes[v] != nil {
				d.pq.DecreaseKey(d.heapNodes[v], newDist)
			} else {
				vNode := da.NewPriorityQueueNode(newDist, v)
				d.heapNodes[v] = vNode
				d.pq.Insert(vNode)
			}
		})
	}

	if d.dist[target] >= pkg.INF_WEIGHT {
		return da.NewUnreachablePath(), util.WrapErrorf(nil, util.ErrNoPathFound,
			"no path between vertex %d and vertex %d", source, target)
	}

	nodes, edges := d.unwindPath(source, target)

	// the reported length is measured along this path's own edges, the cost
	// stays in impedance units
	length := 0.0
	for _, eid := range edges {
		length += g.GetEdge(eid).GetLength()
	}
	return da.NewRoutePath(nodes, edges, d.dist[target], length), nil
}

func (d *Dijkstra) unwindPath(source, target da.Index) ([]da.Index, []da.Index) {
	g := d.wg.Base()

	nodes := make([]da.Index, 0, 64)
	edges := make([]da.Index, 0, 64)
	cur := target
	for cur != source {
		eid := d.parentEdge[cur]
		edges = append(edges, eid)
		nodes = append(nodes, cur)
		cur = g.GetEdge(eid).GetFrom()
	}
	nodes = append(nodes, source)

	return util.ReverseG(nodes), util.ReverseG(edges)
}

func (d *Dijkstra) NumSettledNodes() int {
	return d.numSettledNodes
}
