package costfunction

import (
	"runtime"

	"github.com/sendero-labs/sendero/pkg/concurrent"
	"github.com/sendero-labs/sendero/pkg/datastructure"
)

type edgeRange struct {
	from int
	to   int // exclusive
}

// ComputeWeights evaluates cf over every edge of the working graph's base and
// stores the results in its weight array. edge ranges are disjoint, so
// workers write without locking.
func ComputeWeights(wg *datastructure.WorkingGraph, cf CostFunction, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	g := wg.Base()
	m := g.NumberOfEdges()
	if m == 0 {
		return
	}
	if numWorkers > m {
		numWorkers = m
	}
	chunk := (m + numWorkers - 1) / numWorkers

	pool := concurrent.NewWorkerPool[edgeRange, struct{}](numWorkers, numWorkers)
	pool.Start(func(r edgeRange) struct{} {
		for i := r.from; i < r.to; i++ {
			e := g.GetEdge(datastructure.Index(i))
			wg.SetWeight(e.GetID(), cf.GetWeight(NewGraphEdgeAttributes(g, e)))
		}
		return struct{}{}
	})

	for from := 0; from < m; from += chunk {
		to := from + chunk
		if to > m {
			to = m
		}
		pool.AddJob(edgeRange{from: from, to: to})
	}
	pool.Close()
	pool.Wait()
	for range pool.CollectResults() {
	}
}
