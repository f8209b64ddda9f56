package osmparser

import (
	"context"
	"io"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/geo"
	"go.uber.org/zap"
)

type nodeCoord struct {
	lat float64
	lon float64
}

// WalkParser builds the pedestrian street graph from an openstreetmap pbf
// extract. the graph keeps full way geometry, every intermediate node
// becomes a vertex, because the safety model needs edge midpoints close to
// the real street line.
type WalkParser struct {
	wayNodes map[int64]struct{}
	coords   map[int64]nodeCoord
	nodeIDs  map[int64]datastructure.Index

	// per ordered vertex pair, how many parallel edges were already
	// emitted, the next one gets that count as its key
	edgeKeys map[uint64]int32
}

func NewWalkParser() *WalkParser {
	return &WalkParser{
		wayNodes: make(map[int64]struct{}),
		coords:   make(map[int64]nodeCoord),
		nodeIDs:  make(map[int64]datastructure.Index),
		edgeKeys: make(map[uint64]int32),
	}
}

// Parse scans the pbf file twice. the first scan marks every node referenced
// by a walkable way, the second collects those node coordinates (nodes come
// before ways in the file) and emits the edges.
func (p *WalkParser) Parse(mapFile string, logger *zap.Logger) (*datastructure.Graph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()

		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 {
			continue
		}
		if !acceptWalkWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		for _, node := range way.Nodes {
			p.wayNodes[int64(node.ID)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, err
	}
	scanner.Close()

	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return nil, err
	}

	graph := datastructure.NewGraph()

	scanner = osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	defer scanner.Close()

	countWays = 0
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()

		switch o.ObjectID().Type() {
		case osm.TypeNode:
			node := o.(*osm.Node)
			if (countNodes+1)%500000 == 0 {
				logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++

			if _, ok := p.wayNodes[int64(node.ID)]; ok {
				p.coords[int64(node.ID)] = nodeCoord{lat: node.Lat, lon: node.Lon}
			}

		case osm.TypeWay:
			way := o.(*osm.Way)
			if len(way.Nodes) < 2 {
				continue
			}
			if !acceptWalkWay(way) {
				continue
			}
			if (countWays+1)%50000 == 0 {
				logger.Sugar().Infof("processing openstreetmap ways: %d...", countWays+1)
			}
			countWays++

			p.processWay(way, graph)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	graph.BuildAdjacency()

	logger.Sugar().Infof("number of vertices: %v", graph.NumberOfVertices())
	logger.Sugar().Infof("number of edges: %v", graph.NumberOfEdges())

	return graph, nil
}

func (p *WalkParser) processWay(way *osm.Way, graph *datastructure.Graph) {
	name := wayName(way)
	class := pkg.GetStreetClass(way.Tags.Find("highway"))

	for i := 0; i+1 < len(way.Nodes); i++ {
		fromOsm := int64(way.Nodes[i].ID)
		toOsm := int64(way.Nodes[i+1].ID)
		if fromOsm == toOsm {
			continue
		}

		fromCoord, okFrom := p.coords[fromOsm]
		toCoord, okTo := p.coords[toOsm]
		if !okFrom || !okTo {
			// node missing from the extract, the segment is unusable
			continue
		}

		from := p.vertexFor(fromOsm, fromCoord, graph)
		to := p.vertexFor(toOsm, toCoord, graph)
		if from == to {
			continue
		}

		length := geo.HaversineMeters(fromCoord.lat, fromCoord.lon, toCoord.lat, toCoord.lon)

		graph.AddEdge(from, to, p.nextKey(from, to), length, name, class)
		graph.AddEdge(to, from, p.nextKey(to, from), length, name, class)
	}
}

func (p *WalkParser) vertexFor(osmID int64, coord nodeCoord, graph *datastructure.Graph) datastructure.Index {
	if id, ok := p.nodeIDs[osmID]; ok {
		return id
	}
	id := graph.AddVertex(coord.lat, coord.lon, osmID)
	p.nodeIDs[osmID] = id
	return id
}

func (p *WalkParser) nextKey(from, to datastructure.Index) int32 {
	packed := uint64(uint32(from))<<32 | uint64(uint32(to))
	key := p.edgeKeys[packed]
	p.edgeKeys[packed] = key + 1
	return key
}
