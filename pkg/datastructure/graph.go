package datastructure

import (
	"math"

	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/geo"
)

type Index int32

const (
	INVALID_VERTEX_ID Index = -1
	INVALID_EDGE_ID   Index = -1
)

type Vertex struct {
	id    Index
	lat   float64
	lon   float64
	osmId int64
}

func NewVertex(id Index, lat, lon float64, osmId int64) Vertex {
	return Vertex{id: id, lat: lat, lon: lon, osmId: osmId}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmId() int64 {
	return v.osmId
}

func (v *Vertex) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(v.lat, v.lon)
}

// Edge is a directed street segment. parallel edges between the same vertex
// pair are allowed and distinguished by key.
type Edge struct {
	id     Index
	from   Index
	to     Index
	key    int32
	length float64 // meters
	nameID int32
	class  pkg.StreetClass
}

func NewEdge(id, from, to Index, key int32, length float64, nameID int32, class pkg.StreetClass) Edge {
	return Edge{id: id, from: from, to: to, key: key, length: length, nameID: nameID, class: class}
}

func (e *Edge) GetID() Index {
	return e.id
}

func (e *Edge) GetFrom() Index {
	return e.from
}

func (e *Edge) GetTo() Index {
	return e.to
}

func (e *Edge) GetKey() int32 {
	return e.key
}

func (e *Edge) GetLength() float64 {
	return e.length
}

func (e *Edge) GetNameID() int32 {
	return e.nameID
}

func (e *Edge) GetClass() pkg.StreetClass {
	return e.class
}

type BoundingBox struct {
	minLat float64
	minLon float64
	maxLat float64
	maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) BoundingBox {
	return BoundingBox{minLat: minLat, minLon: minLon, maxLat: maxLat, maxLon: maxLon}
}

func (b BoundingBox) GetMinLat() float64 { return b.minLat }
func (b BoundingBox) GetMinLon() float64 { return b.minLon }
func (b BoundingBox) GetMaxLat() float64 { return b.maxLat }
func (b BoundingBox) GetMaxLon() float64 { return b.maxLon }

// Graph is the immutable base street network. it is loaded once per process
// lifetime and never mutated afterwards, weighting passes write into private
// WorkingGraph weight arrays instead.
type Graph struct {
	vertices []Vertex
	edges    []Edge

	// out-adjacency in csr form, built once by BuildAdjacency
	firstOut []int32
	outEdges []Index

	streetNames []string
	nameIds     map[string]int32

	boundingBox BoundingBox
}

func NewGraph() *Graph {
	return &Graph{
		vertices:    make([]Vertex, 0),
		edges:       make([]Edge, 0),
		streetNames: []string{""},
		nameIds:     map[string]int32{"": 0},
		boundingBox: NewBoundingBox(math.MaxFloat64, math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64),
	}
}

func (g *Graph) AddVertex(lat, lon float64, osmId int64) Index {
	id := Index(len(g.vertices))
	g.vertices = append(g.vertices, NewVertex(id, lat, lon, osmId))

	g.boundingBox.minLat = math.Min(g.boundingBox.minLat, lat)
	g.boundingBox.minLon = math.Min(g.boundingBox.minLon, lon)
	g.boundingBox.maxLat = math.Max(g.boundingBox.maxLat, lat)
	g.boundingBox.maxLon = math.Max(g.boundingBox.maxLon, lon)
	return id
}

func (g *Graph) internStreetName(name string) int32 {
	if id, ok := g.nameIds[name]; ok {
		return id
	}
	id := int32(len(g.streetNames))
	g.streetNames = append(g.streetNames, name)
	g.nameIds[name] = id
	return id
}

func (g *Graph) AddEdge(from, to Index, key int32, length float64, streetName string, class pkg.StreetClass) Index {
	id := Index(len(g.edges))
	nameID := g.internStreetName(streetName)
	g.edges = append(g.edges, NewEdge(id, from, to, key, length, nameID, class))
	g.firstOut = nil // adjacency is stale until the next BuildAdjacency
	return id
}

// BuildAdjacency builds the csr out-edge arrays. must be called once after
// the last AddEdge and before any traversal.
func (g *Graph) BuildAdjacency() {
	n := len(g.vertices)
	g.firstOut = make([]int32, n+1)
	for i := range g.edges {
		g.firstOut[g.edges[i].from+1]++
	}
	for v := 1; v <= n; v++ {
		g.firstOut[v] += g.firstOut[v-1]
	}

	g.outEdges = make([]Index, len(g.edges))
	next := make([]int32, n)
	for i := range g.edges {
		from := g.edges[i].from
		g.outEdges[g.firstOut[from]+next[from]] = g.edges[i].id
		next[from]++
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) GetVertex(id Index) *Vertex {
	return &g.vertices[id]
}

func (g *Graph) Vertices() []Vertex {
	return g.vertices
}

func (g *Graph) GetVertexCoordinates(id Index) (float64, float64) {
	v := &g.vertices[id]
	return v.lat, v.lon
}

func (g *Graph) GetEdge(id Index) *Edge {
	return &g.edges[id]
}

func (g *Graph) GetStreetName(e *Edge) string {
	return g.streetNames[e.nameID]
}

// EdgeMidPoint returns the midpoint of an edge, the anchor for hazard radius
// lookups.
func (g *Graph) EdgeMidPoint(e *Edge) geo.Coordinate {
	fromLat, fromLon := g.GetVertexCoordinates(e.from)
	toLat, toLon := g.GetVertexCoordinates(e.to)
	lat, lon := geo.MidPoint(fromLat, fromLon, toLat, toLon)
	return geo.NewCoordinate(lat, lon)
}

func (g *Graph) ForOutEdgesOf(u Index, fn func(e *Edge)) {
	for i := g.firstOut[u]; i < g.firstOut[u+1]; i++ {
		fn(&g.edges[g.outEdges[i]])
	}
}

func (g *Graph) GetBoundingBox() BoundingBox {
	return g.boundingBox
}

// StreetNames returns the distinct street names of the network, without the
// empty unnamed entry.
func (g *Graph) StreetNames() []string {
	names := make([]string, 0, len(g.streetNames)-1)
	for _, name := range g.streetNames {
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
