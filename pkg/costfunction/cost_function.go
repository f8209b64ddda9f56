package costfunction

import (
	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/geo"
)

type EdgeAttributes interface {
	GetLength() float64
	GetStreetName() string
	GetClass() pkg.StreetClass
	GetMidPoint() geo.Coordinate
}

// HazardIndex answers "what is the worst incident impact near this point".
// implemented by spatialindex.IncidentIndex.
type HazardIndex interface {
	MaxImpactWithin(c geo.Coordinate, radiusDeg float64) (float64, bool)
}

type CostFunction interface {
	GetWeight(e EdgeAttributes) float64
}

// LengthFunction weighs every edge by its bare length in meters. the direct
// variant of a route query uses it.
type LengthFunction struct {
}

func NewLengthCostFunction() *LengthFunction {
	return &LengthFunction{}
}

func (lf *LengthFunction) GetWeight(e EdgeAttributes) float64 {
	return e.GetLength()
}

// graphEdgeAttributes adapts a graph edge to the EdgeAttributes view the cost
// functions consume.
type graphEdgeAttributes struct {
	g *datastructure.Graph
	e *datastructure.Edge
}

func NewGraphEdgeAttributes(g *datastructure.Graph, e *datastructure.Edge) EdgeAttributes {
	return graphEdgeAttributes{g: g, e: e}
}

func (ga graphEdgeAttributes) GetLength() float64 {
	return ga.e.GetLength()
}

func (ga graphEdgeAttributes) GetStreetName() string {
	return ga.g.GetStreetName(ga.e)
}

func (ga graphEdgeAttributes) GetClass() pkg.StreetClass {
	return ga.e.GetClass()
}

func (ga graphEdgeAttributes) GetMidPoint() geo.Coordinate {
	return ga.g.EdgeMidPoint(ga.e)
}
