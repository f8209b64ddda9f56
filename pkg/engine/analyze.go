package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/sendero-labs/sendero/pkg"
	"github.com/sendero-labs/sendero/pkg/costfunction"
	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/engine/routing"
	"github.com/sendero-labs/sendero/pkg/geo"
	"github.com/sendero-labs/sendero/pkg/spatialindex"
	"github.com/sendero-labs/sendero/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AnalysisParams struct {
	Origin        geo.Coordinate
	Destination   geo.Coordinate
	Urgency       int
	WeatherFactor float64
	Incidents     []datastructure.Incident
}

type VariantDetail struct {
	Path        datastructure.RoutePath
	Coords      []geo.Coordinate
	WalkMinutes float64

	// compass point of the first segment, "" for unreachable or trivial paths
	DepartureBearing string
}

type RiskAnalysis struct {
	Description      string             `json:"description"`
	RiskFactors      []string           `json:"risk_factors"`
	ImpactWeights    map[string]float64 `json:"impact_weights"`
	RecommendationBI string             `json:"recommendation_bi"`
	UrbanStressLevel string             `json:"urban_stress_level"`
}

type AnalysisResult struct {
	Direct   VariantDetail
	Shield   VariantDetail
	Balanced VariantDetail

	OriginNode      datastructure.Index
	DestinationNode datastructure.Index

	OriginQuadrant      string
	DestinationQuadrant string

	IntegrityScore  float64
	EludedIncidents int

	RiskAnalysis RiskAnalysis
}

// Analyze runs the three route variants between origin and destination:
// direct weighs edges by bare length, shield weighs them at urgency zero with
// incident impacts doubled, balanced uses the caller's urgency. an
// unreachable variant is reported in its detail, only a query where all three
// variants fail is an error.
func (e *Engine) Analyze(ctx context.Context, params AnalysisParams) (*AnalysisResult, error) {
	urgency := clampUrgency(params.Urgency)
	weather := params.WeatherFactor
	if weather < 1.0 {
		weather = 1.0
	}

	originQuadrant := e.grid.QuadrantID(params.Origin)
	destQuadrant := e.grid.QuadrantID(params.Destination)
	e.log.Info("mission initiated",
		zap.String("originQuadrant", originQuadrant),
		zap.String("destinationQuadrant", destQuadrant),
		zap.Int("urgency", urgency),
		zap.Float64("weatherFactor", weather),
		zap.Int("incidents", len(params.Incidents)))

	originNode, err := e.SnapToNearestNode(params.Origin)
	if err != nil {
		return nil, err
	}
	destNode, err := e.SnapToNearestNode(params.Destination)
	if err != nil {
		return nil, err
	}

	hazards := spatialindex.NewIncidentIndex(params.Incidents)
	shieldHazards := spatialindex.NewIncidentIndex(datastructure.DoubleImpacts(params.Incidents))

	var direct, shield, balanced datastructure.RoutePath

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := groupCtx.Err(); err != nil {
			return err
		}
		wg := datastructure.NewWorkingGraph(e.graph)
		wg.CopyLengths()
		direct = e.searchVariant(wg, originNode, destNode, datastructure.VARIANT_DIRECT)
		return nil
	})
	group.Go(func() error {
		if err := groupCtx.Err(); err != nil {
			return err
		}
		wg := datastructure.NewWorkingGraph(e.graph)
		cf := costfunction.NewImpedanceCostFunction(e.profile, shieldHazards, 0, weather)
		costfunction.ComputeWeights(wg, cf, e.weightWorkers)
		shield = e.searchVariant(wg, originNode, destNode, datastructure.VARIANT_SHIELD)
		return nil
	})
	group.Go(func() error {
		if err := groupCtx.Err(); err != nil {
			return err
		}
		wg := datastructure.NewWorkingGraph(e.graph)
		cf := costfunction.NewImpedanceCostFunction(e.profile, hazards, urgency, weather)
		costfunction.ComputeWeights(wg, cf, e.weightWorkers)
		balanced = e.searchVariant(wg, originNode, destNode, datastructure.VARIANT_BALANCED)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if !direct.Found && !shield.Found && !balanced.Found {
		return nil, util.WrapErrorf(nil, util.ErrNoPathFound,
			"no path between %s and %s in any variant", originQuadrant, destQuadrant)
	}

	hitsDirect := e.distinctIncidentsNear(direct, hazards)
	hitsBalanced := e.distinctIncidentsNear(balanced, hazards)

	integrityScore := 0.0
	if balanced.Found {
		integrityScore = util.RoundFloat(1.0-float64(util.Min(hitsBalanced, 5))*0.2, 2)
	}
	eluded := util.Max(0, hitsDirect-hitsBalanced)

	return &AnalysisResult{
		Direct:              e.variantDetail(direct),
		Shield:              e.variantDetail(shield),
		Balanced:            e.variantDetail(balanced),
		OriginNode:          originNode,
		DestinationNode:     destNode,
		OriginQuadrant:      originQuadrant,
		DestinationQuadrant: destQuadrant,
		IntegrityScore:      integrityScore,
		EludedIncidents:     eluded,
		RiskAnalysis: e.buildRiskAnalysis(balanced, hitsBalanced, integrityScore,
			originQuadrant, destQuadrant),
	}, nil
}

func (e *Engine) searchVariant(wg *datastructure.WorkingGraph, from, to datastructure.Index,
	v datastructure.RouteVariant) datastructure.RoutePath {
	path, err := routing.NewDijkstra(wg).ShortestPath(from, to)
	if err != nil {
		e.log.Warn("route variant unreachable",
			zap.String("variant", v.String()),
			zap.Int("from", int(from)), zap.Int("to", int(to)))
		return datastructure.NewUnreachablePath()
	}
	return path
}

func (e *Engine) variantDetail(path datastructure.RoutePath) VariantDetail {
	if !path.Found {
		return VariantDetail{Path: path}
	}

	coords := make([]geo.Coordinate, 0, len(path.Nodes))
	for _, n := range path.Nodes {
		lat, lon := e.graph.GetVertexCoordinates(n)
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}

	detail := VariantDetail{
		Path:        path,
		Coords:      coords,
		WalkMinutes: util.RoundFloat(path.Length/pkg.WALK_SPEED_MPS/60.0, 1),
	}
	if len(coords) >= 2 {
		bearing := geo.BearingTo(coords[0].GetLat(), coords[0].GetLon(),
			coords[1].GetLat(), coords[1].GetLon())
		detail.DepartureBearing = geo.CardinalDirection(bearing)
	}
	return detail
}

// distinctIncidentsNear counts the distinct incidents lying within the hazard
// radius of at least one path node.
func (e *Engine) distinctIncidentsNear(path datastructure.RoutePath, hazards *spatialindex.IncidentIndex) int {
	if !path.Found || hazards.Len() == 0 {
		return 0
	}
	seen := make(map[int]struct{})
	for _, n := range path.Nodes {
		lat, lon := e.graph.GetVertexCoordinates(n)
		for _, idx := range hazards.IndicesWithin(geo.NewCoordinate(lat, lon), pkg.INCIDENT_RADIUS_DEG) {
			seen[idx] = struct{}{}
		}
	}
	return len(seen)
}

func (e *Engine) buildRiskAnalysis(balanced datastructure.RoutePath, hits int,
	integrityScore float64, originQuadrant, destQuadrant string) RiskAnalysis {

	riskFactors := make([]string, 0, 2)
	impactWeights := make(map[string]float64)

	if hits > 0 {
		riskFactors = append(riskFactors,
			fmt.Sprintf("Proximidad crítica a %d incidentes C5/ADIP en radio táctico.", hits))
		impactWeights["incidents_c5"] = util.RoundFloat(math.Min(float64(hits)*0.2, 1.0), 2)
	} else {
		riskFactors = append(riskFactors,
			"Sin incidentes C5 activos detectados en la trayectoria inmediata.")
		impactWeights["incidents_c5"] = 0.0
	}

	if balanced.Found && balanced.Length > 0 {
		// average impedance multiplier as a proxy for the volatility of the
		// corridors the balanced path crosses
		avgMultiplier := balanced.Cost / balanced.Length
		if avgMultiplier > 15.0 {
			riskFactors = append(riskFactors,
				"Atravesando zonas con alto historial de volatilidad urbana.")
			impactWeights["historical_volatility"] = 0.4
		} else if avgMultiplier < 5.0 {
			riskFactors = append(riskFactors,
				"Trayectoria optimizada por corredores viales de baja intensidad de riesgo.")
			impactWeights["historical_volatility"] = 0.0
		}
	}

	var stressLevel, recommendation string
	switch {
	case integrityScore > 0.8:
		stressLevel = "LOW"
		recommendation = "Operación estándar permitida. No se requieren escoltas adicionales."
	case integrityScore > 0.5:
		stressLevel = "MODERATE"
		recommendation = "Monitoreo preventivo recomendado. Priorizar conductores con certificación de seguridad."
	default:
		stressLevel = "CRITICAL"
		recommendation = "Alerta: Se recomienda desvío inmediato o protocolo de alta seguridad para carga sensible."
	}

	return RiskAnalysis{
		Description: fmt.Sprintf("Análisis de riesgo basado en Fórmula Sandoval 2.5 para %s -> %s.",
			originQuadrant, destQuadrant),
		RiskFactors:      riskFactors,
		ImpactWeights:    impactWeights,
		RecommendationBI: recommendation,
		UrbanStressLevel: stressLevel,
	}
}

func clampUrgency(urgency int) int {
	if urgency < 0 {
		return 0
	}
	if urgency > 100 {
		return 100
	}
	return urgency
}
