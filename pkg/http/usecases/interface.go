package usecases

import (
	"context"

	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/engine"
	"github.com/sendero-labs/sendero/pkg/geo"
)

type RouteAnalyzer interface {
	Analyze(ctx context.Context, params engine.AnalysisParams) (*engine.AnalysisResult, error)
	AuditRoute(coords []geo.Coordinate, incidents []datastructure.Incident,
		sensitivityTier string) (*engine.AuditReport, error)
	Graph() *datastructure.Graph
}

type SnapshotProvider interface {
	Fetch(ctx context.Context) *datastructure.RealtimeSnapshot
}

type PlaceResolver interface {
	Resolve(ctx context.Context, query string) (geo.Coordinate, bool)
}
