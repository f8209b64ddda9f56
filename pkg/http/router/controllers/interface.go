package controllers

import (
	"context"

	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/engine"
	"github.com/sendero-labs/sendero/pkg/geo"
)

type NavigationService interface {
	AnalyzeRoute(ctx context.Context, origin, destination geo.Coordinate,
		urgency int, weather string) (*engine.AnalysisResult, error)
	AuditRoute(ctx context.Context, path []geo.Coordinate, sensitivity string) (*engine.AuditReport, error)
	FeedStatus(ctx context.Context) *datastructure.RealtimeSnapshot
	GraphSize() (int, int, int)
	ActiveIncidents(ctx context.Context, page, pageSize int) ([]datastructure.Incident, int)
	StreetSuggestions(query string, limit int) []string
	ResolvePlace(ctx context.Context, query string) (geo.Coordinate, bool)
}
