package usecases

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/engine"
	"github.com/sendero-labs/sendero/pkg/geo"
	"github.com/sendero-labs/sendero/pkg/observability"
	"github.com/sendero-labs/sendero/pkg/realtime"
	"github.com/sendero-labs/sendero/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// fallbackSuggestions are served when the street graph carries no named
// streets at all, the well known district landmarks.
var fallbackSuggestions = []string{
	"Parque de los Venados",
	"WTC Ciudad de México",
	"Metro Zapata",
	"Metro Centro Médico",
}

type NavigationService struct {
	log     *zap.Logger
	engine  RouteAnalyzer
	feed    SnapshotProvider
	places  PlaceResolver
	metrics *observability.Registry

	// synthetic hazards are appended to each analysis when enabled, the
	// demonstration posture of the original district deployments
	synthetic bool
	rngMu     sync.Mutex
	rng       *rand.Rand
}

func NewNavigationService(log *zap.Logger, analyzer RouteAnalyzer, feed SnapshotProvider,
	places PlaceResolver, metrics *observability.Registry, synthetic bool) *NavigationService {
	return &NavigationService{
		log:       log,
		engine:    analyzer,
		feed:      feed,
		places:    places,
		metrics:   metrics,
		synthetic: synthetic,
		rng:       rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (s *NavigationService) AnalyzeRoute(ctx context.Context, origin, destination geo.Coordinate,
	urgency int, weather string) (*engine.AnalysisResult, error) {
	if err := geo.ValidateCoordinate(origin); err != nil {
		return nil, err
	}
	if err := geo.ValidateCoordinate(destination); err != nil {
		return nil, err
	}
	if urgency < 0 || urgency > 100 {
		return nil, util.WrapErrorf(nil, util.ErrValidation, "urgency must be within [0,100], got %d", urgency)
	}
	factor, err := weatherFactor(weather)
	if err != nil {
		return nil, err
	}

	incidents := s.currentIncidents(ctx)

	start := time.Now()
	result, err := s.engine.Analyze(ctx, engine.AnalysisParams{
		Origin:        origin,
		Destination:   destination,
		Urgency:       urgency,
		WeatherFactor: factor,
		Incidents:     incidents,
	})
	if err != nil {
		s.metrics.RecordRouteQuery("error", time.Since(start))
		return nil, err
	}
	s.metrics.RecordRouteQuery("ok", time.Since(start))

	if !result.Direct.Path.Found {
		s.metrics.RecordUnreachableVariant(datastructure.VARIANT_DIRECT.String())
	}
	if !result.Shield.Path.Found {
		s.metrics.RecordUnreachableVariant(datastructure.VARIANT_SHIELD.String())
	}
	if !result.Balanced.Path.Found {
		s.metrics.RecordUnreachableVariant(datastructure.VARIANT_BALANCED.String())
	}

	return result, nil
}

func (s *NavigationService) AuditRoute(ctx context.Context, path []geo.Coordinate,
	sensitivity string) (*engine.AuditReport, error) {
	for _, c := range path {
		if err := geo.ValidateCoordinate(c); err != nil {
			return nil, err
		}
	}

	snapshot := s.feed.Fetch(ctx)
	return s.engine.AuditRoute(path, snapshot.Incidents, sensitivity)
}

func (s *NavigationService) FeedStatus(ctx context.Context) *datastructure.RealtimeSnapshot {
	return s.feed.Fetch(ctx)
}

func (s *NavigationService) GraphSize() (int, int, int) {
	g := s.engine.Graph()
	return g.NumberOfVertices(), g.NumberOfEdges(), len(g.StreetNames())
}

func (s *NavigationService) ActiveIncidents(ctx context.Context, page, pageSize int) ([]datastructure.Incident, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	snapshot := s.feed.Fetch(ctx)
	total := len(snapshot.Incidents)

	start := (page - 1) * pageSize
	if start >= total {
		return []datastructure.Incident{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return snapshot.Incidents[start:end], total
}

func (s *NavigationService) StreetSuggestions(query string, limit int) []string {
	names := s.engine.Graph().StreetNames()
	if len(names) == 0 {
		out := make([]string, len(fallbackSuggestions))
		copy(out, fallbackSuggestions)
		return out
	}

	q := strings.ToLower(strings.TrimSpace(query))
	matches := make([]string, 0, limit)
	for _, name := range names {
		if q != "" && !strings.Contains(strings.ToLower(name), q) {
			continue
		}
		matches = append(matches, name)
	}
	sort.Strings(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (s *NavigationService) ResolvePlace(ctx context.Context, query string) (geo.Coordinate, bool) {
	return s.places.Resolve(ctx, query)
}

// currentIncidents merges the live feed with synthetic hazards into a fresh
// slice, the cached snapshot is never appended to in place.
func (s *NavigationService) currentIncidents(ctx context.Context) []datastructure.Incident {
	snapshot := s.feed.Fetch(ctx)

	incidents := make([]datastructure.Incident, 0, len(snapshot.Incidents)+8)
	incidents = append(incidents, snapshot.Incidents...)

	if s.synthetic {
		s.rngMu.Lock()
		generated := realtime.GenerateSyntheticIncidents(s.engine.Graph(), s.rng)
		s.rngMu.Unlock()
		incidents = append(incidents, generated...)
	}
	return incidents
}

func weatherFactor(weather string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(weather)) {
	case "", "clear":
		return 1.0, nil
	case "rainy":
		return 1.5, nil
	case "flooded":
		return 3.0, nil
	}

	factor, err := strconv.ParseFloat(weather, 64)
	if err != nil || factor < 1.0 {
		return 0, util.WrapErrorf(err, util.ErrValidation,
			"weather must be clear, rainy, flooded or a numeric factor >= 1.0, got %q", weather)
	}
	return factor, nil
}
