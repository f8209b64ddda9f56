package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sendero-labs/sendero/pkg/engine"
	"github.com/sendero-labs/sendero/pkg/geocode"
	sendero_http "github.com/sendero-labs/sendero/pkg/http"
	"github.com/sendero-labs/sendero/pkg/http/usecases"
	"github.com/sendero-labs/sendero/pkg/logger"
	"github.com/sendero-labs/sendero/pkg/observability"
	"github.com/sendero-labs/sendero/pkg/realtime"
	"github.com/sendero-labs/sendero/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		log.Warn("no config file found, running on defaults", zap.Error(err))
	}

	viper.SetDefault("GRAPH_FILE", "./data/benito_juarez.graph")
	viper.SetDefault("WEIGHT_WORKERS", 0)
	viper.SetDefault("FALLBACK_SNAPSHOT", "./data/backup_data.json")
	viper.SetDefault("GEOCODE_CACHE", "./data/geo_cache.json")
	viper.SetDefault("ECOBICI_URL", "https://gbfs.mex.lyftbikes.com/gbfs/es/station_status.json")
	viper.SetDefault("INCIDENTS_URL",
		"https://datos.cdmx.gob.mx/api/3/action/datastore_search?resource_id=59d5ede6-7af8-4384-a114-f84ff1b26fe1&limit=50&q=BENITO+JUAREZ")
	viper.SetDefault("FEED_TIMEOUT", "3s")
	viper.SetDefault("FEED_CACHE_TTL", "5m")
	viper.SetDefault("FEED_REFRESH_INTERVAL", "5m")
	viper.SetDefault("SYNTHETIC_INCIDENTS", true)
	viper.SetDefault("USE_RATE_LIMIT", false)

	routingEngine, err := engine.NewEngine(viper.GetString("GRAPH_FILE"),
		viper.GetInt("WEIGHT_WORKERS"), log)
	if err != nil {
		panic(err)
	}

	metrics := observability.NewRegistry()
	metrics.SetGraphSize(routingEngine.Graph().NumberOfVertices(),
		routingEngine.Graph().NumberOfEdges())

	httpClient := &http.Client{Timeout: 10 * time.Second}
	feed := realtime.NewFeed(
		realtime.NewEcobiciSource(viper.GetString("ECOBICI_URL"), httpClient, log),
		realtime.NewC5Source(viper.GetString("INCIDENTS_URL"), httpClient, log),
		realtime.NewFallbackStore(viper.GetString("FALLBACK_SNAPSHOT"), log),
		viper.GetDuration("FEED_TIMEOUT"),
		viper.GetDuration("FEED_CACHE_TTL"),
		log,
	)

	// no external geocoding provider is wired here, unknown place names land
	// on the district fallback coordinate and get cached results only
	geocodeCache := geocode.NewCache(viper.GetString("GEOCODE_CACHE"), nil, log)

	navigationService := usecases.NewNavigationService(log, routingEngine, feed,
		geocodeCache, metrics, viper.GetBool("SYNTHETIC_INCIDENTS"))

	api := sendero_http.NewServer(log, metrics)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx, log, viper.GetBool("USE_RATE_LIMIT"), navigationService)

	scheduler := realtime.NewScheduler(feed, viper.GetDuration("FEED_REFRESH_INTERVAL"),
		api.BroadcastIncident, metrics, log)
	go scheduler.Run(ctx)

	signal := sendero_http.GracefulShutdown()

	log.Info("Sendero Seguro routing engine stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
