package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sendero-labs/sendero/pkg/datastructure"
	"github.com/sendero-labs/sendero/pkg/logger"
	"github.com/sendero-labs/sendero/pkg/realtime"
	"github.com/sendero-labs/sendero/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// standalone ingest daemon. keeps the fallback snapshot warm for
// deployments where the routing engine itself runs elsewhere.
func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		log.Warn("no config file found, running on defaults", zap.Error(err))
	}

	viper.SetDefault("FALLBACK_SNAPSHOT", "./data/backup_data.json")
	viper.SetDefault("ECOBICI_URL", "https://gbfs.mex.lyftbikes.com/gbfs/es/station_status.json")
	viper.SetDefault("INCIDENTS_URL",
		"https://datos.cdmx.gob.mx/api/3/action/datastore_search?resource_id=59d5ede6-7af8-4384-a114-f84ff1b26fe1&limit=50&q=BENITO+JUAREZ")
	viper.SetDefault("FEED_TIMEOUT", "3s")
	viper.SetDefault("FEED_CACHE_TTL", "5m")
	viper.SetDefault("FEED_REFRESH_INTERVAL", "5m")

	httpClient := &http.Client{Timeout: 10 * time.Second}
	feed := realtime.NewFeed(
		realtime.NewEcobiciSource(viper.GetString("ECOBICI_URL"), httpClient, log),
		realtime.NewC5Source(viper.GetString("INCIDENTS_URL"), httpClient, log),
		realtime.NewFallbackStore(viper.GetString("FALLBACK_SNAPSHOT"), log),
		viper.GetDuration("FEED_TIMEOUT"),
		viper.GetDuration("FEED_CACHE_TTL"),
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())

	alert := func(incident datastructure.Incident) {
		log.Warn("high impact incident detected",
			zap.String("tipo", incident.Type),
			zap.Float64("impacto", incident.Impact),
			zap.Float64("lat", incident.Lat),
			zap.Float64("lon", incident.Lon))
	}

	scheduler := realtime.NewScheduler(feed, viper.GetDuration("FEED_REFRESH_INTERVAL"),
		alert, nil, log)
	go scheduler.Run(ctx)

	// prime the snapshot immediately instead of waiting one full interval
	feed.Refresh(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig

	cancel()
	log.Info("ingest daemon stopped", zap.String("signal", received.String()))
}
