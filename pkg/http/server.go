package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sendero-labs/sendero/pkg/datastructure"
	http_router "github.com/sendero-labs/sendero/pkg/http/router"
	"github.com/sendero-labs/sendero/pkg/http/router/controllers"
	http_server "github.com/sendero-labs/sendero/pkg/http/server"
	"github.com/sendero-labs/sendero/pkg/observability"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	api *http_router.API
}

func NewServer(log *zap.Logger, metrics *observability.Registry) *Server {
	return &Server{Log: log, api: http_router.NewAPI(log, metrics)}
}

func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	navigationService controllers.NavigationService,

) (*Server, error) {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("WEBSOCKET_PORT", 6666)
	viper.SetDefault("PROXY_PORT", 6767)

	viper.SetDefault("API_TIMEOUT", "1000s")

	config := http_server.NewConfig(
		viper.GetInt("API_PORT"),
		viper.GetInt("WEBSOCKET_PORT"),
		viper.GetInt("PROXY_PORT"),
		viper.GetDuration("API_TIMEOUT"),
	)

	g := errgroup.Group{}

	g.Go(func() error {
		return s.api.Run(
			ctx, config, log,
			useRateLimit, navigationService,
		)
	})

	return s, nil
}

// BroadcastIncident hands a high impact incident to the websocket alert hub,
// the scheduler's alert callback is wired straight to this.
func (s *Server) BroadcastIncident(incident datastructure.Incident) {
	s.api.BroadcastIncident(incident)
}

// GracefulShutdown blocks until the process receives an interrupt or
// termination signal.
func GracefulShutdown() os.Signal {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	return <-sig
}
