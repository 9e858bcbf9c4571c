package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	server "market_monitor/internal/adapters/http_server"
	"market_monitor/internal/adapters/observability"
	slackad "market_monitor/internal/adapters/slack"
	"market_monitor/internal/app"
	"market_monitor/internal/bootstrap"
	"market_monitor/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	tracker := app.NewTracker()
	pipeline := bootstrap.NewPipeline(cfg, tracker)

	// The trigger request runs a full cycle inline: fetches, generation, and
	// distribution all have to fit under the request timeout.
	requestTimeout := cfg.FetchTimeout + cfg.GenTimeout + 30*time.Second
	srv := server.New(requestTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))

	handlers := &server.Handlers{Pipeline: pipeline}
	if cfg.SlackInteractive && bootstrap.HasSink(cfg, "slack") {
		handlers.Slack = slackad.NewHandler(tracker, cfg.SlackSigningSecret)
	}
	srv.MountHandlers(handlers)

	log.Info().Str("addr", cfg.HTTPAddr).Strs("sinks", cfg.Sinks).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
