package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"market_monitor/internal/adapters/observability"
	"market_monitor/internal/app"
	"market_monitor/internal/bootstrap"
	"market_monitor/internal/shared"
)

// runner executes exactly one aggregation cycle and exits. Intended for cron;
// acknowledgment tracking needs the long-lived API binary, so interactive
// chat posts are disabled here.
func main() {
	ctx := context.Background()
	cfg := shared.Load()
	cfg.SlackInteractive = false

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Strs("sinks", cfg.Sinks).
		Int("workers", cfg.GenWorkers).
		Msg("runner starting")

	pipeline := bootstrap.NewPipeline(cfg, app.NewTracker())
	reviews := pipeline.Run(ctx)

	log.Info().Int("reviews", len(reviews)).Msg("cycle completed")
}
