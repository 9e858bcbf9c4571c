// Package bootstrap assembles the pipeline from config. Both binaries (the
// API and the one-shot runner) wire the exact same graph.
package bootstrap

import (
	"context"

	"github.com/rs/zerolog/log"

	"market_monitor/internal/adapters/genai"
	"market_monitor/internal/adapters/google"
	"market_monitor/internal/adapters/pissedconsumer"
	redisad "market_monitor/internal/adapters/redis"
	"market_monitor/internal/adapters/sentiment"
	slackad "market_monitor/internal/adapters/slack"
	smtpad "market_monitor/internal/adapters/smtp"
	"market_monitor/internal/adapters/trustpilot"
	"market_monitor/internal/adapters/xlsx"
	"market_monitor/internal/app"
	"market_monitor/internal/domain"
	"market_monitor/internal/shared"
)

func NewPipeline(cfg shared.Config, tracker *app.Tracker) *app.Pipeline {
	analyzer := sentiment.NewVader()

	adapters := []domain.SourceAdapter{
		google.New(cfg.GoogleAPIKey, cfg.GooglePlaceID, cfg.FetchTimeout, analyzer),
		trustpilot.New(cfg.TrustPilotURL, cfg.FetchTimeout, analyzer),
		pissedconsumer.New(cfg.PissedConsumerURL, cfg.FetchTimeout, analyzer),
	}

	var gen domain.Generator = noGenerator{}
	if cfg.GenAIURL != "" {
		cl, err := genai.New(cfg.GenAIURL, cfg.GenAIDeployment, cfg.GenTimeout, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize generation client")
		}
		gen = cl
	}

	var cache domain.ResponseCache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	responder := app.NewResponder(gen, cache, cfg.CacheTTL, app.BrandVoice{
		Name:             cfg.BrandName,
		AltName:          cfg.BrandAltName,
		ContactURLGlobal: cfg.ContactURLGlobal,
		ContactURLEU:     cfg.ContactURLEU,
		ContactURLAPAC:   cfg.ContactURLAPAC,
	})

	return app.NewPipeline(adapters, responder, Sinks(cfg, tracker), cfg.FetchTimeout, cfg.GenWorkers, cfg.Locale)
}

// Sinks builds the distribution set named in cfg.Sinks.
func Sinks(cfg shared.Config, tracker *app.Tracker) []domain.Sink {
	var sinks []domain.Sink
	for _, name := range cfg.Sinks {
		switch name {
		case "xlsx":
			sinks = append(sinks, xlsx.New(cfg.ExportPath))
		case "email":
			sinks = append(sinks, smtpad.NewDigest(smtpad.Config{
				Host: cfg.SMTPHost, Port: cfg.SMTPPort,
				User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
				Recipients: cfg.DigestRecipients, TopN: cfg.DigestTopN,
				DevMode: cfg.AppEnv == "dev",
			}))
		case "slack":
			sinks = append(sinks, slackad.NewPoster(cfg.SlackToken, cfg.SlackChannel, cfg.SlackInteractive, tracker))
		default:
			log.Warn().Str("sink", name).Msg("unknown sink in SINKS, skipping")
		}
	}
	return sinks
}

func HasSink(cfg shared.Config, name string) bool {
	for _, s := range cfg.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// noGenerator stands in when no endpoint is configured; every review gets the
// fallback text.
type noGenerator struct{}

func (noGenerator) Generate(context.Context, string) (string, error) { return "", nil }
