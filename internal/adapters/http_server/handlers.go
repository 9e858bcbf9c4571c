package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"market_monitor/internal/app"
)

type Handlers struct {
	Pipeline *app.Pipeline
	Slack    http.Handler // interaction callback endpoint; nil disables it
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews", h.runCycle)
	if h.Slack != nil {
		s.mux.Post("/slack/events", h.Slack.ServeHTTP)
	}
}

// runCycle triggers one full aggregation cycle. Distribution runs before the
// response is written, so the caller observes the post-distribution state.
func (h *Handlers) runCycle(w http.ResponseWriter, r *http.Request) {
	reviews := h.Pipeline.Run(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	out := map[string]any{"total": len(reviews), "reviews": reviews}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("failed to write review list")
	}
}
