package slackad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"market_monitor/internal/app"
	"market_monitor/internal/domain"
)

// Handler receives Slack interaction callbacks. The transport-level 200 goes
// back immediately (Slack's 3-second rule); the domain acknowledgment and the
// visible confirmation are processed afterwards.
type Handler struct {
	tracker       *app.Tracker
	signingSecret string
}

func NewHandler(tracker *app.Tracker, signingSecret string) *Handler {
	return &Handler{tracker: tracker, signingSecret: signingSecret}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read failed", http.StatusBadRequest)
		return
	}

	if h.signingSecret != "" {
		sv, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
		if err != nil {
			http.Error(w, "bad signature headers", http.StatusUnauthorized)
			return
		}
		if _, err := sv.Write(body); err != nil {
			http.Error(w, "verify failed", http.StatusInternalServerError)
			return
		}
		if err := sv.Ensure(); err != nil {
			http.Error(w, "signature mismatch", http.StatusUnauthorized)
			return
		}
	}

	vals, err := url.ParseQuery(string(body))
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	var cb slack.InteractionCallback
	if err := json.Unmarshal([]byte(vals.Get("payload")), &cb); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if cb.Type != slack.InteractionTypeBlockActions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// transport ack first, then process
	w.WriteHeader(http.StatusOK)
	for _, action := range cb.ActionCallback.BlockActions {
		if action.ActionID != AckActionID {
			continue
		}
		go h.handleAck(action.Value, cb.User.ID, cb.ResponseURL)
	}
}

// handleAck applies the domain acknowledgment and posts the visible
// confirmation through the callback's response_url.
func (h *Handler) handleAck(actionID, userID, responseURL string) {
	rec, first, err := h.tracker.Acknowledge(actionID, userID, time.Now().UTC())

	var text string
	switch {
	case errors.Is(err, domain.ErrUnknownAction):
		log.Warn().Str("action_id", actionID).Str("user", userID).Msg("acknowledgment for unknown action id")
		text = "This review is no longer tracked here."
	case err != nil:
		log.Error().Err(err).Str("action_id", actionID).Msg("acknowledge failed")
		return
	case first:
		log.Info().Str("action_id", actionID).Str("user", userID).Msg("review acknowledged")
		text = fmt.Sprintf("Review acknowledged by <@%s> ✓", userID)
	default:
		text = fmt.Sprintf("Already acknowledged by <@%s>", rec.AcknowledgedBy)
	}

	if responseURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := slack.PostWebhookContext(ctx, responseURL, &slack.WebhookMessage{Text: text}); err != nil {
		log.Error().Err(err).Msg("posting acknowledgment confirmation failed")
	}
}
