// Package google fetches reviews from the Places API (New) and keeps the
// negative subset.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"market_monitor/internal/adapters/observability"
	"market_monitor/internal/domain"
)

const defaultBase = "https://places.googleapis.com/v1"

type Client struct {
	base     string
	key      string
	placeID  string
	hc       *http.Client
	analyzer domain.SentimentAnalyzer
}

func New(key, placeID string, timeout time.Duration, analyzer domain.SentimentAnalyzer) *Client {
	return &Client{
		base:     defaultBase,
		key:      key,
		placeID:  placeID,
		hc:       &http.Client{Timeout: timeout},
		analyzer: analyzer,
	}
}

// WithBase overrides the API base URL, for tests.
func (c *Client) WithBase(base string) *Client {
	c.base = strings.TrimSuffix(base, "/")
	return c
}

func (c *Client) Source() domain.Source { return domain.SourceGoogle }

type placePayload struct {
	Reviews []struct {
		Rating            float64 `json:"rating"`
		Text              struct{ Text string `json:"text"` } `json:"text"`
		AuthorAttribution struct {
			DisplayName string `json:"displayName"`
		} `json:"authorAttribution"`
		PublishTime string `json:"publishTime"`
	} `json:"reviews"`
}

func (c *Client) FetchNegative(ctx context.Context) ([]domain.Review, error) {
	url := fmt.Sprintf("%s/places/%s?fields=reviews&key=%s", c.base, c.placeID, c.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("google", "places", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("google: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var payload placePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("google: decode: %w", err)
	}

	// Google reviews carry no per-review URL; link to the place listing.
	link := fmt.Sprintf("https://www.google.com/maps/place/?q=place_id:%s", c.placeID)

	var out []domain.Review
	for _, r := range payload.Reviews {
		text := strings.TrimSpace(r.Text.Text)
		if text == "" {
			continue
		}
		rating := r.Rating
		polarity := c.analyzer.Analyze(text)
		if !domain.IsNegative(&rating, &polarity) {
			continue
		}
		author := r.AuthorAttribution.DisplayName
		if author == "" {
			author = "Unknown"
		}
		out = append(out, domain.Review{
			Source:      domain.SourceGoogle,
			Rating:      &rating,
			Sentiment:   &polarity,
			Text:        text,
			Author:      author,
			PublishTime: parseRFC3339(r.PublishTime),
			Link:        link,
		})
	}
	log.Debug().Int("negative", len(out)).Int("total", len(payload.Reviews)).Msg("google reviews fetched")
	return out, nil
}

func parseRFC3339(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	u := t.UTC()
	return &u
}
