// Package trustpilot extracts reviews from the public review listing page.
// Trustpilot exposes no API for this; the page markup is the contract, and an
// anti-bot block surfaces as an empty page or a non-200 status.
package trustpilot

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"market_monitor/internal/adapters/observability"
	"market_monitor/internal/domain"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:109.0) Gecko/20100101 Firefox/117.0"

type Client struct {
	url      string
	hc       *http.Client
	analyzer domain.SentimentAnalyzer
}

func New(url string, timeout time.Duration, analyzer domain.SentimentAnalyzer) *Client {
	return &Client{url: url, hc: &http.Client{Timeout: timeout}, analyzer: analyzer}
}

func (c *Client) Source() domain.Source { return domain.SourceTrustPilot }

func (c *Client) FetchNegative(ctx context.Context) ([]domain.Review, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("trustpilot", "reviews", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trustpilot: blocked or unavailable, status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("trustpilot: parse: %w", err)
	}

	var out []domain.Review
	cards := doc.Find("article[data-service-review-card-paper]")
	cards.Each(func(_ int, card *goquery.Selection) {
		text := strings.TrimSpace(card.Find("p[data-service-review-text-typography]").Text())
		if text == "" {
			return
		}

		var rating *float64
		if attr, ok := card.Find("div[data-service-review-rating]").Attr("data-service-review-rating"); ok {
			if v, err := strconv.ParseFloat(attr, 64); err == nil {
				rating = &v
			}
		}
		polarity := c.analyzer.Analyze(text)
		if !domain.IsNegative(rating, &polarity) {
			return
		}

		author := strings.TrimSpace(card.Find("[data-consumer-name-typography]").Text())
		if author == "" {
			author = "Unknown"
		}

		var publish *time.Time
		if dt, ok := card.Find("time").Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, dt); err == nil {
				u := t.UTC()
				publish = &u
			}
		}

		out = append(out, domain.Review{
			Source:      domain.SourceTrustPilot,
			Rating:      rating,
			Sentiment:   &polarity,
			Text:        text,
			Author:      author,
			PublishTime: publish,
			Link:        c.url, // no per-review URL; link the listing
		})
	})

	if cards.Length() == 0 {
		log.Warn().Str("url", c.url).Msg("trustpilot returned no review cards")
	}
	return out, nil
}
