// Package pissedconsumer extracts complaints from the public listing page.
// Most entries carry no star rating, so classification leans on polarity.
package pissedconsumer

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

func (c *Client) Source() domain.Source { return domain.SourcePissedConsumer }

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
	observability.ObserveExternal("pissedconsumer", "reviews", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pissedconsumer: blocked or unavailable, status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pissedconsumer: parse: %w", err)
	}

	var out []domain.Review
	items := doc.Find("div.review-item")
	items.Each(func(_ int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Find(".review-text").Text())
		if text == "" {
			return
		}

		var rating *float64
		if attr, ok := item.Find("[data-rating]").Attr("data-rating"); ok {
			if v, err := strconv.ParseFloat(attr, 64); err == nil {
				rating = &v
			}
		}
		polarity := c.analyzer.Analyze(text)
		if !domain.IsNegative(rating, &polarity) {
			return
		}

		author := strings.TrimSpace(item.Find(".review-author").Text())
		if author == "" {
			author = "Anonymous"
		}

		var publish *time.Time
		if dt, ok := item.Find("time").Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, dt); err == nil {
				u := t.UTC()
				publish = &u
			}
		}

		link := c.url
		if href, ok := item.Find("a.review-link").Attr("href"); ok && href != "" {
			link = href
		}

		out = append(out, domain.Review{
			Source:      domain.SourcePissedConsumer,
			Rating:      rating,
			Sentiment:   &polarity,
			Text:        text,
			Author:      author,
			PublishTime: publish,
			Link:        link,
		})
	})

	if items.Length() == 0 {
		log.Warn().Str("url", c.url).Msg("pissedconsumer returned no review items")
	}
	return out, nil
}
