// internal/adapters/genai/client.go
package genai

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"market_monitor/internal/adapters/observability"
)

var (
	ErrNoAnswer     = errors.New("genai: response carried no answer")
	ErrUnauthorized = errors.New("genai: unauthorized")
)

// Client talks to the text-generation gateway:
//
//	POST {question, deployment_id} -> {"answer": "..."} | {"answers": [{"answer": "..."}]}
//
// Calls are rate limited client-side and retried on 429/transient 5xx,
// honoring Retry-After when provided. Each call is bounded by the client
// timeout; there is no mid-flight cancellation beyond that.
type Client struct {
	url        string
	deployment string
	hc         *http.Client
	rl         *rate.Limiter
}

func New(url, deployment string, timeout time.Duration, rps int) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("generation endpoint URL is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		url:        url,
		deployment: deployment,
		hc:         &http.Client{Timeout: timeout},
		rl:         rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type request struct {
	Question     string `json:"question"`
	DeploymentID string `json:"deployment_id"`
}

type response struct {
	Answer  string `json:"answer"`
	Answers []struct {
		Answer string `json:"answer"`
	} `json:"answers"`
}

// answer returns the first usable answer from either accepted shape.
func (r response) answer() (string, bool) {
	if s := strings.TrimSpace(r.Answer); s != "" {
		return s, true
	}
	for _, a := range r.Answers {
		if s := strings.TrimSpace(a.Answer); s != "" {
			return s, true
		}
	}
	return "", false
}

func (c *Client) Generate(ctx context.Context, question string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(request{Question: question, DeploymentID: c.deployment})
	if err != nil {
		return "", err
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			if i < 2 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return "", lastErr
		}
		observability.ObserveExternal("genai", "questions", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			var out response
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return "", fmt.Errorf("genai: decode: %w", err)
			}
			if a, ok := out.answer(); ok {
				return a, nil
			}
			return "", ErrNoAnswer

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return "", ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("genai: remote %d", resp.StatusCode)
			if i < 2 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return "", fmt.Errorf("genai: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return "", lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles each attempt (200ms, 400ms, ...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
