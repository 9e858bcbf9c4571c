package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_monitor/internal/app"
)

type fakeGen struct {
	answer string
	err    error
	calls  int
	mu     sync.Mutex
}

func (f *fakeGen) Generate(ctx context.Context, question string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.answer, f.err
}

type memCache struct {
	mu sync.Mutex
	m  map[string]string
}

func (c *memCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string]string{}
	}
	c.m[key] = val
	return nil
}

var voice = app.BrandVoice{
	Name: "APP", AltName: "SquareTrade",
	ContactURLGlobal: "squaretrade.com/contact",
	ContactURLEU:     "squaretrade.eu/contact-us",
	ContactURLAPAC:   "squaretrade.com.au/contact",
}

func TestSuggest_ReturnsAnswer(t *testing.T) {
	g := &fakeGen{answer: "We're sorry..."}
	r := app.NewResponder(g, nil, 0, voice)
	assert.Equal(t, "We're sorry...", r.Suggest(context.Background(), "Broken device", "global"))
}

func TestSuggest_FallbackNeverEmpty(t *testing.T) {
	cases := []*fakeGen{
		{err: errors.New("connection refused")},
		{err: context.DeadlineExceeded},
		{answer: ""},
		{answer: "   "},
	}
	for _, g := range cases {
		r := app.NewResponder(g, nil, 0, voice)
		got := r.Suggest(context.Background(), "text", "global")
		require.Equal(t, app.Fallback, got)
		require.NotEmpty(t, got)
	}
}

func TestSuggest_CacheHitSkipsEndpoint(t *testing.T) {
	g := &fakeGen{answer: "drafted"}
	cache := &memCache{}
	r := app.NewResponder(g, cache, time.Hour, voice)

	first := r.Suggest(context.Background(), "same text", "global")
	second := r.Suggest(context.Background(), "same text", "global")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.calls)
}

func TestSuggest_FallbackNotCached(t *testing.T) {
	g := &fakeGen{err: errors.New("down")}
	cache := &memCache{}
	r := app.NewResponder(g, cache, time.Hour, voice)

	_ = r.Suggest(context.Background(), "text", "global")
	assert.Empty(t, cache.m)
}

func TestPrompt_LocaleContactURL(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"global", "squaretrade.com/contact"},
		{"us", "squaretrade.com/contact"},
		{"eu", "squaretrade.eu/contact-us"},
		{"uk", "squaretrade.eu/contact-us"},
		{"au", "squaretrade.com.au/contact"},
		{"apac", "squaretrade.com.au/contact"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			g := &fakeGen{answer: "ok"}
			captured := ""
			gen := &capturingGen{inner: g, captured: &captured}
			r := app.NewResponder(gen, nil, 0, voice)
			r.Suggest(context.Background(), "some complaint", tt.locale)
			assert.Contains(t, captured, tt.want)
			assert.Contains(t, captured, "some complaint")
			assert.Contains(t, captured, "under 100 words")
		})
	}
}

type capturingGen struct {
	inner    *fakeGen
	captured *string
}

func (c *capturingGen) Generate(ctx context.Context, question string) (string, error) {
	*c.captured = question
	return c.inner.Generate(ctx, question)
}

func TestPrompt_BrandNames(t *testing.T) {
	captured := ""
	gen := &capturingGen{inner: &fakeGen{answer: "ok"}, captured: &captured}
	r := app.NewResponder(gen, nil, 0, voice)
	r.Suggest(context.Background(), "x", "global")
	assert.True(t, strings.Contains(captured, "APP") && strings.Contains(captured, "SquareTrade"))
}
