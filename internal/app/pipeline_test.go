package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_monitor/internal/app"
	"market_monitor/internal/domain"
)

// ---- fakes ----

type fakeAdapter struct {
	src     domain.Source
	reviews []domain.Review
	err     error
	block   bool // simulate a hang until the fetch timeout fires
}

func (f *fakeAdapter) Source() domain.Source { return f.src }

func (f *fakeAdapter) FetchNegative(ctx context.Context) ([]domain.Review, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.reviews, f.err
}

type fakeSuggester struct {
	reply string
	mu    sync.Mutex
	calls int
}

func (f *fakeSuggester) Suggest(ctx context.Context, text, locale string) string {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.reply == "" {
		return app.Fallback
	}
	return f.reply
}

type captureSink struct {
	name string
	err  error
	mu   sync.Mutex
	got  [][]domain.Review
}

func (s *captureSink) Name() string { return s.name }

func (s *captureSink) Deliver(ctx context.Context, reviews []domain.Review) error {
	s.mu.Lock()
	s.got = append(s.got, reviews)
	s.mu.Unlock()
	return s.err
}

func fpv(v float64) *float64 { return &v }

// ---- tests ----

func TestRun_EndToEndSingleSurvivingSource(t *testing.T) {
	pt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	google := &fakeAdapter{src: domain.SourceGoogle, reviews: []domain.Review{
		{Source: domain.SourceGoogle, Rating: fpv(2), Text: "Broken device", Author: "Ana", PublishTime: &pt},
	}}
	trustpilot := &fakeAdapter{src: domain.SourceTrustPilot, err: errors.New("blocked")}
	pissed := &fakeAdapter{src: domain.SourcePissedConsumer}

	sink := &captureSink{name: "capture"}
	sg := &fakeSuggester{reply: "We're sorry..."}
	p := app.NewPipeline(
		[]domain.SourceAdapter{google, trustpilot, pissed},
		sg, []domain.Sink{sink}, time.Second, 2, "global",
	)

	got := p.Run(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "We're sorry...", got[0].SuggestedResponse)

	require.Len(t, sink.got, 1)
	require.Len(t, sink.got[0], 1)
	assert.Equal(t, "We're sorry...", sink.got[0][0].SuggestedResponse)
}

func TestRun_AdapterIsolation(t *testing.T) {
	g := &fakeAdapter{src: domain.SourceGoogle, reviews: []domain.Review{
		{Source: domain.SourceGoogle, Rating: fpv(1), Text: "g1"},
		{Source: domain.SourceGoogle, Rating: fpv(2), Text: "g2"},
	}}
	tpAdapter := &fakeAdapter{src: domain.SourceTrustPilot, block: true} // hangs until timeout
	pc := &fakeAdapter{src: domain.SourcePissedConsumer, reviews: []domain.Review{
		{Source: domain.SourcePissedConsumer, Sentiment: fpv(-0.5), Text: "p1"},
	}}

	p := app.NewPipeline(
		[]domain.SourceAdapter{g, tpAdapter, pc},
		&fakeSuggester{reply: "r"}, nil, 50*time.Millisecond, 2, "global",
	)

	got := p.Run(context.Background())
	require.Len(t, got, 3) // union of the surviving sources
	for _, rv := range got {
		assert.NotEqual(t, domain.SourceTrustPilot, rv.Source)
		assert.NotEmpty(t, rv.SuggestedResponse)
	}
}

func TestRun_EmptyTextDiscardedBeforeGeneration(t *testing.T) {
	g := &fakeAdapter{src: domain.SourceGoogle, reviews: []domain.Review{
		{Source: domain.SourceGoogle, Rating: fpv(1), Text: ""},
		{Source: domain.SourceGoogle, Rating: fpv(1), Text: "real"},
	}}
	sg := &fakeSuggester{reply: "r"}
	p := app.NewPipeline([]domain.SourceAdapter{g}, sg, nil, time.Second, 2, "global")

	got := p.Run(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, 1, sg.calls)
}

func TestRun_SinkIsolation(t *testing.T) {
	g := &fakeAdapter{src: domain.SourceGoogle, reviews: []domain.Review{
		{Source: domain.SourceGoogle, Rating: fpv(1), Text: "x"},
	}}
	bad := &captureSink{name: "bad", err: errors.New("export failed")}
	good := &captureSink{name: "good"}

	p := app.NewPipeline([]domain.SourceAdapter{g}, &fakeSuggester{reply: "r"},
		[]domain.Sink{bad, good}, time.Second, 2, "global")

	got := p.Run(context.Background())
	require.Len(t, got, 1)
	assert.Len(t, bad.got, 1)
	assert.Len(t, good.got, 1) // bad sink did not prevent the good one
}

func TestRun_DefaultsAuthor(t *testing.T) {
	g := &fakeAdapter{src: domain.SourceGoogle, reviews: []domain.Review{
		{Source: domain.SourceGoogle, Rating: fpv(1), Text: "x"},
	}}
	p := app.NewPipeline([]domain.SourceAdapter{g}, &fakeSuggester{reply: "r"}, nil, time.Second, 2, "global")
	got := p.Run(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "Unknown", got[0].Author)
}

func TestRun_AllSourcesDownIsStillSuccess(t *testing.T) {
	p := app.NewPipeline([]domain.SourceAdapter{
		&fakeAdapter{src: domain.SourceGoogle, err: errors.New("down")},
		&fakeAdapter{src: domain.SourceTrustPilot, err: errors.New("down")},
	}, &fakeSuggester{}, []domain.Sink{&captureSink{name: "c"}}, time.Second, 2, "global")

	got := p.Run(context.Background())
	assert.Empty(t, got)
}
