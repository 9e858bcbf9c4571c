package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"market_monitor/internal/adapters/observability"
	"market_monitor/internal/domain"
)

// Pipeline runs one aggregation cycle: fetch negative reviews from every
// source concurrently, draft a response per review, merge and order, then
// fan out to the configured sinks. Every external failure is contained at
// the step that issued the call; a cycle never fails because a source, the
// generation endpoint, or a sink did.
// Suggester drafts a reply for one review text. Implemented by Responder.
type Suggester interface {
	Suggest(ctx context.Context, reviewText, localeHint string) string
}

type Pipeline struct {
	adapters     []domain.SourceAdapter
	responder    Suggester
	sinks        []domain.Sink
	fetchTimeout time.Duration
	genWorkers   int64
	localeHint   string
}

func NewPipeline(adapters []domain.SourceAdapter, r Suggester, sinks []domain.Sink, fetchTimeout time.Duration, genWorkers int, localeHint string) *Pipeline {
	if genWorkers <= 0 {
		genWorkers = 4
	}
	return &Pipeline{
		adapters:     adapters,
		responder:    r,
		sinks:        sinks,
		fetchTimeout: fetchTimeout,
		genWorkers:   int64(genWorkers),
		localeHint:   localeHint,
	}
}

// Run executes a full cycle and returns the ordered review list. Distribution
// completes before Run returns, so export row counts and chat posts are
// observable by the caller.
func (p *Pipeline) Run(ctx context.Context) []domain.Review {
	lists := p.fetchAll(ctx)

	merged := MergeAndOrder(lists...)
	p.generateAll(ctx, merged)
	p.distribute(ctx, merged)

	observability.PipelineRuns.Inc()
	log.Info().Int("reviews", len(merged)).Msg("aggregation cycle complete")
	return merged
}

// fetchAll runs every adapter concurrently under its own timeout. An adapter
// error degrades to "no reviews from this source".
func (p *Pipeline) fetchAll(ctx context.Context) [][]domain.Review {
	lists := make([][]domain.Review, len(p.adapters))
	var wg sync.WaitGroup
	for i, ad := range p.adapters {
		wg.Add(1)
		go func(i int, ad domain.SourceAdapter) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
			defer cancel()

			revs, err := ad.FetchNegative(fctx)
			if err != nil {
				observability.SourceFailures.WithLabelValues(string(ad.Source())).Inc()
				log.Warn().Str("source", string(ad.Source())).Err(err).Msg("source fetch failed")
				return
			}
			lists[i] = dropEmptyText(revs)
			observability.SourceReviews.WithLabelValues(string(ad.Source())).Add(float64(len(lists[i])))
		}(i, ad)
	}
	wg.Wait()
	return lists
}

// generateAll fills SuggestedResponse for every review, concurrently but
// bounded, so end-to-end latency tracks the slowest single call.
func (p *Pipeline) generateAll(ctx context.Context, reviews []domain.Review) {
	sem := semaphore.NewWeighted(p.genWorkers)
	var wg sync.WaitGroup
	for i := range reviews {
		if err := sem.Acquire(ctx, 1); err != nil {
			// context gone: fall back for the rest rather than leave blanks
			for j := i; j < len(reviews); j++ {
				reviews[j].SuggestedResponse = Fallback
			}
			break
		}
		wg.Add(1)
		go func(rv *domain.Review) {
			defer wg.Done()
			defer sem.Release(1)
			rv.SuggestedResponse = p.responder.Suggest(ctx, rv.Text, p.localeHint)
		}(&reviews[i])
	}
	wg.Wait()
}

// distribute fans the ordered list out to every sink. Sinks only read the
// slice, so they run concurrently; one sink's failure never blocks another.
func (p *Pipeline) distribute(ctx context.Context, reviews []domain.Review) {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range p.sinks {
		s := s
		g.Go(func() error {
			if err := s.Deliver(gctx, reviews); err != nil {
				observability.SinkFailures.WithLabelValues(s.Name()).Inc()
				log.Error().Str("sink", s.Name()).Err(err).Msg("distribution failed")
			}
			return nil // isolation: never cancel sibling sinks
		})
	}
	_ = g.Wait()
}

func dropEmptyText(revs []domain.Review) []domain.Review {
	out := revs[:0]
	for _, rv := range revs {
		if rv.Text == "" {
			continue
		}
		if rv.Author == "" {
			rv.Author = "Unknown"
		}
		out = append(out, rv)
	}
	return out
}
