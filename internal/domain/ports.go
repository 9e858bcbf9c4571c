package domain

import (
	"context"
	"time"
)

// SourceAdapter fetches and normalizes negative reviews from one reputation
// platform. Implementations apply the negativity filter before returning.
// Errors are contained by the pipeline: a failing source contributes nothing,
// it never aborts the run.
type SourceAdapter interface {
	Source() Source
	FetchNegative(ctx context.Context) ([]Review, error)
}

// SentimentAnalyzer scores text polarity in [-1,1]. Swapping implementations
// must not change classification beyond the documented threshold.
type SentimentAnalyzer interface {
	Analyze(text string) float64
}

// Generator issues one bounded call to the text-generation endpoint and
// extracts the answer. The caller supplies the fallback on error.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

// Sink consumes the final ordered review list. Sinks are failure-isolated:
// Deliver errors are logged by the distributor, never propagated.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, reviews []Review) error
}

// ResponseCache stores generated responses keyed by review-text hash so a
// review reappearing across runs does not pay the generation call twice.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
}
