package domain

import (
	"fmt"
	"time"
)

type Source string

const (
	SourceGoogle         Source = "Google"
	SourceTrustPilot     Source = "TrustPilot"
	SourcePissedConsumer Source = "PissedConsumer"
)

// Review is the normalized shape every source adapter produces.
// Rating is on a 1-5 scale; Sentiment is a polarity in [-1,1]. Either may be
// absent depending on what the source exposes.
type Review struct {
	Source            Source     `json:"source"`
	Rating            *float64   `json:"rating,omitempty"`
	Sentiment         *float64   `json:"sentiment,omitempty"`
	Text              string     `json:"text"`
	Author            string     `json:"author"`
	PublishTime       *time.Time `json:"publish_time,omitempty"`
	Link              string     `json:"link"`
	SuggestedResponse string     `json:"suggested_response,omitempty"`
}

// Score renders whichever of rating/sentiment the source exposed, for display.
func (r Review) Score() string {
	switch {
	case r.Rating != nil:
		return fmt.Sprintf("%.1f", *r.Rating)
	case r.Sentiment != nil:
		return fmt.Sprintf("%.2f", *r.Sentiment)
	default:
		return "n/a"
	}
}
