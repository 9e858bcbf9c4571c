// Package sentiment scores review text polarity. The VADER compound score is
// already in [-1,1], which is what the classifier threshold is defined on.
package sentiment

import "github.com/jonreiter/govader"

type Vader struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVader() *Vader {
	return &Vader{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Analyze(text string) float64 {
	return v.sia.PolarityScores(text).Compound
}
