package domain

// NegativeRatingMax is the inclusive rating threshold: exactly 2.5 is
// negative, 2.51 is not.
const NegativeRatingMax = 2.5

// IsNegative reports whether a review warrants a response. Negative iff the
// rating is present and <= 2.5, or the sentiment polarity is present and < 0.
// A review with neither is unclassifiable and excluded.
func IsNegative(rating, sentiment *float64) bool {
	if rating != nil && *rating <= NegativeRatingMax {
		return true
	}
	if sentiment != nil && *sentiment < 0 {
		return true
	}
	return false
}
