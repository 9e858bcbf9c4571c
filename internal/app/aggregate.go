package app

import (
	"sort"

	"market_monitor/internal/domain"
)

// MergeAndOrder concatenates adapter outputs and orders them newest first.
// Reviews without a publish time sort after every timestamped review, keeping
// their input order. Ties keep input order too; rating and source never
// participate in ordering.
func MergeAndOrder(lists ...[]domain.Review) []domain.Review {
	var out []domain.Review
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].PublishTime, out[j].PublishTime
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
	return out
}
