package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"market_monitor/internal/app"
	"market_monitor/internal/domain"
)

func tp(t time.Time) *time.Time { return &t }

func TestMergeAndOrder_NewestFirstNilLast(t *testing.T) {
	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	r1 := domain.Review{Source: domain.SourceGoogle, Text: "r1", PublishTime: tp(t1)}
	r2 := domain.Review{Source: domain.SourceTrustPilot, Text: "r2", PublishTime: tp(t2)}
	r3 := domain.Review{Source: domain.SourcePissedConsumer, Text: "r3"} // no timestamp

	got := app.MergeAndOrder([]domain.Review{r1, r2, r3})
	require.Len(t, got, 3)
	require.Equal(t, "r2", got[0].Text)
	require.Equal(t, "r1", got[1].Text)
	require.Equal(t, "r3", got[2].Text)
}

func TestMergeAndOrder_StableOnTiesAndNils(t *testing.T) {
	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	a := domain.Review{Text: "a", PublishTime: tp(t1)}
	b := domain.Review{Text: "b", PublishTime: tp(t1)} // same instant as a
	c := domain.Review{Text: "c"}
	d := domain.Review{Text: "d"}

	got := app.MergeAndOrder([]domain.Review{a, c}, []domain.Review{b, d})
	require.Equal(t, []string{"a", "b", "c", "d"}, []string{got[0].Text, got[1].Text, got[2].Text, got[3].Text})
}

func TestMergeAndOrder_EmptyInputs(t *testing.T) {
	require.Empty(t, app.MergeAndOrder(nil, nil, nil))
}
