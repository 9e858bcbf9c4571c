package xlsx_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"market_monitor/internal/adapters/xlsx"
	"market_monitor/internal/domain"
)

func fp(v float64) *float64 { return &v }

func sampleReviews() []domain.Review {
	t1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return []domain.Review{
		{
			Source: domain.SourceGoogle, Rating: fp(2), Text: "Broken device",
			Author: "Ana", PublishTime: &t1, Link: "https://g/1",
			SuggestedResponse: "We're sorry...",
		},
		{
			Source: domain.SourceTrustPilot, Sentiment: fp(-0.4), Text: "Never again",
			Author: "Unknown", Link: "https://tp",
			SuggestedResponse: "Thank you for your feedback. We are looking into this issue.",
		},
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	return rows
}

func TestDeliver_OneRowPerReview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	e := xlsx.New(path)

	require.NoError(t, e.Deliver(context.Background(), sampleReviews()))

	rows := readRows(t, path)
	require.Len(t, rows, 3) // header + 2 reviews
	require.Equal(t, "source", rows[0][0])
	require.Equal(t, "Google", rows[1][0])
	require.Equal(t, "We're sorry...", rows[1][7])
	require.Equal(t, "TrustPilot", rows[2][0])
}

func TestDeliver_OverwritesNotAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	e := xlsx.New(path)
	in := sampleReviews()

	require.NoError(t, e.Deliver(context.Background(), in))
	first := readRows(t, path)
	require.NoError(t, e.Deliver(context.Background(), in))
	second := readRows(t, path)

	require.Equal(t, first, second)
}
