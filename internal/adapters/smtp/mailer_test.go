package smtp

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_monitor/internal/domain"
)

func TestRenderBody_TopNCap(t *testing.T) {
	d := NewDigest(Config{TopN: 5})

	var reviews []domain.Review
	for i := 0; i < 8; i++ {
		ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour)
		reviews = append(reviews, domain.Review{
			Source: domain.SourceGoogle,
			Author: fmt.Sprintf("user-%d", i),
			Text:   fmt.Sprintf("complaint %d", i),
			Link:   "https://example.com",
			PublishTime: &ts,
		})
	}

	body := d.renderBody(reviews)
	assert.Contains(t, body, "Top 5 Issues")
	assert.Contains(t, body, "complaint 0") // newest kept
	assert.Contains(t, body, "complaint 4")
	assert.NotContains(t, body, "complaint 5") // beyond top N
}

func TestRenderBody_EscapesHTML(t *testing.T) {
	d := NewDigest(Config{})
	body := d.renderBody([]domain.Review{{
		Source: domain.SourceTrustPilot,
		Author: "<script>x</script>",
		Text:   "bad & worse",
		Link:   "https://example.com",
	}})
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "bad &amp; worse")
}

func TestBuildMessage_Headers(t *testing.T) {
	msg := string(buildMessage("from@x.com", []string{"a@x.com", "b@x.com"}, "Subject line", "<p>hi</p>"))
	require.True(t, strings.HasPrefix(msg, "From: from@x.com\r\n"))
	assert.Contains(t, msg, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(msg, "<p>hi</p>"))
}

func TestDeliver_DevModeSkipsSend(t *testing.T) {
	d := NewDigest(Config{DevMode: true})
	assert.NoError(t, d.Deliver(context.Background(), nil))
}

func TestDeliver_RequiresRecipients(t *testing.T) {
	d := NewDigest(Config{Host: "smtp.example.com", Port: "587"})
	assert.Error(t, d.Deliver(context.Background(), nil))
}
