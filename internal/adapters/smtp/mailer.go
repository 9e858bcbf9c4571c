// Package smtp delivers the review digest email. STARTTLS is negotiated by
// net/smtp when the server offers it, which every supported submission host
// does on port 587.
package smtp

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"market_monitor/internal/domain"
)

type Config struct {
	Host       string
	Port       string
	User       string
	Pass       string
	From       string
	Recipients []string
	TopN       int
	DevMode    bool // log the digest instead of sending
}

type Digest struct {
	cfg Config
}

func NewDigest(cfg Config) *Digest {
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	return &Digest{cfg: cfg}
}

func (d *Digest) Name() string { return "email" }

func (d *Digest) Deliver(_ context.Context, reviews []domain.Review) error {
	subject := fmt.Sprintf("Review Alert: %d Issues Need Attention", len(reviews))
	body := d.renderBody(reviews)

	if d.cfg.DevMode {
		log.Info().Str("subject", subject).Msg("[DEV] digest email suppressed")
		return nil
	}
	if len(d.cfg.Recipients) == 0 {
		return fmt.Errorf("smtp: no digest recipients configured")
	}

	msg := buildMessage(d.cfg.From, d.cfg.Recipients, subject, body)
	addr := fmt.Sprintf("%s:%s", d.cfg.Host, d.cfg.Port)
	auth := smtp.PlainAuth("", d.cfg.User, d.cfg.Pass, d.cfg.Host)

	if err := smtp.SendMail(addr, auth, d.cfg.From, d.cfg.Recipients, msg); err != nil {
		return fmt.Errorf("smtp: sending digest: %w", err)
	}
	return nil
}

// renderBody lists the most recent TopN reviews as HTML blocks. The input is
// already ordered newest first.
func (d *Digest) renderBody(reviews []domain.Review) string {
	top := reviews
	if len(top) > d.cfg.TopN {
		top = top[:d.cfg.TopN]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<p>Latest Customer Pulse: Top %d Issues</p>\n", len(top))
	for _, rv := range top {
		sb.WriteString("<p>\n")
		fmt.Fprintf(&sb, "<strong>Source:</strong> %s<br>\n", html.EscapeString(string(rv.Source)))
		fmt.Fprintf(&sb, "<strong>Author:</strong> %s<br>\n", html.EscapeString(rv.Author))
		fmt.Fprintf(&sb, "<strong>Review:</strong> %s<br>\n", html.EscapeString(rv.Text))
		fmt.Fprintf(&sb, "<strong>Original post:</strong> <a href=%q>%s</a><br>\n", rv.Link, html.EscapeString(rv.Link))
		fmt.Fprintf(&sb, "<strong>Suggested Response:</strong> %s<br>\n", html.EscapeString(rv.SuggestedResponse))
		sb.WriteString("</p>\n<hr>\n")
	}
	return sb.String()
}

func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String())
}
