// Package slackad posts one structured message per review to the monitoring
// channel and, in interactive mode, attaches an Acknowledge button whose
// action id is registered with the tracker before the post goes out.
package slackad

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"market_monitor/internal/app"
	"market_monitor/internal/domain"
)

// AckActionID is the block action id carried by the Acknowledge button.
const AckActionID = "acknowledge_review"

type api interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type Poster struct {
	client      api
	channel     string
	interactive bool
	tracker     *app.Tracker
}

func NewPoster(token, channel string, interactive bool, tracker *app.Tracker) *Poster {
	return &Poster{
		client:      slack.New(token),
		channel:     channel,
		interactive: interactive,
		tracker:     tracker,
	}
}

func (p *Poster) Name() string { return "slack" }

// Deliver posts every review. A failed post is logged and does not stop the
// remaining posts; the joined error is reported to the distributor.
func (p *Poster) Deliver(ctx context.Context, reviews []domain.Review) error {
	var errs []error
	for _, rv := range reviews {
		var actionID string
		if p.interactive {
			actionID = p.tracker.Register(rv)
		}
		blocks := buildBlocks(rv, actionID)

		if _, _, err := p.client.PostMessageContext(ctx, p.channel, slack.MsgOptionBlocks(blocks...)); err != nil {
			log.Error().Str("source", string(rv.Source)).Err(err).Msg("slack post failed")
			errs = append(errs, err)
			continue
		}
		log.Debug().Str("source", string(rv.Source)).Str("action_id", actionID).Msg("review posted to slack")
	}
	return errors.Join(errs...)
}

// buildBlocks renders the Block Kit layout: a field grid, the review text,
// the suggested response, and optionally the Acknowledge button.
func buildBlocks(rv domain.Review, actionID string) []slack.Block {
	mrkdwn := func(format string, args ...any) *slack.TextBlockObject {
		return slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf(format, args...), false, false)
	}

	fields := []*slack.TextBlockObject{
		mrkdwn("*Source:*\n%s", rv.Source),
		mrkdwn("*Author:*\n%s", rv.Author),
		mrkdwn("*Rating / Sentiment:*\n%s", rv.Score()),
		mrkdwn("*Link:*\n%s", rv.Link),
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(nil, fields, nil),
		slack.NewSectionBlock(mrkdwn("*Review:*\n%s", rv.Text), nil, nil),
		slack.NewSectionBlock(mrkdwn("*Suggested Response:*\n%s", rv.SuggestedResponse), nil, nil),
	}

	if actionID != "" {
		btn := slack.NewButtonBlockElement(
			AckActionID,
			actionID,
			slack.NewTextBlockObject(slack.PlainTextType, "Acknowledge", false, false),
		)
		btn.Style = slack.StylePrimary
		blocks = append(blocks, slack.NewActionBlock("actions-"+actionID, btn))
	}
	return blocks
}
