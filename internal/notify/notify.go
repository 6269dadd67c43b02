// Package notify posts generation results to Slack.
package notify

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// PostAPI abstracts the Slack API client for testing.
type PostAPI interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier posts layout generation events to a Slack channel. A nil
// Notifier is valid and drops all messages, so callers can wire it
// unconditionally.
type Notifier struct {
	api     PostAPI
	channel string
	logger  zerolog.Logger
}

// New creates a Notifier posting to the given channel.
func New(botToken, channel string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		api:     slack.New(botToken),
		channel: channel,
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// NewWithAPI creates a Notifier with an injected client.
func NewWithAPI(api PostAPI, channel string, logger zerolog.Logger) *Notifier {
	return &Notifier{api: api, channel: channel, logger: logger}
}

// GenerationEvent describes a completed or failed layout generation.
type GenerationEvent struct {
	Owner          string
	Repo           string
	LayoutID       string
	Mode           string // full or minimal
	ComponentCount int
	SourceURL      string
	Err            error
}

// GenerationCompleted posts a success message. Posting failures are
// logged and swallowed; notifications never fail a generation.
func (n *Notifier) GenerationCompleted(ev GenerationEvent) {
	if n == nil {
		return
	}
	blocks := buildCompletedBlocks(ev)
	_, _, err := n.api.PostMessage(n.channel,
		slack.MsgOptionText(fmt.Sprintf("Layout generated for %s/%s", ev.Owner, ev.Repo), false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		n.logger.Warn().Err(err).Str("repo", ev.Owner+"/"+ev.Repo).Msg("failed to post completion message")
		return
	}
	n.logger.Debug().Str("repo", ev.Owner+"/"+ev.Repo).Msg("posted completion message")
}

// GenerationFailed posts a failure message.
func (n *Notifier) GenerationFailed(ev GenerationEvent) {
	if n == nil {
		return
	}
	blocks := buildFailedBlocks(ev)
	_, _, err := n.api.PostMessage(n.channel,
		slack.MsgOptionText(fmt.Sprintf("Layout generation failed for %s/%s", ev.Owner, ev.Repo), false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		n.logger.Warn().Err(err).Str("repo", ev.Owner+"/"+ev.Repo).Msg("failed to post failure message")
	}
}
