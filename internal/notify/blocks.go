package notify

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// truncate shortens s to max chars, appending "…" if truncated.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

func buildCompletedBlocks(ev GenerationEvent) []slack.Block {
	var sb strings.Builder
	sb.WriteString("🎨 *Showcase Page Generated*\n")
	sb.WriteString(fmt.Sprintf("*Repo:* %s/%s\n", ev.Owner, ev.Repo))
	sb.WriteString(fmt.Sprintf("*Mode:* %s\n", ev.Mode))
	sb.WriteString(fmt.Sprintf("*Components:* %d\n", ev.ComponentCount))
	if ev.LayoutID != "" {
		sb.WriteString(fmt.Sprintf("*Layout:* `%s`\n", ev.LayoutID))
	}
	if ev.SourceURL != "" {
		sb.WriteString(fmt.Sprintf("*Source:* %s\n", ev.SourceURL))
	}

	return []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", sb.String(), false, false),
			nil, nil,
		),
	}
}

func buildFailedBlocks(ev GenerationEvent) []slack.Block {
	var sb strings.Builder
	sb.WriteString("⚠️ *Showcase Generation Failed*\n")
	sb.WriteString(fmt.Sprintf("*Repo:* %s/%s\n", ev.Owner, ev.Repo))
	if ev.Err != nil {
		sb.WriteString(fmt.Sprintf("*Error:* %s\n", truncate(ev.Err.Error(), 200)))
	}

	return []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", sb.String(), false, false),
			nil, nil,
		),
	}
}
