package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/slack-go/slack"
)

// SlackNotifier delivers escalation events and portfolio recommendations
// to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	post       func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

var _ interfaces.Notifier = (*SlackNotifier)(nil)

// NewSlack creates a notifier for the given incoming webhook URL.
func NewSlack(webhookURL string) (*SlackNotifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		post:       slack.PostWebhookContext,
	}, nil
}

// NotifyEscalation posts the escalation event with its required tiers.
func (n *SlackNotifier) NotifyEscalation(ctx context.Context, event *model.EscalationEvent) error {
	tiers := make([]string, len(event.RequiredTiers))
	for i, tier := range event.RequiredTiers {
		tiers[i] = string(tier)
	}

	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf(":rotating_light: Escalation for milestone *%s*", event.MilestoneID),
		Attachments: []slack.Attachment{{
			Color: escalationColor(event.RequiredTiers),
			Fields: []slack.AttachmentField{
				{Title: "Reason", Value: event.Reason},
				{Title: "Required tiers", Value: strings.Join(tiers, ", "), Short: true},
				{Title: "Status", Value: event.Status, Short: true},
			},
		}},
	}

	if err := n.post(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post escalation to Slack",
			goerr.V(model.MilestoneIDKey, event.MilestoneID))
	}
	return nil
}

// NotifyRecommendation posts a portfolio recommendation as plain text.
func (n *SlackNotifier) NotifyRecommendation(ctx context.Context, recommendation string) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf(":clipboard: Portfolio recommendation: %s", recommendation),
	}
	if err := n.post(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post recommendation to Slack")
	}
	return nil
}

// escalationColor picks the attachment color from the widest required
// tier.
func escalationColor(tiers []types.EscalationTier) string {
	highest := -1
	for _, tier := range tiers {
		if r := tier.Rank(); r > highest {
			highest = r
		}
	}
	switch {
	case highest >= types.TierExecutive.Rank():
		return "danger"
	case highest >= types.TierManager.Rank():
		return "warning"
	default:
		return "good"
	}
}
