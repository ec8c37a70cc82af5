package notify

import (
	"context"

	"github.com/slack-go/slack"
)

func (n *SlackNotifier) SetPostFunc(post func(ctx context.Context, url string, msg *slack.WebhookMessage) error) {
	n.post = post
}

var EscalationColor = escalationColor
