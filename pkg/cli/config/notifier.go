package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/service/notify"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Notifier holds CLI flags for escalation delivery configuration
type Notifier struct {
	slackWebhookURL string
}

// Flags returns CLI flags for notifier configuration
func (n *Notifier) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for escalation notifications (optional)",
			Sources:     cli.EnvVars("GYGES_SLACK_WEBHOOK_URL"),
			Destination: &n.slackWebhookURL,
		},
	}
}

// Configure returns the notifier implementation. Without a webhook URL
// escalations are written to the log.
func (n *Notifier) Configure() (interfaces.Notifier, error) {
	if n.slackWebhookURL == "" {
		logging.Default().Info("No Slack webhook configured, escalations are logged only")
		return notify.NewLog(), nil
	}

	notifier, err := notify.NewSlack(n.slackWebhookURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure Slack notifier")
	}
	logging.Default().Info("Slack escalation notifications enabled")
	return notifier, nil
}
