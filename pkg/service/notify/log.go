package notify

import (
	"context"

	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
)

// LogNotifier writes escalations and recommendations to the logger. It
// is the fallback when no webhook is configured.
type LogNotifier struct{}

var _ interfaces.Notifier = (*LogNotifier)(nil)

func NewLog() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyEscalation(ctx context.Context, event *model.EscalationEvent) error {
	logging.From(ctx).Warn("escalation raised",
		"milestone_id", event.MilestoneID,
		"reason", event.Reason,
		"required_tiers", event.RequiredTiers,
	)
	return nil
}

func (n *LogNotifier) NotifyRecommendation(ctx context.Context, recommendation string) error {
	logging.From(ctx).Info("portfolio recommendation", "recommendation", recommendation)
	return nil
}
