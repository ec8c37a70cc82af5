package interfaces

import (
	"context"

	"github.com/secmon-lab/gyges/pkg/domain/model"
)

// Notifier dispatches escalation events and recommendations to an
// external channel. The engine emits records; the notifier owns
// delivery.
type Notifier interface {
	NotifyEscalation(ctx context.Context, event *model.EscalationEvent) error
	NotifyRecommendation(ctx context.Context, recommendation string) error
}
