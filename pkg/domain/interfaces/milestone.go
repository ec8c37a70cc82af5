package interfaces

import (
	"context"

	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

type MilestoneRepository interface {
	// Create stores a new milestone
	Create(ctx context.Context, m *model.Milestone) (*model.Milestone, error)

	// Get retrieves a milestone by ID
	Get(ctx context.Context, id types.MilestoneID) (*model.Milestone, error)

	// List retrieves all milestones
	List(ctx context.Context) ([]*model.Milestone, error)

	// Update updates an existing milestone
	Update(ctx context.Context, m *model.Milestone) (*model.Milestone, error)

	// Delete deletes a milestone by ID
	Delete(ctx context.Context, id types.MilestoneID) error

	// CountActive returns the number of milestones currently in flight
	// (in progress, in review or blocked).
	CountActive(ctx context.Context) (int, error)
}
