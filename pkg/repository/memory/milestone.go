package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

type milestoneRepository struct {
	mu         sync.RWMutex
	milestones map[types.MilestoneID]*model.Milestone
}

func newMilestoneRepository() *milestoneRepository {
	return &milestoneRepository{
		milestones: make(map[types.MilestoneID]*model.Milestone),
	}
}

func (r *milestoneRepository) Create(ctx context.Context, m *model.Milestone) (*model.Milestone, error) {
	if err := m.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid milestone")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.milestones[m.ID]; exists {
		return nil, goerr.New("milestone already exists", goerr.V("id", m.ID))
	}

	now := time.Now().UTC()
	created := m.Clone()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.milestones[created.ID] = created
	return created.Clone(), nil
}

func (r *milestoneRepository) Get(ctx context.Context, id types.MilestoneID) (*model.Milestone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.milestones[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "milestone not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return m.Clone(), nil
}

func (r *milestoneRepository) List(ctx context.Context) ([]*model.Milestone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	milestones := make([]*model.Milestone, 0, len(r.milestones))
	for _, m := range r.milestones {
		milestones = append(milestones, m.Clone())
	}

	return milestones, nil
}

func (r *milestoneRepository) Update(ctx context.Context, m *model.Milestone) (*model.Milestone, error) {
	if err := m.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid milestone")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.milestones[m.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "milestone not found", goerr.V("id", m.ID))
	}

	updated := m.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.milestones[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *milestoneRepository) Delete(ctx context.Context, id types.MilestoneID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.milestones[id]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "milestone not found", goerr.V("id", id))
	}

	delete(r.milestones, id)
	return nil
}

func (r *milestoneRepository) CountActive(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, m := range r.milestones {
		switch m.Status.Normalize() {
		case types.MilestoneStatusInProgress,
			types.MilestoneStatusInReview,
			types.MilestoneStatusBlocked:
			count++
		}
	}
	return count, nil
}
