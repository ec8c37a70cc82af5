package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

type validationRepository struct {
	mu      sync.RWMutex
	results map[types.MilestoneID][]*model.ValidationResult
}

func newValidationRepository() *validationRepository {
	return &validationRepository{
		results: make(map[types.MilestoneID][]*model.ValidationResult),
	}
}

func (r *validationRepository) Put(ctx context.Context, result *model.ValidationResult) error {
	if result.MilestoneID == "" {
		return goerr.New("validation result requires a milestone ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Newest first
	r.results[result.MilestoneID] = append([]*model.ValidationResult{result.Clone()}, r.results[result.MilestoneID]...)
	return nil
}

func (r *validationRepository) Latest(ctx context.Context, id types.MilestoneID) (*model.ValidationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := r.results[id]
	if len(results) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no validation result for milestone", goerr.V("id", id))
	}
	return results[0].Clone(), nil
}

func (r *validationRepository) ListByMilestone(ctx context.Context, id types.MilestoneID) ([]*model.ValidationResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := r.results[id]
	out := make([]*model.ValidationResult, 0, len(results))
	for _, res := range results {
		out = append(out, res.Clone())
	}
	return out, nil
}
