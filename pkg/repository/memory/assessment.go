package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[types.MilestoneID][]*model.RiskAssessment
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[types.MilestoneID][]*model.RiskAssessment),
	}
}

func (r *assessmentRepository) Put(ctx context.Context, assessment *model.RiskAssessment) error {
	if assessment.MilestoneID == "" {
		return goerr.New("assessment requires a milestone ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Newest first
	r.assessments[assessment.MilestoneID] = append([]*model.RiskAssessment{assessment.Clone()}, r.assessments[assessment.MilestoneID]...)
	return nil
}

func (r *assessmentRepository) Latest(ctx context.Context, id types.MilestoneID) (*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := r.assessments[id]
	if len(assessments) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no assessment for milestone", goerr.V("id", id))
	}
	return assessments[0].Clone(), nil
}

func (r *assessmentRepository) ListByMilestone(ctx context.Context, id types.MilestoneID) ([]*model.RiskAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := r.assessments[id]
	out := make([]*model.RiskAssessment, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, a.Clone())
	}
	return out, nil
}
