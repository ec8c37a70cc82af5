package interfaces

import (
	"context"

	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

type ValidationRepository interface {
	// Put stores a validation result
	Put(ctx context.Context, result *model.ValidationResult) error

	// Latest retrieves the most recent validation result for a milestone
	Latest(ctx context.Context, id types.MilestoneID) (*model.ValidationResult, error)

	// ListByMilestone retrieves all validation results for a milestone,
	// newest first
	ListByMilestone(ctx context.Context, id types.MilestoneID) ([]*model.ValidationResult, error)
}

type AssessmentRepository interface {
	// Put stores a risk assessment
	Put(ctx context.Context, assessment *model.RiskAssessment) error

	// Latest retrieves the most recent assessment for a milestone
	Latest(ctx context.Context, id types.MilestoneID) (*model.RiskAssessment, error)

	// ListByMilestone retrieves all assessments for a milestone, newest
	// first
	ListByMilestone(ctx context.Context, id types.MilestoneID) ([]*model.RiskAssessment, error)
}
