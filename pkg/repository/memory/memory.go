package memory

import (
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	milestone  *milestoneRepository
	validation *validationRepository
	assessment *assessmentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		milestone:  newMilestoneRepository(),
		validation: newValidationRepository(),
		assessment: newAssessmentRepository(),
	}
}

func (m *Memory) Milestone() interfaces.MilestoneRepository {
	return m.milestone
}

func (m *Memory) Validation() interfaces.ValidationRepository {
	return m.validation
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) Close() error {
	return nil
}
