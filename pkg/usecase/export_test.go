package usecase

import "github.com/secmon-lab/gyges/pkg/domain/types"

func (uc *RiskUseCase) AcquireLease(id types.MilestoneID) error {
	return uc.acquireLease(id)
}

func (uc *RiskUseCase) ReleaseLease(id types.MilestoneID) {
	uc.releaseLease(id)
}
