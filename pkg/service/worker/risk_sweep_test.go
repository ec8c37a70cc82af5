package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/repository/memory"
	"github.com/secmon-lab/gyges/pkg/service/worker"
	"github.com/secmon-lab/gyges/pkg/usecase"
)

func newSweepMilestone(id types.MilestoneID, factorAge time.Duration) *model.Milestone {
	now := time.Now().UTC()
	return &model.Milestone{
		ID:             id,
		Title:          "Background sweep fixture",
		Description:    "A milestone with enough descriptive detail to keep the requirement analyzers quiet",
		StreamType:     types.StreamIntegrationTesting,
		Status:         types.MilestoneStatusInProgress,
		EstimatedStart: now.AddDate(0, 0, -15),
		EstimatedEnd:   now.AddDate(0, 0, 45),
		Metrics:        map[string]float64{"suite_pass_rate": 97},
		RiskFactors: []model.RiskFactor{{
			Category:    types.RiskCategoryTechnical,
			Level:       types.RiskLevelMedium,
			Description: "shared environment drifts from production",
			Status:      types.FactorStatusActive,
			CreatedAt:   now.Add(-factorAge),
		}},
	}
}

func TestRiskSweepWorker(t *testing.T) {
	t.Run("initial sweep escalates stale factors", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()

		// 8 days old: past the unmitigated escalation age
		_, err := repo.Milestone().Create(ctx, newSweepMilestone("sweep-stale", 8*24*time.Hour))
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		w := worker.NewRiskSweepWorker(repo, uc.Risk, time.Hour)
		gt.NoError(t, w.Start(ctx)).Required()
		defer w.Stop()

		gt.Bool(t, waitFor(func() bool {
			m, err := repo.Milestone().Get(ctx, "sweep-stale")
			return err == nil && m.RiskLevel == types.RiskLevelMedium
		})).True()
	})

	t.Run("milestones without active factors are left alone", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()

		m := newSweepMilestone("sweep-clean", time.Hour)
		m.RiskFactors[0].Status = types.FactorStatusMitigated
		created, err := repo.Milestone().Create(ctx, m)
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		w := worker.NewRiskSweepWorker(repo, uc.Risk, time.Hour)
		gt.NoError(t, w.Start(ctx)).Required()

		// Let the initial sweep run, then confirm nothing changed.
		time.Sleep(50 * time.Millisecond)
		w.Stop()

		stored, err := repo.Milestone().Get(ctx, "sweep-clean")
		gt.NoError(t, err).Required()
		gt.Value(t, stored.UpdatedAt).Equal(created.UpdatedAt)
	})

	t.Run("stop terminates the worker", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()

		uc := usecase.New(repo)
		w := worker.NewRiskSweepWorker(repo, uc.Risk, 10*time.Millisecond)
		gt.NoError(t, w.Start(ctx)).Required()

		done := make(chan struct{})
		go func() {
			w.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
