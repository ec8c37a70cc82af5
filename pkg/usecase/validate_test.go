package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/repository/memory"
	"github.com/secmon-lab/gyges/pkg/usecase"
)

type metricsFunc func(ctx context.Context, id types.MilestoneID) (map[string]float64, error)

func (f metricsFunc) Fetch(ctx context.Context, id types.MilestoneID) (map[string]float64, error) {
	return f(ctx, id)
}

// newTestMilestone returns an integration testing milestone whose
// recorded metrics satisfy every gate, criterion and threshold of the
// built-in rule set.
func newTestMilestone(id types.MilestoneID) *model.Milestone {
	now := time.Now().UTC()
	return &model.Milestone{
		ID:             id,
		Title:          "Integration test rollout",
		Description:    "Stand up the shared integration environment and wire the cross-service suites into it",
		StreamType:     types.StreamIntegrationTesting,
		Status:         types.MilestoneStatusInProgress,
		Progress:       80,
		EstimatedStart: now.AddDate(0, 0, -30),
		EstimatedEnd:   now.AddDate(0, 0, 30),
		Metrics: map[string]float64{
			"contract_tests":           1,
			"smoke_suite":              1,
			"regression_suite":         1,
			"environments_provisioned": 1,
			"test_data_seeded":         1,
			"suite_pass_rate":          99,
			"flake_rate":               1,
		},
	}
}

func TestValidationUseCase_ValidateMilestone(t *testing.T) {
	ctx := context.Background()

	t.Run("fully passing milestone validates", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Milestone().Create(ctx, newTestMilestone("integ-rollout"))
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		result, err := uc.Validation.ValidateMilestone(ctx, "integ-rollout")
		gt.NoError(t, err).Required()

		gt.Value(t, result.IsValidated).Equal(true)
		gt.Number(t, result.OverallScore).Equal(100)
		gt.Number(t, len(result.Blockers)).Equal(0)

		stored, err := repo.Validation().Latest(ctx, "integ-rollout")
		gt.NoError(t, err).Required()
		gt.Value(t, stored.IsValidated).Equal(true)
	})

	t.Run("unknown milestone returns not found", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)

		_, err := uc.Validation.ValidateMilestone(ctx, "no-such-milestone")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrMilestoneNotFound)).True()
	})

	t.Run("live metrics override recorded metrics", func(t *testing.T) {
		repo := memory.New()
		m := newTestMilestone("integ-live")
		m.Metrics["suite_pass_rate"] = 90 // would fail the threshold
		_, err := repo.Milestone().Create(ctx, m)
		gt.NoError(t, err).Required()

		provider := metricsFunc(func(ctx context.Context, id types.MilestoneID) (map[string]float64, error) {
			return map[string]float64{"suite_pass_rate": 99.2}, nil
		})

		uc := usecase.New(repo, usecase.WithMetricsProvider(provider))
		result, err := uc.Validation.ValidateMilestone(ctx, "integ-live")
		gt.NoError(t, err).Required()
		gt.Value(t, result.IsValidated).Equal(true)
	})

	t.Run("metrics provider failure degrades to recorded metrics", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Milestone().Create(ctx, newTestMilestone("integ-degraded"))
		gt.NoError(t, err).Required()

		provider := metricsFunc(func(ctx context.Context, id types.MilestoneID) (map[string]float64, error) {
			return nil, errors.New("collector unreachable")
		})

		uc := usecase.New(repo, usecase.WithMetricsProvider(provider))
		result, err := uc.Validation.ValidateMilestone(ctx, "integ-degraded")
		gt.NoError(t, err).Required()
		gt.Value(t, result.IsValidated).Equal(true)
	})

	t.Run("revalidating unchanged milestone is identical except timestamp", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Milestone().Create(ctx, newTestMilestone("integ-stable"))
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		first, err := uc.Validation.ValidateMilestone(ctx, "integ-stable")
		gt.NoError(t, err).Required()
		second, err := uc.Validation.ValidateMilestone(ctx, "integ-stable")
		gt.NoError(t, err).Required()

		a := first.Clone()
		b := second.Clone()
		a.Timestamp = time.Time{}
		b.Timestamp = time.Time{}
		gt.Value(t, a).Equal(b)
	})
}

func TestValidationUseCase_ValidateMilestones(t *testing.T) {
	ctx := context.Background()

	t.Run("per-item errors do not fail the batch", func(t *testing.T) {
		repo := memory.New()
		for _, id := range []types.MilestoneID{"batch-a", "batch-b"} {
			_, err := repo.Milestone().Create(ctx, newTestMilestone(id))
			gt.NoError(t, err).Required()
		}

		uc := usecase.New(repo)
		ids := []types.MilestoneID{"batch-a", "batch-missing", "batch-b"}
		results, err := uc.Validation.ValidateMilestones(ctx, ids, 0)

		gt.Number(t, len(results)).Equal(2)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrMilestoneNotFound)).True()
		for _, r := range results {
			gt.Value(t, r.IsValidated).Equal(true)
		}
	})

	t.Run("concurrency limit is honored", func(t *testing.T) {
		repo := memory.New()
		ids := []types.MilestoneID{"pool-a", "pool-b", "pool-c", "pool-d", "pool-e", "pool-f"}
		for _, id := range ids {
			_, err := repo.Milestone().Create(ctx, newTestMilestone(id))
			gt.NoError(t, err).Required()
		}

		var inFlight, peak atomic.Int64
		provider := metricsFunc(func(ctx context.Context, id types.MilestoneID) (map[string]float64, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return nil, nil
		})

		uc := usecase.New(repo, usecase.WithMetricsProvider(provider))
		results, err := uc.Validation.ValidateMilestones(ctx, ids, 2)
		gt.NoError(t, err).Required()
		gt.Number(t, len(results)).Equal(len(ids))
		gt.Bool(t, peak.Load() <= 2).True()
	})

	t.Run("canceled context stops scheduling", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Milestone().Create(ctx, newTestMilestone("cancel-a"))
		gt.NoError(t, err).Required()

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		uc := usecase.New(repo)
		results, err := uc.Validation.ValidateMilestones(canceled, []types.MilestoneID{"cancel-a"}, 1)
		gt.Number(t, len(results)).Equal(0)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, context.Canceled)).True()
	})
}
