package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/model/config"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
	"golang.org/x/sync/semaphore"
)

const (
	defaultMetricsTimeout = 10 * time.Second

	// defaultBatchConcurrency bounds the worker pool used by
	// ValidateMilestones when the caller does not pick a limit.
	defaultBatchConcurrency = 5
)

type ValidationUseCase struct {
	repo           interfaces.Repository
	rules          *config.RuleCatalog
	metrics        interfaces.MetricsProvider
	metricsTimeout time.Duration
}

func NewValidationUseCase(repo interfaces.Repository, rules *config.RuleCatalog, metrics interfaces.MetricsProvider, metricsTimeout time.Duration) *ValidationUseCase {
	if rules == nil {
		rules = config.DefaultRuleCatalog()
	}
	if metricsTimeout <= 0 {
		metricsTimeout = defaultMetricsTimeout
	}
	return &ValidationUseCase{
		repo:           repo,
		rules:          rules,
		metrics:        metrics,
		metricsTimeout: metricsTimeout,
	}
}

// ValidateMilestone evaluates a single milestone against the rule set of
// its stream type and persists the scored result.
func (uc *ValidationUseCase) ValidateMilestone(ctx context.Context, id types.MilestoneID) (*model.ValidationResult, error) {
	m, err := uc.repo.Milestone().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrMilestoneNotFound, "milestone not found", goerr.V(model.MilestoneIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get milestone", goerr.V(model.MilestoneIDKey, id))
	}

	rules, ok := uc.rules.RuleSet(m.StreamType)
	if !ok {
		return nil, goerr.Wrap(model.ErrNoRuleSet, "no rule set for stream type",
			goerr.V(model.MilestoneIDKey, id),
			goerr.V("stream_type", m.StreamType))
	}

	live := uc.fetchMetrics(ctx, id)

	evaluator := model.NewEvaluator(rules)
	gates, criteria, thresholds := evaluator.EvaluateAll(m, live)
	result := model.NewValidationScorer().Score(m, gates, criteria, thresholds, time.Now().UTC())

	if err := uc.repo.Validation().Put(ctx, result); err != nil {
		return nil, goerr.Wrap(err, "failed to store validation result", goerr.V(model.MilestoneIDKey, id))
	}

	return result, nil
}

// fetchMetrics collects live metrics with a bounded timeout. A failed or
// missing provider degrades to the metrics recorded on the milestone;
// checks whose metric is absent then evaluate as failed rather than
// blocking validation.
func (uc *ValidationUseCase) fetchMetrics(ctx context.Context, id types.MilestoneID) map[string]float64 {
	if uc.metrics == nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, uc.metricsTimeout)
	defer cancel()

	live, err := uc.metrics.Fetch(fetchCtx, id)
	if err != nil {
		logging.From(ctx).Warn("metrics fetch failed, using recorded metrics only",
			"milestone_id", id,
			"error", err.Error(),
		)
		return nil
	}
	return live
}

// ValidateMilestones validates the given milestones through a bounded
// worker pool. Failures are isolated per milestone: successful results
// are returned in input order with failed ids omitted, and the joined
// per-item errors accompany them. Context cancellation stops scheduling
// further work while items already in flight finish.
func (uc *ValidationUseCase) ValidateMilestones(ctx context.Context, ids []types.MilestoneID, concurrency int) ([]*model.ValidationResult, error) {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	results := make([]*model.ValidationResult, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(ids); j++ {
				errs[j] = goerr.Wrap(err, "batch validation canceled", goerr.V(model.MilestoneIDKey, ids[j]))
			}
			break
		}

		wg.Add(1)
		go func(i int, id types.MilestoneID) {
			defer wg.Done()
			defer sem.Release(1)

			result, err := uc.ValidateMilestone(ctx, id)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = result
		}(i, id)
	}
	wg.Wait()

	validated := make([]*model.ValidationResult, 0, len(ids))
	for _, r := range results {
		if r != nil {
			validated = append(validated, r)
		}
	}

	return validated, errors.Join(errs...)
}
