package worker

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/usecase"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
)

// RiskSweepWorker periodically re-assesses milestones that carry active
// risk factors so that time-based level adjustments take effect without
// an explicit assessment request.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type RiskSweepWorker struct {
	repo     interfaces.Repository
	risk     *usecase.RiskUseCase
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRiskSweepWorker creates a new worker for periodic risk sweeps
func NewRiskSweepWorker(repo interfaces.Repository, risk *usecase.RiskUseCase, interval time.Duration) *RiskSweepWorker {
	return &RiskSweepWorker{
		repo:     repo,
		risk:     risk,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. It does not block server
// startup.
func (w *RiskSweepWorker) Start(ctx context.Context) error {
	logging.Default().Info("Risk sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *RiskSweepWorker) Stop() {
	logging.Default().Info("Risk sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Risk sweep worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *RiskSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.sweep(ctx); err != nil {
		logging.Default().Error("Initial risk sweep failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("Risk sweep failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("Risk sweep worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Risk sweep worker context cancelled")
			return
		}
	}
}

// sweep re-assesses every milestone that still has active risk factors.
// A milestone already being assessed elsewhere is skipped.
func (w *RiskSweepWorker) sweep(ctx context.Context) error {
	startTime := time.Now()
	logging.Default().Info("Starting risk sweep")

	milestones, err := w.repo.Milestone().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list milestones for sweep")
	}

	var swept, skipped int
	for _, m := range milestones {
		if len(m.ActiveRiskFactors()) == 0 {
			continue
		}

		if _, err := w.risk.AssessMilestoneRisk(ctx, m); err != nil {
			if errors.Is(err, usecase.ErrAssessmentInFlight) {
				skipped++
				continue
			}
			logging.Default().Error("Sweep assessment failed",
				"milestone_id", m.ID,
				"error", err.Error())
			continue
		}
		swept++
	}

	logging.Default().Info("Risk sweep completed",
		"swept", swept,
		"skipped", skipped,
		"duration", time.Since(startTime).String())

	return nil
}
