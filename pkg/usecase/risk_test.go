package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/repository/memory"
	"github.com/secmon-lab/gyges/pkg/usecase"
)

type mockNotifier struct {
	escalations     chan *model.EscalationEvent
	recommendations chan string
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{
		escalations:     make(chan *model.EscalationEvent, 16),
		recommendations: make(chan string, 16),
	}
}

func (n *mockNotifier) NotifyEscalation(ctx context.Context, event *model.EscalationEvent) error {
	n.escalations <- event
	return nil
}

func (n *mockNotifier) NotifyRecommendation(ctx context.Context, recommendation string) error {
	n.recommendations <- recommendation
	return nil
}

// newQuietMilestone returns a milestone that trips none of the risk
// analyzers: a comfortable timeline, few dependencies, a descriptive
// summary and observable metrics.
func newQuietMilestone(id types.MilestoneID) *model.Milestone {
	now := time.Now().UTC()
	return &model.Milestone{
		ID:             id,
		Title:          "Integration environment hardening",
		Description:    "Harden the shared integration environment so the cross-service suites run unattended every night",
		StreamType:     types.StreamIntegrationTesting,
		Status:         types.MilestoneStatusInProgress,
		Progress:       40,
		EstimatedStart: now.AddDate(0, 0, -15),
		EstimatedEnd:   now.AddDate(0, 0, 45),
		Metrics:        map[string]float64{"suite_pass_rate": 97},
	}
}

// newRiskyMilestone returns a blocked security milestone with an
// aggressive timeline, a long dependency chain, a vague description and
// no metrics.
func newRiskyMilestone(id types.MilestoneID) *model.Milestone {
	now := time.Now().UTC()
	return &model.Milestone{
		ID:             id,
		Title:          "Patch rollout",
		Description:    "Fix the scanner findings",
		StreamType:     types.StreamSecurityRemediation,
		Status:         types.MilestoneStatusBlocked,
		Progress:       10,
		EstimatedStart: now.AddDate(0, 0, -2),
		EstimatedEnd:   now.AddDate(0, 0, 8),
		Dependencies:   []types.MilestoneID{"dep-a", "dep-b", "dep-c"},
	}
}

func TestRiskUseCase_AssessMilestoneRisk(t *testing.T) {
	ctx := context.Background()

	t.Run("quiet milestone assesses low", func(t *testing.T) {
		repo := memory.New()
		m, err := repo.Milestone().Create(ctx, newQuietMilestone("quiet-ms"))
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		assessment, err := uc.Risk.AssessMilestoneRisk(ctx, m)
		gt.NoError(t, err).Required()

		gt.Value(t, assessment.Level).Equal(types.RiskLevelLow)
		gt.Number(t, assessment.RiskScore).Equal(0)
		gt.Number(t, len(assessment.IdentifiedRisks)).Equal(0)
		gt.Value(t, assessment.ID).NotEqual("")

		stored, err := repo.Milestone().Get(ctx, "quiet-ms")
		gt.NoError(t, err).Required()
		gt.Value(t, stored.RiskLevel).Equal(types.RiskLevelLow)
		gt.Number(t, len(stored.RiskFactors)).Equal(0)

		latest, err := repo.Assessment().Latest(ctx, "quiet-ms")
		gt.NoError(t, err).Required()
		gt.Value(t, latest.ID).Equal(assessment.ID)
	})

	t.Run("risky milestone records factors and elevates level", func(t *testing.T) {
		repo := memory.New()
		m, err := repo.Milestone().Create(ctx, newRiskyMilestone("risky-ms"))
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		assessment, err := uc.Risk.AssessMilestoneRisk(ctx, m)
		gt.NoError(t, err).Required()

		gt.Bool(t, len(assessment.IdentifiedRisks) > 0).True()
		gt.Bool(t, assessment.Level.AtLeast(types.RiskLevelMedium)).True()
		gt.Bool(t, assessment.RiskScore > 0).True()

		stored, err := repo.Milestone().Get(ctx, "risky-ms")
		gt.NoError(t, err).Required()
		gt.Number(t, len(stored.RiskFactors)).Equal(len(assessment.IdentifiedRisks))
		gt.Value(t, stored.RiskLevel).Equal(assessment.Level)
		for _, f := range stored.RiskFactors {
			gt.Value(t, f.Status).Equal(types.FactorStatusActive)
			gt.Bool(t, f.CreatedAt.IsZero()).False()
		}
	})

	t.Run("re-assessment does not duplicate factors", func(t *testing.T) {
		repo := memory.New()
		m, err := repo.Milestone().Create(ctx, newRiskyMilestone("repeat-ms"))
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		first, err := uc.Risk.AssessMilestoneRisk(ctx, m)
		gt.NoError(t, err).Required()

		stored, err := repo.Milestone().Get(ctx, "repeat-ms")
		gt.NoError(t, err).Required()

		_, err = uc.Risk.AssessMilestoneRisk(ctx, stored)
		gt.NoError(t, err).Required()

		again, err := repo.Milestone().Get(ctx, "repeat-ms")
		gt.NoError(t, err).Required()
		gt.Number(t, len(again.RiskFactors)).Equal(len(first.IdentifiedRisks))
	})

	t.Run("concurrent assessment is rejected", func(t *testing.T) {
		repo := memory.New()
		m, err := repo.Milestone().Create(ctx, newQuietMilestone("leased-ms"))
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		gt.NoError(t, uc.Risk.AcquireLease("leased-ms")).Required()

		_, err = uc.Risk.AssessMilestoneRisk(ctx, m)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrAssessmentInFlight)).True()

		uc.Risk.ReleaseLease("leased-ms")
		_, err = uc.Risk.AssessMilestoneRisk(ctx, m)
		gt.NoError(t, err)
	})

	t.Run("stale active factor escalates one tier", func(t *testing.T) {
		repo := memory.New()
		m := newQuietMilestone("stale-ms")
		m.RiskFactors = []model.RiskFactor{{
			Category:    types.RiskCategoryTechnical,
			Level:       types.RiskLevelMedium,
			Description: "legacy auth paths are only partially understood",
			Status:      types.FactorStatusActive,
			CreatedAt:   time.Now().UTC().AddDate(0, 0, -8),
		}}
		created, err := repo.Milestone().Create(ctx, m)
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		assessment, err := uc.Risk.AssessMilestoneRisk(ctx, created)
		gt.NoError(t, err).Required()

		// quiet milestone scores low; the stale factor pushes it up one tier
		gt.Value(t, assessment.Level).Equal(types.RiskLevelMedium)
	})

	t.Run("fully mitigated factors decay to low", func(t *testing.T) {
		repo := memory.New()
		m := newRiskyMilestone("decayed-ms")
		m.Status = types.MilestoneStatusInProgress
		m.RiskFactors = []model.RiskFactor{{
			Category:    types.RiskCategorySchedule,
			Level:       types.RiskLevelHigh,
			Description: "planned duration leaves no slack for setbacks",
			Mitigation:  "scope was cut and the deadline moved",
			Status:      types.FactorStatusMitigated,
			CreatedAt:   time.Now().UTC().AddDate(0, 0, -20),
		}}
		created, err := repo.Milestone().Create(ctx, m)
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		assessment, err := uc.Risk.AssessMilestoneRisk(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, assessment.Level).Equal(types.RiskLevelLow)

		stored, err := repo.Milestone().Get(ctx, "decayed-ms")
		gt.NoError(t, err).Required()
		gt.Value(t, stored.RiskLevel).Equal(types.RiskLevelLow)
	})

	t.Run("escalation events reach the notifier", func(t *testing.T) {
		repo := memory.New()
		m, err := repo.Milestone().Create(ctx, newRiskyMilestone("notify-ms"))
		gt.NoError(t, err).Required()

		notifier := newMockNotifier()
		uc := usecase.New(repo, usecase.WithNotifier(notifier))

		_, err = uc.Risk.AssessMilestoneRisk(ctx, m)
		gt.NoError(t, err).Required()

		select {
		case event := <-notifier.escalations:
			gt.Value(t, event.MilestoneID).Equal(types.MilestoneID("notify-ms"))
			gt.Bool(t, len(event.RequiredTiers) > 0).True()
		case <-time.After(time.Second):
			t.Fatal("no escalation event delivered")
		}
	})
}

func TestRiskUseCase_ConductRiskAssessment(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates milestones in scope", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Milestone().Create(ctx, newQuietMilestone("pf-quiet"))
		gt.NoError(t, err).Required()
		_, err = repo.Milestone().Create(ctx, newRiskyMilestone("pf-risky"))
		gt.NoError(t, err).Required()

		done := newQuietMilestone("pf-done")
		done.Status = types.MilestoneStatusCompleted
		_, err = repo.Milestone().Create(ctx, done)
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		scope := model.AssessmentScope{
			Statuses: []types.MilestoneStatus{
				types.MilestoneStatusInProgress,
				types.MilestoneStatusBlocked,
			},
		}

		portfolio, err := uc.Risk.ConductRiskAssessment(ctx, scope)
		gt.NoError(t, err).Required()

		gt.Number(t, portfolio.TotalMilestones).Equal(2)
		gt.Number(t, portfolio.RiskSummary[types.RiskLevelLow]).Equal(1)
		gt.Bool(t, len(portfolio.CategoryBreakdown) > 0).True()
		gt.Bool(t, len(portfolio.Escalations) >= 2).True()
		gt.Bool(t, len(portfolio.Recommendations) > 0).True()
		gt.Value(t, portfolio.ID).NotEqual("")
	})

	t.Run("stream type scope filters milestones", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Milestone().Create(ctx, newQuietMilestone("pf-integ"))
		gt.NoError(t, err).Required()
		_, err = repo.Milestone().Create(ctx, newRiskyMilestone("pf-sec"))
		gt.NoError(t, err).Required()

		uc := usecase.New(repo)
		scope := model.AssessmentScope{
			StreamTypes: []types.StreamType{types.StreamSecurityRemediation},
		}

		portfolio, err := uc.Risk.ConductRiskAssessment(ctx, scope)
		gt.NoError(t, err).Required()
		gt.Number(t, portfolio.TotalMilestones).Equal(1)
		gt.Number(t, portfolio.RiskSummary[types.RiskLevelLow]).Equal(0)
	})

	t.Run("empty portfolio recommends monitoring", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)

		portfolio, err := uc.Risk.ConductRiskAssessment(ctx, model.AssessmentScope{})
		gt.NoError(t, err).Required()
		gt.Number(t, portfolio.TotalMilestones).Equal(0)
		gt.Array(t, portfolio.Recommendations).Has("risk posture is stable, continue regular monitoring")
	})
}
