package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/model/config"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/utils/async"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
)

type RiskUseCase struct {
	repo     interfaces.Repository
	analyzer *model.RiskAnalyzer
	scorer   *model.RiskScorer
	planner  *model.MitigationPlanner
	engine   *model.EscalationEngine
	notifier interfaces.Notifier

	// leaseMutex guards leases. A milestone id present in leases has an
	// assessment in flight.
	leaseMutex sync.Mutex
	leases     map[types.MilestoneID]struct{}
}

func NewRiskUseCase(repo interfaces.Repository, matrix *config.EscalationMatrix, mitigation *config.MitigationCatalog, notifier interfaces.Notifier) *RiskUseCase {
	if matrix == nil {
		matrix = config.DefaultEscalationMatrix()
	}
	if mitigation == nil {
		mitigation = config.DefaultMitigationCatalog()
	}
	return &RiskUseCase{
		repo:     repo,
		analyzer: model.NewRiskAnalyzer(),
		scorer:   model.NewRiskScorer(),
		planner:  model.NewMitigationPlanner(mitigation),
		engine:   model.NewEscalationEngine(matrix),
		notifier: notifier,
		leases:   make(map[types.MilestoneID]struct{}),
	}
}

func (uc *RiskUseCase) acquireLease(id types.MilestoneID) error {
	uc.leaseMutex.Lock()
	defer uc.leaseMutex.Unlock()

	if _, ok := uc.leases[id]; ok {
		return goerr.Wrap(ErrAssessmentInFlight, "assessment already running", goerr.V(model.MilestoneIDKey, id))
	}
	uc.leases[id] = struct{}{}
	return nil
}

func (uc *RiskUseCase) releaseLease(id types.MilestoneID) {
	uc.leaseMutex.Lock()
	defer uc.leaseMutex.Unlock()
	delete(uc.leases, id)
}

// AssessMilestoneRisk runs the full risk pipeline for one milestone:
// analyze, score, apply time-based level adjustment, record new risk
// factors and persist both the milestone and the assessment. At most one
// assessment per milestone runs at a time; a concurrent caller gets
// ErrAssessmentInFlight.
func (uc *RiskUseCase) AssessMilestoneRisk(ctx context.Context, m *model.Milestone) (*model.RiskAssessment, error) {
	assessment, _, err := uc.assess(ctx, m)
	return assessment, err
}

func (uc *RiskUseCase) assess(ctx context.Context, m *model.Milestone) (*model.RiskAssessment, []model.EscalationEvent, error) {
	if err := uc.acquireLease(m.ID); err != nil {
		return nil, nil, err
	}
	defer uc.releaseLease(m.ID)

	logger := logging.From(ctx)
	now := time.Now().UTC()

	active, err := uc.repo.Milestone().CountActive(ctx)
	if err != nil {
		logger.Warn("failed to count active milestones, assuming none",
			"milestone_id", m.ID,
			"error", err.Error(),
		)
		active = 0
	}

	risks := uc.analyzer.Analyze(m, model.AnalyzerContext{ActiveMilestones: active})

	assessment := uc.scorer.Score(m.ID, risks, now)
	assessment.ID = uuid.NewString()

	level, reason := model.AdjustRiskLevel(m, assessment.Level, now)
	if reason != "" {
		logger.Info("risk level adjusted",
			"milestone_id", m.ID,
			"scored", assessment.Level,
			"adjusted", level,
			"reason", reason,
		)
	}
	assessment.Level = level

	uc.recordRiskFactors(m, risks, now)
	m.RiskLevel = level

	if _, err := uc.repo.Milestone().Update(ctx, m); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to update milestone", goerr.V(model.MilestoneIDKey, m.ID))
	}
	if err := uc.repo.Assessment().Put(ctx, assessment); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to store assessment", goerr.V(model.MilestoneIDKey, m.ID))
	}

	events := uc.engine.Evaluate(m, assessment, now)
	uc.dispatchEscalations(ctx, events)

	return assessment, events, nil
}

// recordRiskFactors appends factors for newly identified risks. A risk
// whose category and description already have a factor on the milestone
// is not recorded again.
func (uc *RiskUseCase) recordRiskFactors(m *model.Milestone, risks []model.IdentifiedRisk, now time.Time) {
	seen := make(map[string]struct{}, len(m.RiskFactors))
	for _, f := range m.RiskFactors {
		seen[factorKey(f.Category, f.Description)] = struct{}{}
	}

	for _, r := range risks {
		key := factorKey(r.Category, r.Description)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		score := float64(r.Probability.Score() * r.Impact.Score())
		m.RiskFactors = append(m.RiskFactors, model.RiskFactor{
			Category:    r.Category,
			Level:       types.RiskLevelFromScore(score),
			Description: r.Description,
			Status:      types.FactorStatusActive,
			CreatedAt:   now,
		})
	}
}

func factorKey(category types.RiskCategory, description string) string {
	return string(category) + "/" + description
}

func (uc *RiskUseCase) dispatchEscalations(ctx context.Context, events []model.EscalationEvent) {
	if uc.notifier == nil {
		return
	}
	for _, event := range events {
		ev := event
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyEscalation(ctx, &ev)
		})
	}
}

// ConductRiskAssessment assesses every milestone matching the scope and
// aggregates the outcomes into a portfolio view. A milestone whose
// assessment fails is logged and skipped; the remaining milestones are
// still assessed.
func (uc *RiskUseCase) ConductRiskAssessment(ctx context.Context, scope model.AssessmentScope) (*model.PortfolioAssessment, error) {
	milestones, err := uc.repo.Milestone().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list milestones")
	}

	logger := logging.From(ctx)

	portfolio := &model.PortfolioAssessment{
		ID:                uuid.NewString(),
		Timestamp:         time.Now().UTC(),
		RiskSummary:       make(map[types.RiskLevel]int),
		CategoryBreakdown: make(map[types.RiskCategory]int),
	}

	for _, m := range milestones {
		if !scope.Matches(m) {
			continue
		}
		portfolio.TotalMilestones++

		assessment, events, err := uc.assess(ctx, m)
		if err != nil {
			logger.Warn("milestone assessment skipped",
				"milestone_id", m.ID,
				"error", err.Error(),
			)
			continue
		}

		portfolio.RiskSummary[assessment.Level]++
		for _, r := range assessment.IdentifiedRisks {
			portfolio.CategoryBreakdown[r.Category]++
		}
		portfolio.Escalations = append(portfolio.Escalations, events...)

		if plan := uc.planner.Plan(assessment, portfolio.Timestamp); plan != nil {
			portfolio.MitigationPlans = append(portfolio.MitigationPlans, plan)
		}
	}

	portfolio.Recommendations = buildRecommendations(portfolio)
	uc.dispatchRecommendations(ctx, portfolio.Recommendations)

	return portfolio, nil
}

func buildRecommendations(p *model.PortfolioAssessment) []string {
	var recs []string

	if n := p.RiskSummary[types.RiskLevelCritical]; n > 0 {
		recs = append(recs, fmt.Sprintf("address %d critical risk milestone(s) immediately", n))
	}
	if n := p.RiskSummary[types.RiskLevelHigh]; n > 0 {
		recs = append(recs, fmt.Sprintf("schedule mitigation planning for %d high risk milestone(s)", n))
	}

	if category, count := dominantCategory(p.CategoryBreakdown); count > 1 {
		recs = append(recs, fmt.Sprintf("review %s risk drivers: %d identified risks share this category", category, count))
	}

	if len(recs) == 0 {
		recs = append(recs, "risk posture is stable, continue regular monitoring")
	}

	return recs
}

// dominantCategory picks the category with the most identified risks,
// breaking ties by name for deterministic output.
func dominantCategory(breakdown map[types.RiskCategory]int) (types.RiskCategory, int) {
	categories := make([]types.RiskCategory, 0, len(breakdown))
	for c := range breakdown {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	var top types.RiskCategory
	var max int
	for _, c := range categories {
		if breakdown[c] > max {
			top = c
			max = breakdown[c]
		}
	}
	return top, max
}

func (uc *RiskUseCase) dispatchRecommendations(ctx context.Context, recs []string) {
	if uc.notifier == nil {
		return
	}
	for _, rec := range recs {
		r := rec
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyRecommendation(ctx, r)
		})
	}
}
