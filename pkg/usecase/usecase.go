package usecase

import (
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/model/config"
)

type UseCases struct {
	repo       interfaces.Repository
	rules      *config.RuleCatalog
	escalation *config.EscalationMatrix
	mitigation *config.MitigationCatalog
	metrics    interfaces.MetricsProvider
	notifier   interfaces.Notifier

	metricsTimeout time.Duration

	Validation *ValidationUseCase
	Risk       *RiskUseCase
}

type Option func(*UseCases)

// WithRuleCatalog overrides the built-in validation rule sets.
func WithRuleCatalog(catalog *config.RuleCatalog) Option {
	return func(uc *UseCases) {
		uc.rules = catalog
	}
}

// WithEscalationMatrix overrides the built-in escalation matrix.
func WithEscalationMatrix(matrix *config.EscalationMatrix) Option {
	return func(uc *UseCases) {
		uc.escalation = matrix
	}
}

// WithMitigationCatalog overrides the built-in mitigation templates.
func WithMitigationCatalog(catalog *config.MitigationCatalog) Option {
	return func(uc *UseCases) {
		uc.mitigation = catalog
	}
}

// WithMetricsProvider enables live metric collection during validation.
// Without a provider only the metrics recorded on the milestone are used.
func WithMetricsProvider(provider interfaces.MetricsProvider) Option {
	return func(uc *UseCases) {
		uc.metrics = provider
	}
}

// WithNotifier enables delivery of escalation events.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

// WithMetricsTimeout bounds each live metrics fetch.
func WithMetricsTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.metricsTimeout = d
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		rules:          config.DefaultRuleCatalog(),
		escalation:     config.DefaultEscalationMatrix(),
		mitigation:     config.DefaultMitigationCatalog(),
		metricsTimeout: defaultMetricsTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Validation = NewValidationUseCase(repo, uc.rules, uc.metrics, uc.metricsTimeout)
	uc.Risk = NewRiskUseCase(repo, uc.escalation, uc.mitigation, uc.notifier)

	return uc
}
