package model

import (
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// Milestone is a snapshot of a work-stream milestone. It is owned by the
// calling system; the engine only reads it, appends RiskFactors and
// overwrites RiskLevel as a side effect of assessment.
type Milestone struct {
	ID             types.MilestoneID
	Title          string
	Description    string
	StreamType     types.StreamType
	Status         types.MilestoneStatus
	Progress       float64 // percentage, 0-100
	EstimatedStart time.Time
	EstimatedEnd   time.Time
	ActualEnd      *time.Time
	Dependencies   []types.MilestoneID
	RiskFactors    []RiskFactor
	RiskLevel      types.RiskLevel
	Metrics        map[string]float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RiskFactor is a persisted, timestamped record of an identified risk on
// a milestone. Factors are appended by assessment and marked mitigated by
// the caller; the engine never deletes them.
type RiskFactor struct {
	Category    types.RiskCategory
	Level       types.RiskLevel
	Description string
	Mitigation  string
	Status      types.FactorStatus
	CreatedAt   time.Time
}

// ActiveRiskFactors returns the factors that have not been mitigated.
func (m *Milestone) ActiveRiskFactors() []RiskFactor {
	var active []RiskFactor
	for _, f := range m.RiskFactors {
		if f.Status == types.FactorStatusActive {
			active = append(active, f)
		}
	}
	return active
}

// HasActiveCriticalRisk reports whether any active factor is critical.
func (m *Milestone) HasActiveCriticalRisk() bool {
	for _, f := range m.RiskFactors {
		if f.Status == types.FactorStatusActive && f.Level == types.RiskLevelCritical {
			return true
		}
	}
	return false
}

// EstimatedDuration returns the planned duration of the milestone.
func (m *Milestone) EstimatedDuration() time.Duration {
	if m.EstimatedEnd.IsZero() || m.EstimatedStart.IsZero() {
		return 0
	}
	return m.EstimatedEnd.Sub(m.EstimatedStart)
}

// Clone returns a deep copy of the milestone so that repository callers
// cannot mutate stored state through shared slices or maps.
func (m *Milestone) Clone() *Milestone {
	if m == nil {
		return nil
	}

	c := *m
	if m.ActualEnd != nil {
		end := *m.ActualEnd
		c.ActualEnd = &end
	}
	if m.Dependencies != nil {
		c.Dependencies = make([]types.MilestoneID, len(m.Dependencies))
		copy(c.Dependencies, m.Dependencies)
	}
	if m.RiskFactors != nil {
		c.RiskFactors = make([]RiskFactor, len(m.RiskFactors))
		copy(c.RiskFactors, m.RiskFactors)
	}
	if m.Metrics != nil {
		c.Metrics = make(map[string]float64, len(m.Metrics))
		for k, v := range m.Metrics {
			c.Metrics[k] = v
		}
	}
	return &c
}

// Validate checks structural invariants of the milestone snapshot.
func (m *Milestone) Validate() error {
	if err := m.ID.Validate(); err != nil {
		return err
	}
	if !m.StreamType.IsValid() {
		return ErrInvalidStreamType
	}
	if !m.Status.Normalize().IsValid() {
		return ErrInvalidStatus
	}
	if m.Progress < 0 || m.Progress > 100 {
		return ErrInvalidProgress
	}
	return nil
}
