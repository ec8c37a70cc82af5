package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// Threshold defines a performance threshold: a live metric compared
// against a target with a defined directionality.
type Threshold struct {
	Metric    string
	Target    float64
	Direction types.Direction
}

// Validate checks if the Threshold is valid
func (t *Threshold) Validate() error {
	if t.Metric == "" {
		return goerr.New("threshold metric name is required")
	}
	if !t.Direction.Normalize().IsValid() {
		return goerr.New("invalid threshold direction", goerr.V("metric", t.Metric), goerr.V("direction", t.Direction))
	}
	return nil
}

// RuleSet is the immutable validation configuration for one stream type:
// quality gate names, success criterion names and performance thresholds.
type RuleSet struct {
	StreamType      types.StreamType
	QualityGates    []string
	SuccessCriteria []string
	Thresholds      []Threshold
}

// Validate checks if the RuleSet is valid
func (r *RuleSet) Validate() error {
	if !r.StreamType.IsValid() {
		return goerr.New("invalid stream type in rule set", goerr.V("stream_type", r.StreamType))
	}

	seen := make(map[string]bool)
	for _, g := range r.QualityGates {
		if g == "" {
			return goerr.New("quality gate name cannot be empty", goerr.V("stream_type", r.StreamType))
		}
		if seen[g] {
			return goerr.New("duplicate quality gate", goerr.V("stream_type", r.StreamType), goerr.V("gate", g))
		}
		seen[g] = true
	}

	seen = make(map[string]bool)
	for _, c := range r.SuccessCriteria {
		if c == "" {
			return goerr.New("success criterion name cannot be empty", goerr.V("stream_type", r.StreamType))
		}
		if seen[c] {
			return goerr.New("duplicate success criterion", goerr.V("stream_type", r.StreamType), goerr.V("criterion", c))
		}
		seen[c] = true
	}

	seen = make(map[string]bool)
	for i := range r.Thresholds {
		if err := r.Thresholds[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid threshold", goerr.V("stream_type", r.StreamType))
		}
		if seen[r.Thresholds[i].Metric] {
			return goerr.New("duplicate threshold metric", goerr.V("stream_type", r.StreamType), goerr.V("metric", r.Thresholds[i].Metric))
		}
		seen[r.Thresholds[i].Metric] = true
	}

	return nil
}

// Threshold looks up the threshold configured for a metric.
func (r *RuleSet) Threshold(metric string) (Threshold, bool) {
	for _, t := range r.Thresholds {
		if t.Metric == metric {
			return t, true
		}
	}
	return Threshold{}, false
}

// RuleCatalog is the read-only per-stream-type table of rule sets. It is
// safe to share across concurrent evaluations.
type RuleCatalog struct {
	rulesets map[types.StreamType]RuleSet
}

// NewRuleCatalog builds a catalog from the given rule sets. Each stream
// type may appear at most once.
func NewRuleCatalog(rulesets ...RuleSet) (*RuleCatalog, error) {
	m := make(map[types.StreamType]RuleSet, len(rulesets))
	for _, rs := range rulesets {
		if err := rs.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid rule set")
		}
		if _, ok := m[rs.StreamType]; ok {
			return nil, goerr.New("duplicate rule set for stream type", goerr.V("stream_type", rs.StreamType))
		}
		m[rs.StreamType] = rs
	}
	return &RuleCatalog{rulesets: m}, nil
}

// RuleSet returns the rule set for a stream type.
func (c *RuleCatalog) RuleSet(st types.StreamType) (RuleSet, bool) {
	rs, ok := c.rulesets[st]
	return rs, ok
}

// StreamTypes returns the stream types with a configured rule set.
func (c *RuleCatalog) StreamTypes() []types.StreamType {
	sts := make([]types.StreamType, 0, len(c.rulesets))
	for _, st := range types.AllStreamTypes() {
		if _, ok := c.rulesets[st]; ok {
			sts = append(sts, st)
		}
	}
	return sts
}

// Merge returns a new catalog where rule sets from other replace rule
// sets for the same stream type in c. Used to overlay file-based
// configuration on top of the built-in defaults.
func (c *RuleCatalog) Merge(other *RuleCatalog) *RuleCatalog {
	m := make(map[types.StreamType]RuleSet, len(c.rulesets))
	for st, rs := range c.rulesets {
		m[st] = rs
	}
	if other != nil {
		for st, rs := range other.rulesets {
			m[st] = rs
		}
	}
	return &RuleCatalog{rulesets: m}
}
