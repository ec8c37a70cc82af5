package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/gyges/pkg/domain/model/config"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Engine holds the CLI flag for the engine configuration file. The file
// is optional; without it the built-in rule sets, escalation matrix and
// mitigation catalog are used as-is. A file overrides rule sets per
// stream type and replaces the escalation matrix or mitigation catalog
// when the corresponding section is present.
type Engine struct {
	path string
}

// Flags returns CLI flags for engine configuration
func (e *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to engine configuration file (TOML)",
			Sources:     cli.EnvVars("GYGES_CONFIG"),
			Destination: &e.path,
		},
	}
}

// Path returns the configured file path
func (e *Engine) Path() string {
	return e.path
}

// Configure loads and validates the engine configuration.
func (e *Engine) Configure() (*domainConfig.RuleCatalog, *domainConfig.EscalationMatrix, *domainConfig.MitigationCatalog, error) {
	rules := domainConfig.DefaultRuleCatalog()
	escalation := domainConfig.DefaultEscalationMatrix()
	mitigation := domainConfig.DefaultMitigationCatalog()

	if e.path == "" {
		return rules, escalation, mitigation, nil
	}

	file, err := LoadEngineFile(e.path)
	if err != nil {
		return nil, nil, nil, err
	}

	if len(file.RuleSets) > 0 {
		override, err := file.ruleCatalog()
		if err != nil {
			return nil, nil, nil, goerr.Wrap(err, "invalid rule sets", goerr.V(ConfigPathKey, e.path))
		}
		rules = rules.Merge(override)
	}
	if file.Escalation != nil {
		escalation, err = file.Escalation.toDomain()
		if err != nil {
			return nil, nil, nil, goerr.Wrap(err, "invalid escalation matrix", goerr.V(ConfigPathKey, e.path))
		}
	}
	if file.Mitigation != nil {
		mitigation, err = file.Mitigation.toDomain()
		if err != nil {
			return nil, nil, nil, goerr.Wrap(err, "invalid mitigation catalog", goerr.V(ConfigPathKey, e.path))
		}
	}

	return rules, escalation, mitigation, nil
}

// EngineFile is the TOML shape of the engine configuration file.
type EngineFile struct {
	RuleSets   []RuleSetSection   `toml:"ruleset"`
	Escalation *EscalationSection `toml:"escalation"`
	Mitigation *MitigationSection `toml:"mitigation"`
}

// RuleSetSection overrides the rule set of one stream type.
type RuleSetSection struct {
	StreamType      string             `toml:"stream_type"`
	QualityGates    []string           `toml:"quality_gates"`
	SuccessCriteria []string           `toml:"success_criteria"`
	Thresholds      []ThresholdSection `toml:"threshold"`
}

// ThresholdSection is one performance threshold declaration.
type ThresholdSection struct {
	Metric    string  `toml:"metric"`
	Target    float64 `toml:"target"`
	Direction string  `toml:"direction"`
}

// EscalationSection replaces the escalation matrix.
type EscalationSection struct {
	Version string              `toml:"version"`
	Matrix  map[string][]string `toml:"matrix"`
}

// MitigationSection replaces the mitigation catalog.
type MitigationSection struct {
	Version   string              `toml:"version"`
	Actions   map[string][]string `toml:"actions"`
	Resources map[string][]string `toml:"resources"`
}

// LoadEngineFile reads and parses an engine configuration file.
func LoadEngineFile(path string) (*EngineFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var file EngineFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}

func (f *EngineFile) ruleCatalog() (*domainConfig.RuleCatalog, error) {
	rulesets := make([]domainConfig.RuleSet, len(f.RuleSets))
	for i, section := range f.RuleSets {
		rs, err := section.toDomain()
		if err != nil {
			return nil, err
		}
		rulesets[i] = rs
	}
	return domainConfig.NewRuleCatalog(rulesets...)
}

func (s *RuleSetSection) toDomain() (domainConfig.RuleSet, error) {
	streamType, err := types.ParseStreamType(s.StreamType)
	if err != nil {
		return domainConfig.RuleSet{}, goerr.Wrap(err, "invalid ruleset section", goerr.V(StreamTypeKey, s.StreamType))
	}

	thresholds := make([]domainConfig.Threshold, len(s.Thresholds))
	for i, th := range s.Thresholds {
		direction, err := types.ParseDirection(th.Direction)
		if err != nil {
			return domainConfig.RuleSet{}, goerr.Wrap(err, "invalid threshold direction",
				goerr.V(StreamTypeKey, s.StreamType),
				goerr.V("metric", th.Metric))
		}
		thresholds[i] = domainConfig.Threshold{
			Metric:    th.Metric,
			Target:    th.Target,
			Direction: direction,
		}
	}

	return domainConfig.RuleSet{
		StreamType:      streamType,
		QualityGates:    s.QualityGates,
		SuccessCriteria: s.SuccessCriteria,
		Thresholds:      thresholds,
	}, nil
}

func (s *EscalationSection) toDomain() (*domainConfig.EscalationMatrix, error) {
	tiers := make(map[types.RiskLevel][]types.EscalationTier, len(s.Matrix))
	for rawLevel, rawTiers := range s.Matrix {
		level, err := types.ParseRiskLevel(rawLevel)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid escalation level", goerr.V(RiskLevelKey, rawLevel))
		}
		parsed := make([]types.EscalationTier, len(rawTiers))
		for i, rawTier := range rawTiers {
			tier, err := types.ParseEscalationTier(rawTier)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid escalation tier", goerr.V(RiskLevelKey, rawLevel))
			}
			parsed[i] = tier
		}
		tiers[level] = parsed
	}
	return domainConfig.NewEscalationMatrix(s.Version, tiers)
}

func (s *MitigationSection) toDomain() (*domainConfig.MitigationCatalog, error) {
	actions, err := parseStrategyMap(s.Actions)
	if err != nil {
		return nil, err
	}
	resources, err := parseStrategyMap(s.Resources)
	if err != nil {
		return nil, err
	}
	return domainConfig.NewMitigationCatalog(s.Version, actions, resources)
}

func parseStrategyMap(raw map[string][]string) (map[types.Strategy][]string, error) {
	parsed := make(map[types.Strategy][]string, len(raw))
	for rawStrategy, values := range raw {
		strategy, err := types.ParseStrategy(rawStrategy)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid mitigation strategy", goerr.V(StrategyKey, rawStrategy))
		}
		parsed[strategy] = values
	}
	return parsed, nil
}
