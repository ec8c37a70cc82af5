package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// MitigationCatalog holds the canned action templates and resource
// requirements per mitigation strategy.
type MitigationCatalog struct {
	version   string
	actions   map[types.Strategy][]string
	resources map[types.Strategy][]string
}

// NewMitigationCatalog builds a catalog from action and resource
// templates. Every strategy must have at least one action.
func NewMitigationCatalog(version string, actions, resources map[types.Strategy][]string) (*MitigationCatalog, error) {
	if version == "" {
		return nil, goerr.New("mitigation catalog version is required")
	}

	for _, s := range types.AllStrategies() {
		if len(actions[s]) == 0 {
			return nil, goerr.New("mitigation catalog is missing actions for strategy", goerr.V("strategy", s))
		}
	}
	for s := range actions {
		if !s.IsValid() {
			return nil, goerr.New("invalid strategy in mitigation catalog", goerr.V("strategy", s))
		}
	}

	copiedActions := make(map[types.Strategy][]string, len(actions))
	for s, a := range actions {
		c := make([]string, len(a))
		copy(c, a)
		copiedActions[s] = c
	}
	copiedResources := make(map[types.Strategy][]string, len(resources))
	for s, r := range resources {
		c := make([]string, len(r))
		copy(c, r)
		copiedResources[s] = c
	}

	return &MitigationCatalog{
		version:   version,
		actions:   copiedActions,
		resources: copiedResources,
	}, nil
}

// Version returns the configuration version of the catalog.
func (c *MitigationCatalog) Version() string {
	return c.version
}

// Actions returns the action templates for a strategy.
func (c *MitigationCatalog) Actions(s types.Strategy) []string {
	a := c.actions[s]
	out := make([]string, len(a))
	copy(out, a)
	return out
}

// Resources returns the resource requirements for a strategy.
func (c *MitigationCatalog) Resources(s types.Strategy) []string {
	r := c.resources[s]
	out := make([]string, len(r))
	copy(out, r)
	return out
}
