package interfaces

import (
	"context"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// MetricsProvider fetches live metric values for a milestone. Fetching
// is the engine's only suspension point; callers bound it with a context
// timeout and fall back to worst-case values on failure.
type MetricsProvider interface {
	Fetch(ctx context.Context, id types.MilestoneID) (map[string]float64, error)
}
