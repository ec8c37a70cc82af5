package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/service/metrics"
	"github.com/secmon-lab/gyges/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Metrics holds CLI flags for the live metrics collector
type Metrics struct {
	collectorURL string
	fetchTimeout time.Duration
}

// Flags returns CLI flags for metrics configuration
func (m *Metrics) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "metrics-collector-url",
			Usage:       "Base URL of the metrics collector (optional; without it only recorded metrics are used)",
			Sources:     cli.EnvVars("GYGES_METRICS_COLLECTOR_URL"),
			Destination: &m.collectorURL,
		},
		&cli.DurationFlag{
			Name:        "metrics-fetch-timeout",
			Usage:       "Timeout for a single live metrics fetch",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("GYGES_METRICS_FETCH_TIMEOUT"),
			Destination: &m.fetchTimeout,
		},
	}
}

// FetchTimeout returns the configured per-fetch timeout
func (m *Metrics) FetchTimeout() time.Duration {
	return m.fetchTimeout
}

// Configure returns the metrics provider, or nil when no collector is
// configured.
func (m *Metrics) Configure() (interfaces.MetricsProvider, error) {
	if m.collectorURL == "" {
		logging.Default().Info("No metrics collector configured, using recorded metrics only")
		return nil, nil
	}

	client, err := metrics.New(m.collectorURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure metrics client")
	}
	logging.Default().Info("Live metrics collection enabled", "collector", m.collectorURL)
	return client, nil
}
