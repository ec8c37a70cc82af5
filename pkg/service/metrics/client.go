package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/interfaces"
	"github.com/secmon-lab/gyges/pkg/domain/types"
	"github.com/secmon-lab/gyges/pkg/utils/safe"
)

// DefaultRequestTimeout bounds a single metrics request when the caller
// does not bring its own HTTP client.
const DefaultRequestTimeout = 10 * time.Second

// Client fetches live milestone metrics from a metrics collector over
// HTTP. The collector exposes GET {base}/metrics/{milestone_id} returning
// a flat JSON object of metric name to value.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.MetricsProvider = (*Client)(nil)

// Option is a functional option for client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a metrics client for the given collector base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("metrics collector URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, goerr.Wrap(err, "invalid metrics collector URL", goerr.V("url", baseURL))
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Fetch retrieves the current metric values for a milestone.
func (c *Client) Fetch(ctx context.Context, id types.MilestoneID) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/metrics/%s", c.baseURL, url.PathEscape(string(id)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build metrics request", goerr.V("url", endpoint))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "metrics request failed", goerr.V("url", endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("metrics collector returned unexpected status",
			goerr.V("url", endpoint),
			goerr.V("status", resp.StatusCode))
	}

	var values map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, goerr.Wrap(err, "failed to decode metrics response", goerr.V("url", endpoint))
	}

	return values, nil
}
