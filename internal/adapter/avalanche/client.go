// Package avalanche is the HTTP adapter for the NZ Avalanche Advisory API.
package avalanche

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/avalanche-geofeed/internal/domain"
	"github.com/couchcryptid/avalanche-geofeed/internal/observability"
)

// Client fetches region metadata and the shared forecast list. A circuit
// breaker fails calls fast while the advisory API is down; there are no
// retries, one request per resource per run.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an advisory API client. The timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "avalanche-api",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		metrics: metrics,
		logger:  logger,
	}
}

// RegionInfo retrieves metadata for a single advisory region.
func (c *Client) RegionInfo(ctx context.Context, regionID int) (domain.Region, error) {
	var region domain.Region
	u := fmt.Sprintf("%s/region/%d", c.baseURL, regionID)
	if err := c.getJSON(ctx, u, "region", &region); err != nil {
		return domain.Region{}, err
	}
	// Some upstream payloads omit the id field; the caller's id is
	// authoritative either way.
	region.ID = regionID
	return region, nil
}

type forecastList struct {
	Forecasts []domain.RawForecast `json:"forecasts"`
}

// Forecasts retrieves the current forecast list for all regions.
func (c *Client) Forecasts(ctx context.Context) ([]domain.RawForecast, error) {
	var list forecastList
	if err := c.getJSON(ctx, c.baseURL+"/forecast", "forecast", &list); err != nil {
		return nil, err
	}
	return list.Forecasts, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL, resource string, out any) error {
	c.logger.Debug("advisory request", "resource", resource, "url", fullURL)

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request: %w", resource, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("advisory API error: status %d: %s", resp.StatusCode, body)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", resource, err)
		}
		return data, nil
	})
	c.metrics.UpstreamAPIDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(resource, "error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("advisory API unavailable: %w", err)
		}
		return err
	}

	// Decode failures stay outside the breaker: a malformed body is a data
	// problem, not an availability signal.
	if err := json.Unmarshal(result.([]byte), out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(resource, "error").Inc()
		return fmt.Errorf("decode %s response: %w", resource, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(resource, "success").Inc()
	return nil
}
