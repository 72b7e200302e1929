// Package runner orchestrates a feed run: fetch forecasts and region
// metadata, normalize per region, assemble features, and submit the
// resulting collection to the sink.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/avalanche-geofeed/internal/domain"
	"github.com/couchcryptid/avalanche-geofeed/internal/observability"
)

// RegionSource provides advisory region metadata and the shared forecast list.
type RegionSource interface {
	RegionInfo(ctx context.Context, regionID int) (domain.Region, error)
	Forecasts(ctx context.Context) ([]domain.RawForecast, error)
}

// Sink receives the assembled feature collection once per run.
type Sink interface {
	Publish(ctx context.Context, collection domain.FeatureCollection) error
}

// RunStatus summarizes the most recent feed run for the status endpoint.
type RunStatus struct {
	StartedAt      time.Time `json:"started_at"`
	Duration       string    `json:"duration"`
	Features       int       `json:"features"`
	RegionsSkipped int       `json:"regions_skipped"`
	Error          string    `json:"error,omitempty"`
}

// Runner executes feed runs over a fixed region catalog. A run always ends in
// exactly one submission; regions that cannot be processed degrade to zero
// features rather than failing the run.
type Runner struct {
	source  RegionSource
	sink    Sink
	catalog []int
	siteURL string
	logger  *slog.Logger
	metrics *observability.Metrics

	ready atomic.Bool

	mu      sync.Mutex
	lastRun RunStatus
	hasRun  bool
}

// New creates a Runner over the standard advisory region catalog.
func New(source RegionSource, sink Sink, siteURL string, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		source:  source,
		sink:    sink,
		catalog: domain.RegionIDs,
		siteURL: siteURL,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness reports ready once at least one run has completed.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return fmt.Errorf("no feed run has completed yet")
	}
	return nil
}

// LastRun returns the most recent run summary. The bool is false until the
// first run completes.
func (r *Runner) LastRun() (RunStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun, r.hasRun
}

// RunOnce performs a single fetch-normalize-submit cycle. It returns an error
// only when submission fails; upstream fetch problems degrade to an empty or
// partial collection, which is still submitted so stale features go stale
// downstream.
func (r *Runner) RunOnce(ctx context.Context) error {
	start := time.Now()
	r.metrics.RunsTotal.Inc()

	forecasts, err := r.source.Forecasts(ctx)
	if err != nil {
		r.logger.Error("forecast fetch failed, submitting without forecasts", "error", err)
		forecasts = nil
	}

	var features []domain.Feature
	var skipped int
	for _, regionID := range r.catalog {
		regionFeatures := r.regionFeatures(ctx, regionID, forecasts)
		if len(regionFeatures) == 0 {
			skipped++
			continue
		}
		features = append(features, regionFeatures...)
	}

	collection := domain.NewFeatureCollection(features)
	if err := r.sink.Publish(ctx, collection); err != nil {
		r.metrics.RunFailures.Inc()
		r.recordRun(start, len(collection.Features), skipped, err)
		return fmt.Errorf("submit feature collection: %w", err)
	}

	r.metrics.SubmissionsTotal.Inc()
	r.metrics.FeaturesEmitted.Add(float64(len(collection.Features)))
	r.metrics.LastRunFeatures.Set(float64(len(collection.Features)))
	r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	r.ready.Store(true)
	r.recordRun(start, len(collection.Features), skipped, nil)

	r.logger.Info("ok - feed run complete",
		"features", len(collection.Features),
		"regions_skipped", skipped,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

// regionFeatures builds the features for one region. Any failure, including a
// panic in assembly, degrades the region to zero features.
func (r *Runner) regionFeatures(ctx context.Context, regionID int, forecasts []domain.RawForecast) (features []domain.Feature) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("region processing panicked", "region_id", regionID, "panic", rec)
			r.metrics.RegionsSkipped.WithLabelValues("panic").Inc()
			features = nil
		}
	}()

	region, err := r.source.RegionInfo(ctx, regionID)
	if err != nil {
		r.logger.Warn("region fetch failed", "region_id", regionID, "error", err)
		r.metrics.RegionsSkipped.WithLabelValues("region_fetch").Inc()
		return nil
	}

	forecast, ok := domain.Normalize(region, forecasts, r.siteURL)
	if !ok {
		r.logger.Info("no current forecast for region", "region_id", regionID, "region", region.Title)
		r.metrics.RegionsSkipped.WithLabelValues("no_forecast").Inc()
		return nil
	}

	polygon, ok := domain.ExtractPolygon(region.RawGeometry)
	if !ok {
		r.logger.Warn("region geometry unusable, emitting point only", "region_id", regionID, "region", region.Title)
		r.metrics.GeometryFallbacks.Inc()
	}

	features = domain.AssembleFeatures(region, forecast, polygon)
	r.logger.Info("ok - region processed",
		"region_id", regionID,
		"region", region.Title,
		"level", forecast.Level,
		"features", len(features),
	)
	return features
}

func (r *Runner) recordRun(start time.Time, featureCount, skipped int, runErr error) {
	status := RunStatus{
		StartedAt:      start.UTC(),
		Duration:       time.Since(start).Round(time.Millisecond).String(),
		Features:       featureCount,
		RegionsSkipped: skipped,
	}
	if runErr != nil {
		status.Error = runErr.Error()
	}

	r.mu.Lock()
	r.lastRun = status
	r.hasRun = true
	r.mu.Unlock()
}
