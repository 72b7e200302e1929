// Command feed publishes NZ avalanche advisory danger levels as a GeoJSON
// feature collection to a Kafka topic, either once or on a schedule.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/avalanche-geofeed/internal/adapter/avalanche"
	httpadapter "github.com/couchcryptid/avalanche-geofeed/internal/adapter/http"
	"github.com/couchcryptid/avalanche-geofeed/internal/adapter/kafka"
	"github.com/couchcryptid/avalanche-geofeed/internal/config"
	"github.com/couchcryptid/avalanche-geofeed/internal/observability"
	"github.com/couchcryptid/avalanche-geofeed/internal/runner"
	"github.com/couchcryptid/avalanche-geofeed/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single feed cycle and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source := avalanche.NewClient(cfg.APIBaseURL, cfg.FetchTimeout, metrics, logger)
	sink := kafka.NewWriter(cfg, logger)
	feed := runner.New(source, sink, cfg.SiteBaseURL, logger, metrics)

	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RunInterval)
		defer cancel()

		runErr := feed.RunOnce(ctx)
		if err := sink.Close(); err != nil {
			logger.Error("failed to close kafka writer", "error", err)
		}
		if runErr != nil {
			logger.Error("feed run failed", "error", runErr)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpadapter.NewServer(cfg.HTTPAddr, feed, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	sched := scheduler.New(feed, cfg.RunInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	if err := sink.Close(); err != nil {
		logger.Error("failed to close kafka writer", "error", err)
	}

	logger.Info("shutdown complete")
}
