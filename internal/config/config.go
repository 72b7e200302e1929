package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Upstream advisory API and public site (for feature links).
	APIBaseURL  string
	SiteBaseURL string

	// FetchTimeout bounds each outbound advisory API call.
	FetchTimeout time.Duration
	// RunInterval is the period between feed runs and the deadline for a
	// single run.
	RunInterval time.Duration

	KafkaBrokers   []string
	KafkaSinkTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file is a development convenience; its absence is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fetchTimeout, err := parseDurationEnv("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	runInterval, err := parseDurationEnv("RUN_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:      strings.TrimRight(envOrDefault("AVALANCHE_API_URL", "https://www.avalanche.net.nz/api"), "/"),
		SiteBaseURL:     strings.TrimRight(envOrDefault("AVALANCHE_SITE_URL", "https://www.avalanche.net.nz"), "/"),
		FetchTimeout:    fetchTimeout,
		RunInterval:     runInterval,
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  envOrDefault("KAFKA_SINK_TOPIC", "avalanche-feed"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("AVALANCHE_API_URL is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.RunInterval < time.Minute {
		return nil, errors.New("RUN_INTERVAL must be at least 1m")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
