package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultDatasetURL is the published penguins CSV.
const DefaultDatasetURL = "https://raw.githubusercontent.com/dataprofessor/data/master/penguins_cleaned.csv"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset loading configuration.
	DatasetURL          string
	DatasetFetchTimeout time.Duration
	DatasetFetchRetries int
	DatasetMaxBytes     int64

	RenderCacheSize int

	// Hover event publishing, disabled when no brokers are configured.
	KafkaBrokers       []string
	KafkaHoverTopic    string
	HoverEventsEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("DATASET_FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchRetries, err := parsePositiveInt("DATASET_FETCH_RETRIES", 3)
	if err != nil {
		return nil, err
	}

	maxBytes, err := parsePositiveInt("DATASET_MAX_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("RENDER_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	hoverEnabled := len(brokers) > 0
	if v := os.Getenv("HOVER_EVENTS_ENABLED"); v != "" {
		hoverEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetURL:          envOrDefault("DATASET_URL", DefaultDatasetURL),
		DatasetFetchTimeout: fetchTimeout,
		DatasetFetchRetries: fetchRetries,
		DatasetMaxBytes:     int64(maxBytes),

		RenderCacheSize: cacheSize,

		KafkaBrokers:       brokers,
		KafkaHoverTopic:    envOrDefault("KAFKA_HOVER_TOPIC", "penguin-hover-events"),
		HoverEventsEnabled: hoverEnabled,
	}

	if u, err := url.Parse(cfg.DatasetURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid DATASET_URL")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.LogFormat)
	}
	if cfg.HoverEventsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("HOVER_EVENTS_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.HoverEventsEnabled && cfg.KafkaHoverTopic == "" {
		return nil, errors.New("KAFKA_HOVER_TOPIC is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping blanks.
func parseBrokers(s string) []string {
	var brokers []string
	for b := range strings.SplitSeq(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
