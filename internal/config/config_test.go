package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultDatasetURL, cfg.DatasetURL)
	assert.Equal(t, 10*time.Second, cfg.DatasetFetchTimeout)
	assert.Equal(t, 3, cfg.DatasetFetchRetries)
	assert.Equal(t, int64(16<<20), cfg.DatasetMaxBytes)
	assert.Equal(t, 64, cfg.RenderCacheSize)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "penguin-hover-events", cfg.KafkaHoverTopic)
	assert.False(t, cfg.HoverEventsEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATASET_URL", "http://localhost:8000/penguins.csv")
	t.Setenv("DATASET_FETCH_TIMEOUT", "2s")
	t.Setenv("DATASET_FETCH_RETRIES", "5")
	t.Setenv("DATASET_MAX_BYTES", "65536")
	t.Setenv("RENDER_CACHE_SIZE", "8")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_HOVER_TOPIC", "custom-hover")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:8000/penguins.csv", cfg.DatasetURL)
	assert.Equal(t, 2*time.Second, cfg.DatasetFetchTimeout)
	assert.Equal(t, 5, cfg.DatasetFetchRetries)
	assert.Equal(t, int64(65536), cfg.DatasetMaxBytes)
	assert.Equal(t, 8, cfg.RenderCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-hover", cfg.KafkaHoverTopic)
	assert.True(t, cfg.HoverEventsEnabled, "brokers enable hover events by default")
}

func TestLoad_HoverEventsExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", defaultBroker)
	t.Setenv("HOVER_EVENTS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.HoverEventsEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
}

func TestLoad_HoverEventsWithoutBrokers(t *testing.T) {
	t.Setenv("HOVER_EVENTS_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"SHUTDOWN_TIMEOUT":      "soon",
		"DATASET_FETCH_TIMEOUT": "-1s",
		"DATASET_FETCH_RETRIES": "0",
		"DATASET_MAX_BYTES":     "-5",
		"RENDER_CACHE_SIZE":     "lots",
		"DATASET_URL":           "not a url",
		"LOG_FORMAT":            "xml",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestParseBrokers(t *testing.T) {
	assert.Nil(t, parseBrokers(""))
	assert.Nil(t, parseBrokers(" , "))
	assert.Equal(t, []string{"a:1", "b:2"}, parseBrokers("a:1,,b:2 "))
}
