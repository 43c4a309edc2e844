package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.AllowedOrigins)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 8, cfg.BatchConcurrency)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 1000, cfg.CacheSize)
	assert.True(t, cfg.VisualizationsEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://ops.example.com , ,https://crew.example.com")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_CONCURRENCY", "2")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_SIZE", "64")
	t.Setenv("VISUALIZATIONS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://ops.example.com", "https://crew.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 2, cfg.BatchConcurrency)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.False(t, cfg.VisualizationsEnabled)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidRequestTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchConcurrency(t *testing.T) {
	t.Setenv("BATCH_CONCURRENCY", "zero")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_CONCURRENCY")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("CACHE_SIZE", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_SIZE")
}

func TestLoad_EmptyOriginsAllowed(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.AllowedOrigins)
}
