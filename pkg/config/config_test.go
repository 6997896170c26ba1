package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, time.Hour, cfg.RateLimit.WindowDuration)
	assert.Equal(t, 180, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.MinInterCallDelay)
	assert.Equal(t, 10, cfg.RateLimit.BurstThreshold)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.BurstCooldown)

	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 5*time.Minute, cfg.Retry.MaxDelay)
	assert.Equal(t, 2.0, cfg.Retry.Multiplier)
	assert.Equal(t, 0.3, cfg.Retry.JitterRatio)

	assert.Equal(t, 50, cfg.Analyze.MaxPosts)
	assert.Equal(t, 10, cfg.Analytics.TopHashtags)
	assert.Equal(t, 5, cfg.Analytics.TopPosts)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlContent := `
rate_limit:
  max_requests: 90
  window_duration: 30m
analyze:
  max_posts: 25
output:
  directory: /tmp/reports
  formats: [json]
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 90, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 30*time.Minute, cfg.RateLimit.WindowDuration)
	assert.Equal(t, 25, cfg.Analyze.MaxPosts)
	assert.Equal(t, "/tmp/reports", cfg.Output.Directory)
	assert.Equal(t, []string{"json"}, cfg.Output.Formats)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 2*time.Second, cfg.RateLimit.MinInterCallDelay)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGSTATS_SESSION_ID", "env-session")
	t.Setenv("IGSTATS_MAX_REQUESTS", "120")
	t.Setenv("IGSTATS_WINDOW_DURATION", "45m")
	t.Setenv("IGSTATS_MAX_POSTS", "30")
	t.Setenv("IGSTATS_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-session", cfg.Instagram.SessionID)
	assert.Equal(t, 120, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 45*time.Minute, cfg.RateLimit.WindowDuration)
	assert.Equal(t, 30, cfg.Analyze.MaxPosts)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"session-id":   "flag-session",
		"output":       "/data/out",
		"max-posts":    12,
		"max-requests": 90,
		"top":          3,
		"format":       []string{"markdown"},
	})

	assert.Equal(t, "flag-session", cfg.Instagram.SessionID)
	assert.Equal(t, "/data/out", cfg.Output.Directory)
	assert.Equal(t, 12, cfg.Analyze.MaxPosts)
	assert.Equal(t, 90, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 3, cfg.Analytics.TopHashtags)
	assert.Equal(t, 3, cfg.Analytics.TopLocations)
	assert.Equal(t, []string{"markdown"}, cfg.Output.Formats)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max requests", func(c *Config) { c.RateLimit.MaxRequests = 0 }},
		{"negative delay floor", func(c *Config) { c.RateLimit.MinInterCallDelay = -time.Second }},
		{"zero max attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
		{"multiplier below one", func(c *Config) { c.Retry.Multiplier = 0.5 }},
		{"jitter above one", func(c *Config) { c.Retry.JitterRatio = 1.5 }},
		{"max delay below base", func(c *Config) { c.Retry.MaxDelay = time.Second }},
		{"zero top hashtags", func(c *Config) { c.Analytics.TopHashtags = 0 }},
		{"zero max posts", func(c *Config) { c.Analyze.MaxPosts = 0 }},
		{"too many workers", func(c *Config) { c.Analyze.Workers = 50 }},
		{"empty output dir", func(c *Config) { c.Output.Directory = "" }},
		{"unknown format", func(c *Config) { c.Output.Formats = []string{"xml"} }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateJoinsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.MaxRequests = 0
	cfg.Retry.MaxAttempts = 0
	cfg.Output.Directory = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max requests")
	assert.Contains(t, err.Error(), "max attempts")
	assert.Contains(t, err.Error(), "output directory")
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.RateLimit.MaxRequests = 99
	require.NoError(t, cfg.Save(path))

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, 99, reloaded.RateLimit.MaxRequests)
}
