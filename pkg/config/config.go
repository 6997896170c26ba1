package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the analyzer
type Config struct {
	// Instagram credentials and request identity
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Rate limiting thresholds
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry behavior for transient failures
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Analytics computation settings
	Analytics AnalyticsConfig `yaml:"analytics" json:"analytics"`

	// Analysis run settings
	Analyze AnalyzeConfig `yaml:"analyze" json:"analyze"`

	// Report output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	SessionID  string `yaml:"session_id" json:"session_id"`
	CSRFToken  string `yaml:"csrf_token" json:"csrf_token"`
	UserAgent  string `yaml:"user_agent" json:"user_agent"`
	APIVersion string `yaml:"api_version" json:"api_version"`
}

// RateLimitConfig holds the sliding window limiter thresholds.
// MaxRequests defaults below Instagram's published per-hour ceiling.
type RateLimitConfig struct {
	WindowDuration    time.Duration `yaml:"window_duration" json:"window_duration"`
	MaxRequests       int           `yaml:"max_requests" json:"max_requests"`
	MinInterCallDelay time.Duration `yaml:"min_inter_call_delay" json:"min_inter_call_delay"`
	BurstThreshold    int           `yaml:"burst_threshold" json:"burst_threshold"`
	BurstInterval     time.Duration `yaml:"burst_interval" json:"burst_interval"`
	BurstCooldown     time.Duration `yaml:"burst_cooldown" json:"burst_cooldown"`
}

// RetryConfig holds backoff parameters for transient failures
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" json:"multiplier"`
	JitterRatio float64       `yaml:"jitter_ratio" json:"jitter_ratio"`
}

// AnalyticsConfig holds computation settings
type AnalyticsConfig struct {
	TopHashtags  int `yaml:"top_hashtags" json:"top_hashtags"`
	TopLocations int `yaml:"top_locations" json:"top_locations"`
	TopPosts     int `yaml:"top_posts" json:"top_posts"`
}

// AnalyzeConfig holds per-run settings
type AnalyzeConfig struct {
	MaxPosts       int           `yaml:"max_posts" json:"max_posts"`
	Workers        int           `yaml:"workers" json:"workers"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// OutputConfig holds report output settings
type OutputConfig struct {
	Directory string   `yaml:"directory" json:"directory"`
	Formats   []string `yaml:"formats" json:"formats"`
	Console   bool     `yaml:"console" json:"console"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			APIVersion: "v1",
		},
		RateLimit: RateLimitConfig{
			WindowDuration:    time.Hour,
			MaxRequests:       180,
			MinInterCallDelay: 2 * time.Second,
			BurstThreshold:    10,
			BurstInterval:     10 * time.Second,
			BurstCooldown:     60 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   5 * time.Second,
			MaxDelay:    5 * time.Minute,
			Multiplier:  2.0,
			JitterRatio: 0.3,
		},
		Analytics: AnalyticsConfig{
			TopHashtags:  10,
			TopLocations: 10,
			TopPosts:     5,
		},
		Analyze: AnalyzeConfig{
			MaxPosts:       50,
			Workers:        3,
			RequestTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			Directory: "./reports",
			Formats:   []string{"json", "markdown"},
			Console:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("IGSTATS_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("IGSTATS_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("IGSTATS_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if maxReq := os.Getenv("IGSTATS_MAX_REQUESTS"); maxReq != "" {
		if val, err := strconv.Atoi(maxReq); err == nil && val > 0 {
			c.RateLimit.MaxRequests = val
		}
	}
	if window := os.Getenv("IGSTATS_WINDOW_DURATION"); window != "" {
		if val, err := time.ParseDuration(window); err == nil && val > 0 {
			c.RateLimit.WindowDuration = val
		}
	}

	if maxPosts := os.Getenv("IGSTATS_MAX_POSTS"); maxPosts != "" {
		if val, err := strconv.Atoi(maxPosts); err == nil && val > 0 {
			c.Analyze.MaxPosts = val
		}
	}

	if outputDir := os.Getenv("IGSTATS_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	if logLevel := os.Getenv("IGSTATS_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".igstats.yaml",
		".igstats.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igstats", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igstats", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igstats.yaml"),
		filepath.Join(os.Getenv("HOME"), ".igstats.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.RateLimit.WindowDuration <= 0 {
		errs = append(errs, errors.New("rate limit window duration must be positive"))
	}
	if c.RateLimit.MaxRequests <= 0 {
		errs = append(errs, errors.New("max requests per window must be positive"))
	}
	if c.RateLimit.MinInterCallDelay < 0 {
		errs = append(errs, errors.New("minimum inter-call delay cannot be negative"))
	}
	if c.RateLimit.BurstThreshold < 0 {
		errs = append(errs, errors.New("burst threshold cannot be negative"))
	}

	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, errors.New("max attempts must be positive"))
	}
	if c.Retry.BaseDelay <= 0 {
		errs = append(errs, errors.New("base delay must be positive"))
	}
	if c.Retry.MaxDelay < c.Retry.BaseDelay {
		errs = append(errs, errors.New("max delay cannot be below base delay"))
	}
	if c.Retry.Multiplier < 1.0 {
		errs = append(errs, errors.New("backoff multiplier must be at least 1.0"))
	}
	if c.Retry.JitterRatio < 0 || c.Retry.JitterRatio > 1 {
		errs = append(errs, errors.New("jitter ratio must be between 0.0 and 1.0"))
	}

	if c.Analytics.TopHashtags <= 0 {
		errs = append(errs, errors.New("top hashtags count must be positive"))
	}
	if c.Analytics.TopLocations <= 0 {
		errs = append(errs, errors.New("top locations count must be positive"))
	}
	if c.Analytics.TopPosts <= 0 {
		errs = append(errs, errors.New("top posts count must be positive"))
	}

	if c.Analyze.MaxPosts <= 0 {
		errs = append(errs, errors.New("max posts must be positive"))
	}
	if c.Analyze.Workers <= 0 {
		errs = append(errs, errors.New("workers must be positive"))
	}
	if c.Analyze.Workers > 10 {
		errs = append(errs, errors.New("workers should not exceed 10"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	validFormats := map[string]bool{"json": true, "markdown": true}
	for _, f := range c.Output.Formats {
		if !validFormats[strings.ToLower(f)] {
			errs = append(errs, fmt.Errorf("unknown output format: %s", f))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if maxPosts, ok := flags["max-posts"].(int); ok && maxPosts > 0 {
		c.Analyze.MaxPosts = maxPosts
	}
	if maxRequests, ok := flags["max-requests"].(int); ok && maxRequests > 0 {
		c.RateLimit.MaxRequests = maxRequests
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Analyze.Workers = workers
	}
	if topN, ok := flags["top"].(int); ok && topN > 0 {
		c.Analytics.TopHashtags = topN
		c.Analytics.TopLocations = topN
	}
	if formats, ok := flags["format"].([]string); ok && len(formats) > 0 {
		c.Output.Formats = formats
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igstats.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
