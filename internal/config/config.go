// Package config reads client settings from HRMS_* environment variables.
// Command-line flags override these values in cmd/hrms.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIURL          string        // HRMS_API_URL (default "http://localhost:5000")
	APIPrefix       string        // HRMS_API_PREFIX (default "api")
	NATSURL         string        // HRMS_NATS_URL (optional, empty = poll)
	CredentialsFile string        // HRMS_CREDENTIALS_FILE (default ~/.local/state/hrms/credentials.toml)
	LogLevel        slog.Level    // HRMS_LOG_LEVEL (default "info")
	Debounce        time.Duration // HRMS_DEBOUNCE (default 500ms)
	Timeout         time.Duration // HRMS_TIMEOUT (default 30s)
	WatchInterval   time.Duration // HRMS_WATCH_INTERVAL (default 5s)
	PageLimit       int           // HRMS_PAGE_LIMIT (default 10)

	// Export settings
	ExportS3Bucket   string // HRMS_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Region   string // HRMS_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Endpoint string // HRMS_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)

	// Set when the value came from the environment rather than a default;
	// a saved profile only fills in defaulted values.
	APIURLFromEnv    bool
	APIPrefixFromEnv bool
}

func Load() (*Config, error) {
	c := &Config{
		APIURL:           envOrDefault("HRMS_API_URL", "http://localhost:5000"),
		APIPrefix:        envOrDefault("HRMS_API_PREFIX", "api"),
		NATSURL:          os.Getenv("HRMS_NATS_URL"),
		CredentialsFile:  os.Getenv("HRMS_CREDENTIALS_FILE"),
		ExportS3Bucket:   os.Getenv("HRMS_EXPORT_S3_BUCKET"),
		ExportS3Region:   envOrDefault("HRMS_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Endpoint: os.Getenv("HRMS_EXPORT_S3_ENDPOINT"),
		APIURLFromEnv:    os.Getenv("HRMS_API_URL") != "",
		APIPrefixFromEnv: os.Getenv("HRMS_API_PREFIX") != "",
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	c.APIPrefix = strings.Trim(c.APIPrefix, "/")

	var err error
	if c.Debounce, err = envDuration("HRMS_DEBOUNCE", "500ms"); err != nil {
		return nil, err
	}
	if c.Timeout, err = envDuration("HRMS_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if c.WatchInterval, err = envDuration("HRMS_WATCH_INTERVAL", "5s"); err != nil {
		return nil, err
	}
	if c.WatchInterval <= 0 {
		return nil, fmt.Errorf("HRMS_WATCH_INTERVAL: must be positive")
	}

	limitStr := envOrDefault("HRMS_PAGE_LIMIT", "10")
	c.PageLimit, err = strconv.Atoi(limitStr)
	if err != nil || c.PageLimit < 1 {
		return nil, fmt.Errorf("HRMS_PAGE_LIMIT: %q is not a positive integer", limitStr)
	}

	if err := c.LogLevel.UnmarshalText([]byte(envOrDefault("HRMS_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("HRMS_LOG_LEVEL: %w", err)
	}

	return c, nil
}

// BaseURL joins the API URL and prefix: {APIURL}/{APIPrefix}.
func (c *Config) BaseURL() string {
	if c.APIPrefix == "" {
		return c.APIURL
	}
	return c.APIURL + "/" + c.APIPrefix
}

func envDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
