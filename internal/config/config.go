// Package config provides application configuration management.
// It loads server settings from environment variables (optionally seeded by a
// .env file) and resolves external service descriptors on demand.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// ContentPath overrides the embedded business content document.
	ContentPath string

	// Metrics Authentication (empty password = no auth)
	MetricsUsername string
	MetricsPassword string

	// Better Stack log shipping (empty token = disabled)
	BetterStackToken    string
	BetterStackEndpoint string

	// Sentry error tracking (empty token = disabled)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentrySampleRate  float64

	Audio AudioConfig
}

// AudioConfig configures the optional S3-compatible store for synthesized clips.
// When disabled, clips are sent inline as data URIs.
type AudioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	URLTTL          time.Duration
}

// Enabled reports whether a bucket and credentials are configured.
func (a AudioConfig) Enabled() bool {
	return a.Bucket != "" && a.AccessKeyID != "" && a.SecretAccessKey != ""
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "5055"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		ContentPath:     getEnv(EnvContentPath, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		Audio: AudioConfig{
			Endpoint:        getEnv(EnvAudioEndpoint, ""),
			AccessKeyID:     getEnv(EnvAudioAccessKeyID, ""),
			SecretAccessKey: getEnv(EnvAudioSecretAccessKey, ""),
			Bucket:          getEnv(EnvAudioBucket, ""),
			URLTTL:          getDurationEnv(EnvAudioURLTTL, AudioURLTTL),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	} else if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("%s must be a port number, got %q", EnvPort, c.Port))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.SentryToken != "" && c.SentryHost == "" {
		errs = append(errs, fmt.Errorf("%s is required when %s is set", EnvSentryHost, EnvSentryToken))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}
	if c.Audio.Bucket != "" && !c.Audio.Enabled() {
		errs = append(errs, errors.New("audio store credentials are required when a bucket is set"))
	}
	if c.Audio.URLTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvAudioURLTTL, c.Audio.URLTTL))
	}

	return errors.Join(errs...)
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
