// Package config resolves driverisk settings from defaults, an optional
// YAML file and DRIVERISK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults match the published pricing rules; changing them changes quotes.
const (
	DefaultBasePremium = 1000.0
	DefaultDropRate    = 0.1
	DefaultPace        = 500 * time.Millisecond
	DefaultClusterSeed = 42
)

// Config holds all application configuration.
type Config struct {
	// BasePremium is the standard-tier premium before any surcharge or discount.
	BasePremium float64 `yaml:"base_premium"`

	// DropRate is the probability that the stream filter discards a record.
	DropRate float64 `yaml:"drop_rate"`

	// Pace is the simulated arrival delay after each kept record.
	Pace time.Duration `yaml:"pace"`

	// ClusterSeed seeds k-means initialisation.
	ClusterSeed uint64 `yaml:"cluster_seed"`

	// DropSeed seeds the stream filter. Zero picks a fresh seed per process.
	DropSeed uint64 `yaml:"drop_seed"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// RedactIdentity masks driver name and license number in the
	// collector's log line.
	RedactIdentity bool `yaml:"redact_identity"`
}

// ValidationError reports a setting with an unusable value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DefaultConfig returns a Config with the standard pricing rules.
func DefaultConfig() Config {
	return Config{
		BasePremium: DefaultBasePremium,
		DropRate:    DefaultDropRate,
		Pace:        DefaultPace,
		ClusterSeed: DefaultClusterSeed,
		LogLevel:    "info",
	}
}

// Load reads a YAML file over the defaults. The document is checked
// against Schema before it is decoded.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := validateDocument(data); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from DRIVERISK_* environment variables.
// Unset variables leave the field alone.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var errs []error
	if v, ok := get("DRIVERISK_BASE_PREMIUM"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("DRIVERISK_BASE_PREMIUM: %w", err))
		} else {
			c.BasePremium = f
		}
	}
	if v, ok := get("DRIVERISK_DROP_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("DRIVERISK_DROP_RATE: %w", err))
		} else {
			c.DropRate = f
		}
	}
	if v, ok := get("DRIVERISK_PACE"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DRIVERISK_PACE: %w", err))
		} else {
			c.Pace = d
		}
	}
	if v, ok := get("DRIVERISK_CLUSTER_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("DRIVERISK_CLUSTER_SEED: %w", err))
		} else {
			c.ClusterSeed = n
		}
	}
	if v, ok := get("DRIVERISK_DROP_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("DRIVERISK_DROP_SEED: %w", err))
		} else {
			c.DropSeed = n
		}
	}
	if v, ok := get("DRIVERISK_LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("DRIVERISK_REDACT_IDENTITY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DRIVERISK_REDACT_IDENTITY: %w", err))
		} else {
			c.RedactIdentity = b
		}
	}
	return errors.Join(errs...)
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.BasePremium <= 0 {
		return &ValidationError{Field: "base_premium", Reason: "must be positive"}
	}
	if c.DropRate < 0 || c.DropRate >= 1 {
		return &ValidationError{Field: "drop_rate", Reason: "must be in [0, 1)"}
	}
	if c.Pace < 0 {
		return &ValidationError{Field: "pace", Reason: "must not be negative"}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}
