// Package config loads configuration values from environment variables with a
// fail-open strategy: a missing value silently takes its default, and an invalid
// value takes its default with a warning instead of aborting startup.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult represents the result of loading a configuration value.
//
// Fields:
//   - Value: The loaded configuration value (the default if a fallback was applied)
//   - Warnings: One message per fallback applied
//   - FallbackApplied: True if the default value was used because the input was invalid
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// load reads envKey, parses it and validates the result.
// An unset or empty variable yields defaultValue without a warning.
func load[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	fallback := func(err error) ConfigLoadResult {
		return ConfigLoadResult{
			Value: defaultValue,
			Warnings: []string{fmt.Sprintf(
				"Invalid %s='%s': %v, falling back to default '%v'",
				envKey, raw, err, defaultValue,
			)},
			FallbackApplied: true,
		}
	}

	v, err := parse(raw)
	if err != nil {
		return fallback(err)
	}
	if validator != nil {
		if err := validator(v); err != nil {
			return fallback(err)
		}
	}
	return ConfigLoadResult{Value: v}
}

// LoadEnvString loads a string value without validation.
//
// Example:
//
//	schedule := LoadEnvString("RECONCILE_SCHEDULE", "*/1 * * * *")
func LoadEnvString(envKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string value and validates it.
//
// Warning format:
//
//	"Invalid {envKey}='{value}': {error}, falling back to default '{default}'"
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	return load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a Go duration string ("30s", "5m", "1h30m").
//
// Example:
//
//	result := LoadEnvDuration("FETCH_TIMEOUT", 30*time.Second, ValidatePositiveDuration)
//	timeout := result.Value.(time.Duration)
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	return load(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	return load(envKey, defaultValue, func(s string) (int, error) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid integer format")
		}
		return v, nil
	}, validator)
}

// LoadEnvInt64 loads a base-10 64-bit integer, typically a byte count.
func LoadEnvInt64(envKey string, defaultValue int64, validator func(int64) error) ConfigLoadResult {
	return load(envKey, defaultValue, func(s string) (int64, error) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer format")
		}
		return v, nil
	}, validator)
}

// LoadEnvBool loads a boolean as accepted by strconv.ParseBool
// ("1", "t", "true", "0", "f", "false" and their capitalized forms).
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	return load(envKey, defaultValue, func(s string) (bool, error) {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("invalid boolean format, expected 'true' or 'false'")
		}
		return v, nil
	}, nil)
}

// Loader loads the fields of one component's configuration, logging and counting
// every fallback it applies.
//
// Example:
//
//	l := config.NewLoader(logger, metrics)
//	cfg.Timeout = l.Duration("FETCH_TIMEOUT", cfg.Timeout, config.ValidatePositiveDuration)
//	l.Finish()
type Loader struct {
	logger    *slog.Logger
	metrics   *ConfigMetrics
	fallbacks int
}

// NewLoader returns a Loader. metrics may be nil.
func NewLoader(logger *slog.Logger, metrics *ConfigMetrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, metrics: metrics}
}

// String loads a validated string.
func (l *Loader) String(envKey, defaultValue string, validator func(string) error) string {
	return l.apply(envKey, LoadEnvWithFallback(envKey, defaultValue, validator)).(string)
}

// Duration loads a validated duration.
func (l *Loader) Duration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) time.Duration {
	return l.apply(envKey, LoadEnvDuration(envKey, defaultValue, validator)).(time.Duration)
}

// Int loads a validated int.
func (l *Loader) Int(envKey string, defaultValue int, validator func(int) error) int {
	return l.apply(envKey, LoadEnvInt(envKey, defaultValue, validator)).(int)
}

// Int64 loads a validated int64.
func (l *Loader) Int64(envKey string, defaultValue int64, validator func(int64) error) int64 {
	return l.apply(envKey, LoadEnvInt64(envKey, defaultValue, validator)).(int64)
}

// Bool loads a boolean.
func (l *Loader) Bool(envKey string, defaultValue bool) bool {
	return l.apply(envKey, LoadEnvBool(envKey, defaultValue)).(bool)
}

// Fallbacks returns how many values fell back to their default so far.
func (l *Loader) Fallbacks() int {
	return l.fallbacks
}

// Finish records the load timestamp and whether any fallback is active.
func (l *Loader) Finish() {
	if l.metrics == nil {
		return
	}
	l.metrics.SetFallbackActive(l.fallbacks > 0)
	l.metrics.RecordLoadTimestamp()
}

func (l *Loader) apply(envKey string, result ConfigLoadResult) interface{} {
	if !result.FallbackApplied {
		return result.Value
	}
	l.fallbacks++
	if l.metrics != nil {
		l.metrics.RecordValidationError(envKey)
		l.metrics.RecordFallback(envKey)
	}
	for _, warning := range result.Warnings {
		l.logger.Warn("Configuration fallback applied",
			slog.String("field", envKey),
			slog.String("warning", warning))
	}
	return result.Value
}
