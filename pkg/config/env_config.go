// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that override file configuration
const (
	EnvTimeStep        = "KSP2D_TIME_STEP"
	EnvTimeWarp        = "KSP2D_TIME_WARP"
	EnvSeed            = "KSP2D_SEED"
	EnvSystemRadius    = "KSP2D_SYSTEM_RADIUS"
	EnvLandingMode     = "KSP2D_LANDING_MODE"
	EnvMetricsAddr     = "KSP2D_METRICS_ADDR"
	EnvTracingEnabled  = "KSP2D_TRACING_ENABLED"
	EnvTracingExporter = "KSP2D_TRACING_EXPORTER"
)

// ApplyEnv overrides config fields from KSP2D_* environment variables.
// A variable that is set but cannot be parsed is an error naming the variable.
func ApplyEnv(config *Config) error {
	var err error
	if config.Simulation.TimeStep, err = getEnvAsFloat(EnvTimeStep, config.Simulation.TimeStep); err != nil {
		return err
	}
	if config.Simulation.TimeWarp, err = getEnvAsFloat(EnvTimeWarp, config.Simulation.TimeWarp); err != nil {
		return err
	}
	if config.Generator.Seed, err = getEnvAsUint(EnvSeed, config.Generator.Seed); err != nil {
		return err
	}
	if config.Generator.SystemRadius, err = getEnvAsFloat(EnvSystemRadius, config.Generator.SystemRadius); err != nil {
		return err
	}
	if config.Observability.TracingEnabled, err = getEnvAsBool(EnvTracingEnabled, config.Observability.TracingEnabled); err != nil {
		return err
	}

	config.Landing.Mode = getEnvOrDefault(EnvLandingMode, config.Landing.Mode)
	config.Observability.MetricsAddr = getEnvOrDefault(EnvMetricsAddr, config.Observability.MetricsAddr)
	config.Observability.TracingExporter = getEnvOrDefault(EnvTracingExporter, config.Observability.TracingExporter)
	return nil
}

// Load builds the effective configuration: defaults, then the file at path
// (if non-empty), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: invalid number %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvAsUint(key string, defaultValue uint64) (uint64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: invalid unsigned integer %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: invalid boolean %q: %w", key, value, err)
	}
	return b, nil
}
