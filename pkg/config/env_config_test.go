// pkg/config/env_config_test.go
package config

import (
	"strings"
	"testing"
)

func TestApplyEnv(t *testing.T) {
	t.Run("no_variables", func(t *testing.T) {
		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("ApplyEnv() failed: %v", err)
		}
		if *config != *DefaultConfig() {
			t.Error("ApplyEnv() changed config without any variables set")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv(EnvTimeStep, "0.02")
		t.Setenv(EnvTimeWarp, "1e6")
		t.Setenv(EnvSeed, "1234")
		t.Setenv(EnvSystemRadius, "1e12")
		t.Setenv(EnvLandingMode, LandingCanonical)
		t.Setenv(EnvMetricsAddr, ":9100")
		t.Setenv(EnvTracingEnabled, "true")
		t.Setenv(EnvTracingExporter, "none")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("ApplyEnv() failed: %v", err)
		}

		if config.Simulation.TimeStep != 0.02 || config.Simulation.TimeWarp != 1e6 {
			t.Errorf("simulation = %+v", config.Simulation)
		}
		if config.Generator.Seed != 1234 || config.Generator.SystemRadius != 1e12 {
			t.Errorf("generator = %+v", config.Generator)
		}
		if config.Landing.Mode != LandingCanonical {
			t.Errorf("Landing.Mode = %q", config.Landing.Mode)
		}
		obs := config.Observability
		if obs.MetricsAddr != ":9100" || !obs.TracingEnabled || obs.TracingExporter != "none" {
			t.Errorf("observability = %+v", obs)
		}
	})
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvTimeStep, "fast"},
		{EnvTimeWarp, "1e6x"},
		{EnvSeed, "-1"},
		{EnvSystemRadius, "big"},
		{EnvTracingEnabled, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			err := ApplyEnv(DefaultConfig())
			if err == nil {
				t.Fatalf("ApplyEnv() with %s=%q should fail", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults_without_file", func(t *testing.T) {
		config, err := Load("")
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if config.Generator.Seed != DefaultConfig().Generator.Seed {
			t.Errorf("Seed = %d", config.Generator.Seed)
		}
	})

	t.Run("env_breaks_validation", func(t *testing.T) {
		t.Setenv(EnvLandingMode, "hover")
		if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "landing.mode") {
			t.Errorf("Load() error = %v, expected landing.mode error", err)
		}
	})
}
