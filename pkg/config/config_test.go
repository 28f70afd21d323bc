// pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("DefaultConfig() is invalid: %v", err)
	}
	if config.Landing.Mode != LandingSurfacePoint {
		t.Errorf("Landing.Mode = %q, expected %q", config.Landing.Mode, LandingSurfacePoint)
	}
	if got := config.Simulation.Dt(); got <= 0 {
		t.Errorf("Dt() = %v, expected positive", got)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ksp2d.json")

	config := DefaultConfig()
	config.Generator.Seed = 99
	config.Landing.Mode = LandingCanonical
	config.Frontend.Renderer = RendererNull

	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig() failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if *loaded != *config {
		t.Errorf("LoadConfig() = %+v, expected %+v", loaded, config)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"simulation": {"timeWarp": 5}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if loaded.Simulation.TimeWarp != 5 {
		t.Errorf("TimeWarp = %v, expected 5", loaded.Simulation.TimeWarp)
	}
	if loaded.Simulation.TimeStep != DefaultConfig().Simulation.TimeStep {
		t.Errorf("TimeStep = %v, expected default", loaded.Simulation.TimeStep)
	}
	if loaded.Rocket != DefaultConfig().Rocket {
		t.Errorf("Rocket = %+v, expected defaults", loaded.Rocket)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadConfig() on a missing file should fail")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("LoadConfig() error = %v, expected parse error", err)
	}

	if err := SaveConfig(nil, filepath.Join(dir, "nil.json")); err == nil {
		t.Error("SaveConfig(nil) should fail")
	}
	if err := SaveConfig(DefaultConfig(), filepath.Join(dir, "no", "such", "dir.json")); err == nil {
		t.Error("SaveConfig() into a missing directory should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"zero_time_step", func(c *Config) { c.Simulation.TimeStep = 0 }, "timeStep"},
		{"negative_warp", func(c *Config) { c.Simulation.TimeWarp = -1 }, "timeWarp"},
		{"zero_radius", func(c *Config) { c.Generator.SystemRadius = 0 }, "systemRadius"},
		{"zero_rocket_mass", func(c *Config) { c.Rocket.Mass = 0 }, "rocket.mass"},
		{"negative_thrust", func(c *Config) { c.Rocket.MainThrust = -1 }, "mainThrust"},
		{"unknown_landing_mode", func(c *Config) { c.Landing.Mode = "bounce" }, "landing.mode"},
		{"sample_ratio_too_high", func(c *Config) { c.Observability.SampleRatio = 2 }, "sampleRatio"},
		{"unknown_exporter", func(c *Config) { c.Observability.TracingExporter = "jaeger" }, "tracingExporter"},
		{"unknown_renderer", func(c *Config) { c.Frontend.Renderer = "vulkan" }, "renderer"},
		{"zero_width", func(c *Config) { c.Frontend.Width = 0 }, "frontend size"},
		{"no_goroutines", func(c *Config) { c.Runtime.MaxGoroutines = 0 }, "maxGoroutines"},
		{"zero_shutdown_timeout", func(c *Config) { c.Runtime.ShutdownTimeout = 0 }, "shutdownTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() error %q does not name %q", err, tt.field)
			}
		})
	}
}
