// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// Landing modes
const (
	// LandingCanonical snaps a landed body to the top point of the planet
	LandingCanonical = "canonical"
	// LandingSurfacePoint keeps the body where it touched the surface
	LandingSurfacePoint = "surface-point"
)

// Renderer names accepted by the frontend
const (
	RendererTerminal = "terminal"
	RendererEngo     = "engo"
	RendererNull     = "null"
)

// Config contains the full configuration of a ksp2d run
type Config struct {
	Simulation    SimulationConfig    `json:"simulation"`
	Generator     GeneratorConfig     `json:"generator"`
	Rocket        RocketConfig        `json:"rocket"`
	Landing       LandingConfig       `json:"landing"`
	Observability ObservabilityConfig `json:"observability"`
	Frontend      FrontendConfig      `json:"frontend"`
	Runtime       RuntimeConfig       `json:"runtime"`
}

// SimulationConfig controls the tick driver
type SimulationConfig struct {
	TimeStep float64 `json:"timeStep"` // seconds of wall time per tick
	TimeWarp float64 `json:"timeWarp"` // simulated seconds per wall second
}

// GeneratorConfig controls the procedural star system
type GeneratorConfig struct {
	Seed          uint64  `json:"seed"`
	SystemRadius  float64 `json:"systemRadius"` // metres
	MaxPlanetSpin float64 `json:"maxPlanetSpin"`
	StarSpin      float64 `json:"starSpin"`
	SpawnRocket   bool    `json:"spawnRocket"`
	RocketPlanet  int     `json:"rocketPlanet"` // index of the planet the rocket starts on
	RocketInOrbit bool    `json:"rocketInOrbit"`
	OrbitAltitude float64 `json:"orbitAltitude"`
}

// RocketConfig describes the player's rocket
type RocketConfig struct {
	Mass                float64 `json:"mass"`
	MainThrust          float64 `json:"mainThrust"`
	RCSThrust           float64 `json:"rcsThrust"`
	AngularAcceleration float64 `json:"angularAcceleration"` // rad/s²
	ThrottleRate        float64 `json:"throttleRate"`        // throttle fraction per second
}

// LandingConfig controls the landing detector and resting constraint
type LandingConfig struct {
	Mode string `json:"mode"`
}

// ObservabilityConfig controls metrics and tracing
type ObservabilityConfig struct {
	MetricsAddr     string  `json:"metricsAddr"`
	TracingEnabled  bool    `json:"tracingEnabled"`
	TracingExporter string  `json:"tracingExporter"`
	SampleRatio     float64 `json:"sampleRatio"`
	ServiceName     string  `json:"serviceName"`
}

// FrontendConfig controls the interactive frontends
type FrontendConfig struct {
	Renderer string `json:"renderer"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Audio    bool   `json:"audio"`
	LogFile  string `json:"logFile"`
}

// RuntimeConfig bounds the background goroutines of a run
type RuntimeConfig struct {
	MaxGoroutines   int     `json:"maxGoroutines"`
	ShutdownTimeout float64 `json:"shutdownTimeout"` // seconds
}

// LoadConfig loads a configuration from a file, filling unset fields from DefaultConfig
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	if config == nil {
		return errors.New("config is nil")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TimeStep: 1.0 / 60.0,
			TimeWarp: 1,
		},
		Generator: GeneratorConfig{
			Seed:          1,
			SystemRadius:  4.5e12,
			MaxPlanetSpin: 1e-4,
			StarSpin:      2.9e-6,
			SpawnRocket:   true,
			RocketPlanet:  0,
			OrbitAltitude: 2e5,
		},
		Rocket: RocketConfig{
			Mass:                549054,
			MainThrust:          7.607e6,
			RCSThrust:           7.607e5,
			AngularAcceleration: math.Pi / 8,
			ThrottleRate:        1,
		},
		Landing: LandingConfig{
			Mode: LandingSurfacePoint,
		},
		Observability: ObservabilityConfig{
			TracingExporter: "stdout",
			SampleRatio:     1,
			ServiceName:     "ksp2d",
		},
		Frontend: FrontendConfig{
			Renderer: RendererTerminal,
			Width:    1280,
			Height:   800,
			LogFile:  "ksp2d.log",
		},
		Runtime: RuntimeConfig{
			MaxGoroutines:   16,
			ShutdownTimeout: 5,
		},
	}
}

// Validate checks the configuration for values the simulation cannot run with
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(positive(c.Simulation.TimeStep), "simulation.timeStep must be positive, got %v", c.Simulation.TimeStep)
	check(positive(c.Simulation.TimeWarp), "simulation.timeWarp must be positive, got %v", c.Simulation.TimeWarp)
	check(positive(c.Generator.SystemRadius), "generator.systemRadius must be positive, got %v", c.Generator.SystemRadius)
	check(c.Generator.MaxPlanetSpin >= 0, "generator.maxPlanetSpin must not be negative, got %v", c.Generator.MaxPlanetSpin)
	check(c.Generator.RocketPlanet >= 0, "generator.rocketPlanet must not be negative, got %v", c.Generator.RocketPlanet)
	check(c.Generator.OrbitAltitude >= 0, "generator.orbitAltitude must not be negative, got %v", c.Generator.OrbitAltitude)
	check(positive(c.Rocket.Mass), "rocket.mass must be positive, got %v", c.Rocket.Mass)
	check(c.Rocket.MainThrust >= 0, "rocket.mainThrust must not be negative, got %v", c.Rocket.MainThrust)
	check(c.Rocket.RCSThrust >= 0, "rocket.rcsThrust must not be negative, got %v", c.Rocket.RCSThrust)
	check(c.Rocket.AngularAcceleration >= 0, "rocket.angularAcceleration must not be negative, got %v", c.Rocket.AngularAcceleration)
	check(positive(c.Rocket.ThrottleRate), "rocket.throttleRate must be positive, got %v", c.Rocket.ThrottleRate)
	check(c.Landing.Mode == LandingCanonical || c.Landing.Mode == LandingSurfacePoint,
		"landing.mode must be %q or %q, got %q", LandingCanonical, LandingSurfacePoint, c.Landing.Mode)
	check(c.Observability.SampleRatio >= 0 && c.Observability.SampleRatio <= 1,
		"observability.sampleRatio must be within [0, 1], got %v", c.Observability.SampleRatio)
	check(c.Observability.TracingExporter == "stdout" || c.Observability.TracingExporter == "none",
		"observability.tracingExporter must be stdout or none, got %q", c.Observability.TracingExporter)
	switch c.Frontend.Renderer {
	case RendererTerminal, RendererEngo, RendererNull:
	default:
		check(false, "frontend.renderer must be terminal, engo or null, got %q", c.Frontend.Renderer)
	}
	check(c.Frontend.Width > 0 && c.Frontend.Height > 0,
		"frontend size must be positive, got %dx%d", c.Frontend.Width, c.Frontend.Height)
	check(c.Runtime.MaxGoroutines > 0, "runtime.maxGoroutines must be positive, got %d", c.Runtime.MaxGoroutines)
	check(positive(c.Runtime.ShutdownTimeout), "runtime.shutdownTimeout must be positive, got %v", c.Runtime.ShutdownTimeout)

	return errors.Join(errs...)
}

// Dt returns the simulated seconds advanced by one tick
func (s SimulationConfig) Dt() float64 {
	return s.TimeStep * s.TimeWarp
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
