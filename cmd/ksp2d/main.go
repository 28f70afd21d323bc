// cmd/ksp2d/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aminion/ksp2d/pkg/audio"
	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/diagnostics"
	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/event"
	"github.com/Aminion/ksp2d/pkg/generator"
	"github.com/Aminion/ksp2d/pkg/health"
	"github.com/Aminion/ksp2d/pkg/logging"
	"github.com/Aminion/ksp2d/pkg/observability"
	"github.com/Aminion/ksp2d/pkg/render"
	"github.com/Aminion/ksp2d/pkg/resource"
	engoui "github.com/Aminion/ksp2d/pkg/render/engo"
)

// throttlePoll is how often the engine hum follows the rocket throttle
const throttlePoll = 100 * time.Millisecond

type options struct {
	configPath    string
	createDefault bool
	renderer      string
	seed          uint64
	width         int
	height        int
	audio         bool
	metricsAddr   string
}

func parseFlags(args []string) (options, map[string]bool, error) {
	var opts options
	fs := flag.NewFlagSet("ksp2d", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.BoolVar(&opts.createDefault, "default", false, "Write the default configuration to -config and exit")
	fs.StringVar(&opts.renderer, "renderer", config.RendererTerminal, "Frontend: terminal, engo or null")
	fs.Uint64Var(&opts.seed, "seed", 0, "System generator seed")
	fs.IntVar(&opts.width, "width", 0, "Window width in pixels (engo)")
	fs.IntVar(&opts.height, "height", 0, "Window height in pixels (engo)")
	fs.BoolVar(&opts.audio, "audio", false, "Enable engine sounds")
	fs.StringVar(&opts.metricsAddr, "metrics", "", "Address for /metrics and health endpoints, e.g. :9090")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// applyFlags overrides config fields with the flags given on the command line
func applyFlags(cfg *config.Config, opts options, set map[string]bool) error {
	if set["renderer"] {
		cfg.Frontend.Renderer = opts.renderer
	}
	if set["seed"] {
		cfg.Generator.Seed = opts.seed
	}
	if set["width"] {
		cfg.Frontend.Width = opts.width
	}
	if set["height"] {
		cfg.Frontend.Height = opts.height
	}
	if set["audio"] {
		cfg.Frontend.Audio = opts.audio
	}
	if set["metrics"] {
		cfg.Observability.MetricsAddr = opts.metricsAddr
	}
	return cfg.Validate()
}

func main() {
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())
	logger := logging.NewLogger()

	opts, set, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if opts.createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", opts.configPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", opts.configPath)
		return
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", opts.configPath)
		os.Exit(1)
	}
	if err := applyFlags(cfg, opts, set); err != nil {
		logger.Error(ctx, "Invalid command line", err)
		os.Exit(1)
	}

	// the terminal frontend owns stdout, so logs and traces go to a file
	var traceOut io.Writer = os.Stderr
	if cfg.Frontend.Renderer == config.RendererTerminal {
		f, err := os.OpenFile(cfg.Frontend.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Error(ctx, "Failed to open log file", err, "path", cfg.Frontend.LogFile)
			os.Exit(1)
		}
		defer f.Close()
		logger = logging.NewLoggerWithWriter(f, logging.ParseLevel(os.Getenv(logging.LevelEnvVar)))
		traceOut = f
	}

	if err := run(ctx, cfg, logger, traceOut); err != nil {
		logger.Error(ctx, "ksp2d stopped with an error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, traceOut io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability, traceOut, logger)
	if err != nil {
		return logging.WrapError(err, "init tracing")
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	store, err := generator.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	collector, err := observability.NewSimulationCollector(prometheus.NewRegistry())
	if err != nil {
		return logging.WrapError(err, "create metrics collector")
	}
	energy := diagnostics.NewEnergyMonitor(0)
	bus := event.NewEventBus()
	defer collector.SubscribeEvents(bus)()

	sim := engine.NewSimulation(cfg, store,
		engine.WithLogger(logger),
		engine.WithEventBus(bus),
		engine.WithMetricsRecorder(engine.MetricsRecorders{collector, energy}),
	)

	mgr := resource.NewResourceManager(ctx, cfg.Runtime, logger)

	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewSimulationHealthCheck(sim.Halted))
	checker.AddCheck(health.NewProgressHealthCheck(func() uint64 { return sim.Snapshot().Tick }, 10*time.Second))
	checker.AddCheck(health.NewEnergyDriftHealthCheck(energy, 0.05))
	checker.AddCheck(health.NewMemoryHealthCheck(512, nil))
	checker.AddCheck(resource.NewResourceHealthCheck(mgr))
	if srv := observability.ServeMetrics(cfg.Observability.MetricsAddr, collector, logger, checker.Handlers()); srv != nil {
		defer shutdownServer(srv, logger)
	}

	if cfg.Frontend.Audio {
		sound := audio.NewSoundManager()
		if err := sound.Initialize(); err != nil {
			logger.Warn(ctx, "audio disabled", "error", err.Error())
		} else {
			defer sound.Cleanup()
			defer sound.SubscribeEvents(bus)()
			if err := mgr.Go("throttle-follower", func(ctx context.Context) {
				followThrottle(ctx, sim, sound)
			}); err != nil {
				logger.Warn(ctx, "engine hum disabled", "error", err.Error())
			}
		}
	}
	// background goroutines stop before the sound device closes
	defer shutdownManager(mgr, logger)

	sim.Start(ctx)

	switch cfg.Frontend.Renderer {
	case config.RendererEngo:
		engoui.Run(sim, cfg, logger)
	case config.RendererNull:
		err = runNull(ctx, sim, cfg, logger)
	default:
		err = runTerminal(ctx, sim, cfg, mgr, logger)
	}

	logger.Info(ctx, "simulation finished",
		"tick", sim.Snapshot().Tick,
		"energy_drift", energy.Report().String(),
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runNull steps the simulation in real time without input and logs every frame
func runNull(ctx context.Context, sim *engine.Simulation, cfg *config.Config, logger *logging.Logger) error {
	r := render.NewNullRenderer(logger)
	dt := cfg.Simulation.TimeStep
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := sim.Step(ctx, dt, 0); err != nil {
				return err
			}
			render.Frame(r, sim.Snapshot())
		}
	}
}

// followThrottle feeds the strongest engine throttle into the hum volume
func followThrottle(ctx context.Context, sim *engine.Simulation, sound *audio.SoundManager) {
	ticker := time.NewTicker(throttlePoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sound.SetThrottle(maxThrottle(sim.Snapshot()))
		}
	}
}

func maxThrottle(state *engine.State) float64 {
	rs, ok := state.RocketState()
	if !ok || state.Halted {
		return 0
	}
	var m float64
	for _, t := range rs.Throttles {
		m = max(m, t)
	}
	return m
}

func shutdownManager(mgr *resource.ResourceManager, logger *logging.Logger) {
	if err := mgr.Shutdown(context.Background()); err != nil {
		logger.Warn(context.Background(), "background goroutines did not stop", "error", err.Error())
	}
}

func shutdownServer(srv *http.Server, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "metrics server shutdown failed", "error", err.Error())
	}
}
