// cmd/headless/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/diagnostics"
	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/event"
	"github.com/Aminion/ksp2d/pkg/generator"
	"github.com/Aminion/ksp2d/pkg/health"
	"github.com/Aminion/ksp2d/pkg/logging"
	"github.com/Aminion/ksp2d/pkg/observability"
)

func main() {
	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())
	logger := logging.NewLogger()

	configPath := flag.String("config", "", "Path to configuration file")
	ticks := flag.Int("ticks", 10000, "Number of ticks to run")
	dt := flag.Float64("dt", 0, "Wall seconds per tick; 0 uses the configured time step")
	seed := flag.Uint64("seed", 0, "System generator seed; 0 keeps the configured seed")
	sampleEvery := flag.Int("sample", 100, "Ticks between orbit samples")
	metricsAddr := flag.String("metrics", "", "Address for /metrics and health endpoints")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Generator.Seed = *seed
	}
	if *metricsAddr != "" {
		cfg.Observability.MetricsAddr = *metricsAddr
	}
	if *dt <= 0 {
		*dt = cfg.Simulation.TimeStep
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runOptions{ticks: *ticks, dt: *dt, sampleEvery: *sampleEvery}, logger, os.Stdout); err != nil {
		logger.Error(ctx, "headless run failed", err)
		os.Exit(1)
	}
}

type runOptions struct {
	ticks       int
	dt          float64
	sampleEvery int
}

// run simulates without input and writes an energy and orbit report to out
func run(ctx context.Context, cfg *config.Config, opts runOptions, logger *logging.Logger, out io.Writer) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability, os.Stderr, logger)
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

	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewSimulationHealthCheck(sim.Halted))
	if srv := observability.ServeMetrics(cfg.Observability.MetricsAddr, collector, logger, checker.Handlers()); srv != nil {
		defer srv.Close()
	}

	sim.Start(ctx)
	orbits := diagnostics.NewOrbitSampler(primaryID(sim.Snapshot()))
	orbits.Sample(sim.Snapshot())

	start := time.Now()
	sampleEvery := max(opts.sampleEvery, 1)
	var runErr error
	for done := 0; done < opts.ticks; done += sampleEvery {
		n := min(sampleEvery, opts.ticks-done)
		if runErr = sim.Run(ctx, n, opts.dt, engine.NoInput); runErr != nil {
			break
		}
		orbits.Sample(sim.Snapshot())
	}

	state := sim.Snapshot()
	logger.Info(ctx, "headless run finished",
		"ticks", state.Tick,
		"simulated_seconds", state.Elapsed,
		"wall_time", time.Since(start).String(),
		"halted", state.Halted,
	)

	fmt.Fprintf(out, "ticks %d  simulated %.0f s  bodies %d  landed %d\n",
		state.Tick, state.Elapsed, len(state.Bodies), state.LandedCount())
	fmt.Fprintf(out, "energy %s\n", energy.Report())
	for _, o := range orbits.Summaries() {
		fmt.Fprintf(out, "orbit %s\n", o)
	}
	return runErr
}

// primaryID returns the star of a snapshot, or the heaviest body when there is none
func primaryID(state *engine.State) entity.ID {
	var id entity.ID
	heaviest := -1.0
	for _, b := range state.Bodies {
		if b.Celestial && b.Class == entity.Star {
			return b.ID
		}
		if b.Mass > heaviest {
			id, heaviest = b.ID, b.Mass
		}
	}
	return id
}
