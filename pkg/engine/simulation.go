// pkg/engine/simulation.go
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/event"
	"github.com/Aminion/ksp2d/pkg/logging"
	"github.com/Aminion/ksp2d/pkg/physics"
)

const tracerName = "github.com/Aminion/ksp2d/pkg/engine"

// TickStats carries per-tick measurements for a metrics recorder
type TickStats struct {
	Tick     uint64
	Duration time.Duration
	Bodies   int
	Landed   int
	Energy   float64
	TimeWarp float64
}

// MetricsRecorder receives tick measurements from the simulation
type MetricsRecorder interface {
	ObserveTick(stats TickStats)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTick(TickStats) {}

// MetricsRecorders fans each tick out to several recorders in order
type MetricsRecorders []MetricsRecorder

// ObserveTick implements MetricsRecorder
func (m MetricsRecorders) ObserveTick(stats TickStats) {
	for _, r := range m {
		if r != nil {
			r.ObserveTick(stats)
		}
	}
}

// Option customises Simulation construction
type Option func(*Simulation)

// WithLogger sets the simulation logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.Logger = l
		}
	}
}

// WithEventBus sets the bus landing and halt events are published on
func WithEventBus(b *event.Bus) Option {
	return func(s *Simulation) {
		if b != nil {
			s.EventBus = b
		}
	}
}

// WithMetricsRecorder sets the recorder fed after every tick
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Simulation) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracerProvider overrides the global tracer provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Simulation) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// Simulation owns the body store and advances it one tick at a time.
// Step is meant to be called from a single driver goroutine; the lock only
// keeps Snapshot readers consistent with it.
type Simulation struct {
	Config      *config.Config
	Store       *entity.Store
	EventBus    *event.Bus
	Logger      *logging.Logger
	StateLock   sync.RWMutex
	CurrentTick uint64
	ElapsedTime float64 // simulated seconds

	timeWarp   float64
	integrator *Integrator
	thrust     *ThrustModel
	metrics    MetricsRecorder
	tracer     trace.Tracer
	halted     error
	flight     FlightInfo
	hasFlight  bool
	forces     map[entity.ID]physics.Vector2D
}

// NewSimulation creates a simulation over a seeded store
func NewSimulation(cfg *config.Config, store *entity.Store, opts ...Option) *Simulation {
	s := &Simulation{
		Config:     cfg,
		Store:      store,
		EventBus:   event.NewEventBus(),
		Logger:     logging.NewDiscardLogger(),
		timeWarp:   cfg.Simulation.TimeWarp,
		integrator: NewIntegrator(),
		thrust:     NewThrustModel(cfg.Rocket),
		metrics:    nopRecorder{},
		tracer:     otel.Tracer(tracerName),
		forces:     make(map[entity.ID]physics.Vector2D),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start places resting bodies on their surfaces, refreshes the tracker and
// announces the run
func (s *Simulation) Start(ctx context.Context) {
	s.StateLock.Lock()
	defer s.StateLock.Unlock()

	ApplyResting(s.Store)
	if err := Track(s.Store); err != nil {
		s.Logger.Debug(ctx, "tracker found no celestial body at start")
	}
	s.refreshFlightInfo()

	s.Logger.Info(ctx, "simulation started",
		"bodies", s.Store.Len(),
		"celestials", len(s.Store.Celestials()),
		"landing_mode", s.Config.Landing.Mode,
		"time_warp", s.timeWarp,
	)
	s.EventBus.Publish(event.NewTickEvent(event.SimulationStarted, s, s.CurrentTick))
}

// Step advances the simulation by dt wall seconds, scaled by the time warp.
// Phases run in order: thrust and take-off, gravity, tracker, landing, resting.
// A numerical failure halts the simulation; every later Step returns ErrHalted.
func (s *Simulation) Step(ctx context.Context, dt float64, intents IntentSet) error {
	s.StateLock.Lock()
	defer s.StateLock.Unlock()

	if s.halted != nil {
		return fmt.Errorf("%w: %w", ErrHalted, s.halted)
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}
	if dt == 0 {
		return nil
	}

	start := time.Now()
	simDt := dt * s.timeWarp
	tick := s.CurrentTick

	ctx, span := s.tracer.Start(ctx, "simulation.step", trace.WithAttributes(
		attribute.Int64("tick", int64(tick)),
		attribute.Float64("dt", simDt),
		attribute.String("intents", intents.String()),
	))
	defer span.End()

	s.phase(ctx, "thrust", func(ctx context.Context) error {
		s.applyThrust(ctx, intents, simDt)
		return nil
	})

	err := s.phase(ctx, "gravity", func(context.Context) error {
		return s.integrator.Step(tick, s.Store.Bodies(), s.forces, simDt)
	})
	if err != nil {
		s.halt(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "numerical failure")
		return err
	}

	lookupErr := s.phase(ctx, "tracker", func(context.Context) error {
		return Track(s.Store)
	})
	if lookupErr != nil {
		s.Logger.Debug(ctx, "skipping landing detection", "tick", tick, "reason", lookupErr.Error())
		s.EventBus.Publish(event.NewTickEvent(event.TrackerEmpty, s, tick))
	} else {
		s.phase(ctx, "landing", func(ctx context.Context) error {
			s.detectLandings(ctx, tick)
			return nil
		})
	}

	s.phase(ctx, "resting", func(ctx context.Context) error {
		s.rest(ctx, tick)
		return nil
	})

	s.CurrentTick++
	s.ElapsedTime += simDt
	s.refreshFlightInfo()

	energy := TotalEnergy(s.Store.Bodies())
	span.SetAttributes(attribute.Float64("energy", energy))
	s.metrics.ObserveTick(TickStats{
		Tick:     s.CurrentTick,
		Duration: time.Since(start),
		Bodies:   s.Store.Len(),
		Landed:   len(s.Store.Landed()),
		Energy:   energy,
		TimeWarp: s.timeWarp,
	})
	return nil
}

// Run steps the simulation ticks times with a fixed dt, reading intents
// from source before every tick
func (s *Simulation) Run(ctx context.Context, ticks int, dt float64, source IntentSource) error {
	if source == nil {
		source = NoInput
	}
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx, dt, source.Intents()); err != nil {
			return logging.WrapError(err, "run stopped after %d ticks", i)
		}
	}
	return nil
}

func (s *Simulation) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "simulation.phase."+name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *Simulation) applyThrust(ctx context.Context, intents IntentSet, dt float64) {
	clear(s.forces)

	rocket, ok := s.Store.Rocket()
	if !ok {
		return
	}

	force := s.thrust.Apply(rocket, intents, dt)
	if rocket.Landing != nil {
		host, ok := s.Store.Get(rocket.Landing.CelestialID)
		if !ok || !ShouldTakeOff(rocket, host, force) {
			// a vanished host is dropped by the resting phase
			return
		}
		rocket.Landing = nil
		s.Logger.Info(ctx, "body took off", "body_id", rocket.GetID(), "celestial_id", host.GetID())
		s.EventBus.Publish(event.NewBodyEvent(event.BodyTookOff, s, s.CurrentTick,
			uint64(rocket.GetID()), uint64(host.GetID())))
	}

	if force != (physics.Vector2D{}) {
		s.forces[rocket.GetID()] = force
	}
}

func (s *Simulation) detectLandings(ctx context.Context, tick uint64) {
	for _, b := range DetectLandings(s.Store, s.Config.Landing.Mode) {
		s.Logger.Info(ctx, "body landed",
			"body_id", b.GetID(),
			"celestial_id", b.Landing.CelestialID,
			"offset", b.Landing.Offset,
			"tick", tick,
		)
		s.EventBus.Publish(event.NewBodyEvent(event.BodyLanded, s, tick,
			uint64(b.GetID()), uint64(b.Landing.CelestialID)))
	}
}

func (s *Simulation) rest(ctx context.Context, tick uint64) {
	for _, b := range ApplyResting(s.Store) {
		s.Logger.Warn(ctx, "landing relation dropped: celestial body vanished", "body_id", b.GetID(), "tick", tick)
		s.EventBus.Publish(event.NewBodyEvent(event.LandingDropped, s, tick, uint64(b.GetID()), 0))
	}
}

func (s *Simulation) halt(ctx context.Context, err error) {
	s.halted = err
	s.Logger.Error(ctx, "simulation halted", err, "tick", s.CurrentTick)
	s.EventBus.Publish(event.NewHaltEvent(s, s.CurrentTick, err))
}

func (s *Simulation) refreshFlightInfo() {
	s.flight, s.hasFlight = FlightInfo{}, false
	if rocket, ok := s.Store.Rocket(); ok {
		s.flight, s.hasFlight = ComputeFlightInfo(s.Store, rocket)
	}
}

// Halted returns the error that stopped the simulation, or nil
func (s *Simulation) Halted() error {
	s.StateLock.RLock()
	defer s.StateLock.RUnlock()
	return s.halted
}

// TimeWarp returns the current time warp factor
func (s *Simulation) TimeWarp() float64 {
	s.StateLock.RLock()
	defer s.StateLock.RUnlock()
	return s.timeWarp
}

// SetTimeWarp changes the factor applied to every tick's dt
func (s *Simulation) SetTimeWarp(w float64) error {
	if !(w > 0) || math.IsInf(w, 0) {
		return fmt.Errorf("time warp must be positive and finite, got %v", w)
	}
	s.StateLock.Lock()
	defer s.StateLock.Unlock()
	s.timeWarp = w
	return nil
}

// Snapshot returns a copy of the current state for rendering
func (s *Simulation) Snapshot() *State {
	s.StateLock.RLock()
	defer s.StateLock.RUnlock()

	bodies := s.Store.Bodies()
	state := &State{
		Tick:      s.CurrentTick,
		Elapsed:   s.ElapsedTime,
		TimeWarp:  s.timeWarp,
		Energy:    TotalEnergy(bodies),
		Halted:    s.halted != nil,
		Bodies:    make([]BodyState, 0, len(bodies)),
		Flight:    s.flight,
		HasFlight: s.hasFlight,
	}
	for _, b := range bodies {
		state.Bodies = append(state.Bodies, snapshotBody(b))
	}
	return state
}
