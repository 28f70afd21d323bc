// pkg/observability/metrics.go
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/event"
	"github.com/Aminion/ksp2d/pkg/logging"
)

// countedEvents are the bus events tallied by ksp2d_events_total
var countedEvents = []event.Type{
	event.BodyLanded,
	event.BodyTookOff,
	event.TrackerEmpty,
	event.LandingDropped,
	event.SimulationHalted,
}

// SimulationCollector bundles Prometheus metrics for the simulation loop.
// It implements engine.MetricsRecorder.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	Bodies       prometheus.Gauge
	LandedBodies prometheus.Gauge
	TotalEnergy  prometheus.Gauge
	TimeWarp     prometheus.Gauge
	Events       *prometheus.CounterVec
}

// NewSimulationCollector registers simulation metrics against reg,
// defaulting to the global Prometheus registry when nil
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ksp2d_ticks_total",
		Help: "Total number of simulation ticks advanced.",
	}), "ksp2d_ticks_total")
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ksp2d_tick_duration_seconds",
		Help:    "Wall time spent computing one tick.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}), "ksp2d_tick_duration_seconds")
	if err != nil {
		return nil, err
	}
	bodies, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ksp2d_bodies",
		Help: "Current number of bodies in the store.",
	}), "ksp2d_bodies")
	if err != nil {
		return nil, err
	}
	landed, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ksp2d_landed_bodies",
		Help: "Current number of bodies resting on a surface.",
	}), "ksp2d_landed_bodies")
	if err != nil {
		return nil, err
	}
	energy, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ksp2d_total_energy_joules",
		Help: "Total kinetic plus potential energy of the system.",
	}), "ksp2d_total_energy_joules")
	if err != nil {
		return nil, err
	}
	warp, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ksp2d_time_warp",
		Help: "Simulated seconds per wall second.",
	}), "ksp2d_time_warp")
	if err != nil {
		return nil, err
	}
	events, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ksp2d_events_total",
		Help: "Simulation events published on the bus, labeled by type.",
	}, []string{"type"}), "ksp2d_events_total")
	if err != nil {
		return nil, err
	}

	return &SimulationCollector{
		gatherer:     gatherer,
		Ticks:        ticks,
		TickDuration: duration,
		Bodies:       bodies,
		LandedBodies: landed,
		TotalEnergy:  energy,
		TimeWarp:     warp,
		Events:       events,
	}, nil
}

// ObserveTick satisfies engine.MetricsRecorder
func (c *SimulationCollector) ObserveTick(stats engine.TickStats) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.TickDuration.Observe(stats.Duration.Seconds())
	c.Bodies.Set(float64(stats.Bodies))
	c.LandedBodies.Set(float64(stats.Landed))
	c.TotalEnergy.Set(stats.Energy)
	c.TimeWarp.Set(stats.TimeWarp)
}

// SubscribeEvents counts landing, take-off, lookup and halt events from bus.
// The returned function removes the subscriptions.
func (c *SimulationCollector) SubscribeEvents(bus *event.Bus) func() {
	subs := make([]event.Subscription, 0, len(countedEvents))
	for _, typ := range countedEvents {
		counter := c.Events.WithLabelValues(string(typ))
		subs = append(subs, bus.Subscribe(typ, func(event.Event) {
			counter.Inc()
		}))
	}
	return func() {
		for _, sub := range subs {
			bus.Unsubscribe(sub)
		}
	}
}

// Handler exposes a ready-to-use /metrics handler
func (c *SimulationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ServeMetrics starts an HTTP server exposing /metrics (and any extra
// handlers) on addr. It returns nil when addr is empty.
func ServeMetrics(addr string, collector *SimulationCollector, log *logging.Logger, extra map[string]http.Handler) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	for path, h := range extra {
		mux.Handle(path, h)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(context.Background(), "metrics server exited", "error", err.Error())
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", "addr", addr)
	return srv
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, name string) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return c, err
	}
	return c, nil
}
