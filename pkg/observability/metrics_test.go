// pkg/observability/metrics_test.go
package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/event"
	"github.com/Aminion/ksp2d/pkg/physics"
)

func TestObserveTickRecordsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	collector.ObserveTick(engine.TickStats{Tick: 1, Duration: time.Millisecond, Bodies: 5, Landed: 1, Energy: -42, TimeWarp: 10})
	collector.ObserveTick(engine.TickStats{Tick: 2, Duration: time.Millisecond, Bodies: 4, Landed: 0, Energy: -41, TimeWarp: 10})

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"ticks", collector.Ticks, 2},
		{"bodies", collector.Bodies, 4},
		{"landed", collector.LandedBodies, 0},
		{"energy", collector.TotalEnergy, -41},
		{"warp", collector.TimeWarp, 10},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(collector.TickDuration); n != 1 {
		t.Errorf("tick duration series = %d, want 1", n)
	}
}

func TestSubscribeEventsCountsByType(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}
	bus := event.NewEventBus()
	unsubscribe := collector.SubscribeEvents(bus)

	bus.Publish(event.NewBodyEvent(event.BodyLanded, nil, 1, 2, 3))
	bus.Publish(event.NewBodyEvent(event.BodyLanded, nil, 5, 2, 3))
	bus.Publish(event.NewBodyEvent(event.BodyTookOff, nil, 4, 2, 3))
	bus.Publish(event.NewTickEvent(event.SimulationStarted, nil, 0))

	if got := testutil.ToFloat64(collector.Events.WithLabelValues("body_landed")); got != 2 {
		t.Errorf("body_landed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Events.WithLabelValues("body_took_off")); got != 1 {
		t.Errorf("body_took_off = %v, want 1", got)
	}

	unsubscribe()
	bus.Publish(event.NewBodyEvent(event.BodyLanded, nil, 6, 2, 3))
	if got := testutil.ToFloat64(collector.Events.WithLabelValues("body_landed")); got != 2 {
		t.Errorf("body_landed after unsubscribe = %v, want 2", got)
	}
}

func TestNewSimulationCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("first NewSimulationCollector: %v", err)
	}
	second, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimulationCollector: %v", err)
	}

	first.Ticks.Inc()
	if got := testutil.ToFloat64(second.Ticks); got != 1 {
		t.Errorf("second collector does not share ticks counter: %v", got)
	}
}

func TestMetricsHandlerExposesSimulation(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	planet := entity.NewCelestial(
		entity.MassiveBody{Mass: 1e24},
		entity.CelestialBody{Class: entity.Planet, Name: "p", Radius: 1e6},
	)
	store := entity.NewStore()
	if err := store.Add(planet); err != nil {
		t.Fatal(err)
	}
	rocket := entity.NewRocketBody(entity.MassiveBody{Mass: 1000, Position: physics.Vector2D{Y: 1e7}}, entity.NewRocket(1, 1))
	if err := store.Add(rocket); err != nil {
		t.Fatal(err)
	}

	sim := engine.NewSimulation(config.DefaultConfig(), store, engine.WithMetricsRecorder(collector))
	collector.SubscribeEvents(sim.EventBus)
	if err := sim.Run(context.Background(), 3, 1, nil); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		"ksp2d_ticks_total 3",
		"ksp2d_bodies 2",
		"ksp2d_tick_duration_seconds_count 3",
		"ksp2d_total_energy_joules",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServeMetricsWithoutAddress(t *testing.T) {
	collector, err := NewSimulationCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if srv := ServeMetrics("", collector, nil, nil); srv != nil {
		t.Error("ServeMetrics started a server without an address")
	}
}
