package engine

import (
	"math"
	"testing"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/event"
	"github.com/Aminion/ksp2d/pkg/physics"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func newPlanet(name string, mass, radius float64, pos physics.Vector2D) *entity.Body {
	return entity.NewCelestial(
		entity.MassiveBody{Mass: mass, Position: pos},
		entity.CelestialBody{Class: entity.Planet, Name: name, Radius: radius},
	)
}

func newRocket(pos physics.Vector2D, mainThrust float64) *entity.Body {
	return entity.NewRocketBody(
		entity.MassiveBody{Mass: 1000, Position: pos},
		entity.NewRocket(mainThrust, mainThrust/10),
	)
}

func newStore(t *testing.T, bodies ...*entity.Body) *entity.Store {
	t.Helper()
	store := entity.NewStore()
	for _, b := range bodies {
		if err := store.Add(b); err != nil {
			t.Fatalf("Add() = %v", err)
		}
	}
	return store
}

func testConfig(mode string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Simulation.TimeWarp = 1
	cfg.Landing.Mode = mode
	cfg.Rocket.ThrottleRate = 1
	cfg.Rocket.AngularAcceleration = 0.5
	return cfg
}

type eventLog struct {
	events []event.Event
}

func (l *eventLog) record(e event.Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) count(t event.Type) int {
	n := 0
	for _, e := range l.events {
		if e.GetType() == t {
			n++
		}
	}
	return n
}

func newTestSim(t *testing.T, mode string, bodies ...*entity.Body) (*Simulation, *eventLog) {
	t.Helper()
	bus := event.NewEventBus()
	log := &eventLog{}
	for _, typ := range []event.Type{
		event.BodyLanded, event.BodyTookOff, event.TrackerEmpty,
		event.LandingDropped, event.SimulationStarted, event.SimulationHalted,
	} {
		bus.Subscribe(typ, log.record)
	}
	sim := NewSimulation(testConfig(mode), newStore(t, bodies...), WithEventBus(bus))
	return sim, log
}
