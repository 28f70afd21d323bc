// pkg/engine/state.go
package engine

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// State represents a read-only snapshot of the simulation for renderers
type State struct {
	Tick      uint64
	Elapsed   float64 // simulated seconds
	TimeWarp  float64
	Energy    float64
	Halted    bool
	Bodies    []BodyState
	Flight    FlightInfo
	HasFlight bool
}

// BodyState represents a snapshot of one body
type BodyState struct {
	ID        entity.ID
	Name      string
	Class     entity.CelestialClass
	Celestial bool
	Rocket    bool
	Landed    bool
	Mass      float64
	Radius    float64
	Position  physics.Vector2D
	Velocity  physics.Vector2D
	Angle     float64
	Color     colorful.Color
	Throttles [4]float64 // per engine slot, rocket only
}

// RocketState returns the rocket's snapshot, if the system has one
func (s *State) RocketState() (BodyState, bool) {
	for _, b := range s.Bodies {
		if b.Rocket {
			return b, true
		}
	}
	return BodyState{}, false
}

// LandedCount returns the number of bodies resting on a surface
func (s *State) LandedCount() int {
	n := 0
	for _, b := range s.Bodies {
		if b.Landed {
			n++
		}
	}
	return n
}

func snapshotBody(b *entity.Body) BodyState {
	bs := BodyState{
		ID:        b.GetID(),
		Celestial: b.IsCelestial(),
		Rocket:    b.IsRocket(),
		Landed:    b.IsLanded(),
		Mass:      b.Mass,
		Position:  b.Position,
		Velocity:  b.Velocity,
		Angle:     b.Angle,
	}
	if c := b.Celestial; c != nil {
		bs.Name = c.Name
		bs.Class = c.Class
		bs.Radius = c.Radius
		bs.Color = c.Color
	}
	if r := b.Rocket; r != nil {
		bs.Name = "rocket"
		for i := range r.Engines {
			bs.Throttles[i] = r.Engines[i].Throttle
		}
	}
	return bs
}
