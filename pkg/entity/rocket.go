// pkg/entity/rocket.go
package entity

import (
	"github.com/Aminion/ksp2d/pkg/physics"
)

// EngineSlot identifies one of the rocket's engines
type EngineSlot int

const (
	EngineFore EngineSlot = iota
	EngineAft
	EngineLeft
	EngineRight

	engineCount
)

// String returns the slot name
func (s EngineSlot) String() string {
	switch s {
	case EngineFore:
		return "fore"
	case EngineAft:
		return "aft"
	case EngineLeft:
		return "left"
	case EngineRight:
		return "right"
	default:
		return "unknown"
	}
}

// Engine is a fixed thruster with a throttle in [0, 1]
type Engine struct {
	Thrust   physics.Vector2D // maximum force in the rocket frame, newtons
	Throttle float64
}

// Full opens the throttle completely
func (e *Engine) Full() {
	e.Throttle = 1
}

// Disable closes the throttle
func (e *Engine) Disable() {
	e.Throttle = 0
}

// ChangeThrottle adjusts the throttle by delta, clamped to [0, 1]
func (e *Engine) ChangeThrottle(delta float64) {
	e.Throttle = min(max(e.Throttle+delta, 0), 1)
}

// Force returns the engine's current force in the rocket frame
func (e *Engine) Force() physics.Vector2D {
	return e.Thrust.Scale(e.Throttle)
}

// Rocket is the player-controlled vehicle: four engines in its local frame.
// The aft engine pushes along Up; the side engines push sideways.
type Rocket struct {
	Engines [engineCount]Engine
}

// NewRocket builds a rocket with a main aft engine and three manoeuvring
// engines of rcsThrust newtons each
func NewRocket(mainThrust, rcsThrust float64) *Rocket {
	r := &Rocket{}
	r.Engines[EngineAft].Thrust = physics.Up.Scale(mainThrust)
	r.Engines[EngineFore].Thrust = physics.Up.Scale(-rcsThrust)
	r.Engines[EngineLeft].Thrust = physics.Vector2D{X: rcsThrust}
	r.Engines[EngineRight].Thrust = physics.Vector2D{X: -rcsThrust}
	return r
}

// Engine returns the engine in the given slot
func (r *Rocket) Engine(slot EngineSlot) *Engine {
	return &r.Engines[slot]
}

// LocalForce returns the sum of all engine forces in the rocket frame
func (r *Rocket) LocalForce() physics.Vector2D {
	var f physics.Vector2D
	for i := range r.Engines {
		f = f.Add(r.Engines[i].Force())
	}
	return f
}

// Firing reports whether any engine has a non-zero throttle
func (r *Rocket) Firing() bool {
	for i := range r.Engines {
		if r.Engines[i].Throttle > 0 {
			return true
		}
	}
	return false
}
