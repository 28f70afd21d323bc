// pkg/engine/thrust.go
package engine

import (
	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// ThrustModel turns held intents into engine state and a world-frame force
type ThrustModel struct {
	AngularAcceleration float64 // rad/s² while a rotate intent is held
	ThrottleRate        float64 // throttle fraction per second
}

// NewThrustModel creates a thrust model from the rocket configuration
func NewThrustModel(cfg config.RocketConfig) *ThrustModel {
	return &ThrustModel{
		AngularAcceleration: cfg.AngularAcceleration,
		ThrottleRate:        cfg.ThrottleRate,
	}
}

// Apply updates the rocket's angular velocity and engine throttles for one
// tick and returns the resulting force in world coordinates.
func (t *ThrustModel) Apply(b *entity.Body, intents IntentSet, dt float64) physics.Vector2D {
	if b.Rocket == nil {
		return physics.Vector2D{}
	}

	if intents.Has(RotateRight) {
		b.AngularVelocity -= t.AngularAcceleration * dt
	} else if intents.Has(RotateLeft) {
		b.AngularVelocity += t.AngularAcceleration * dt
	}

	left := b.Rocket.Engine(entity.EngineLeft)
	right := b.Rocket.Engine(entity.EngineRight)
	aft := b.Rocket.Engine(entity.EngineAft)
	fore := b.Rocket.Engine(entity.EngineFore)

	// the left engine pushes the rocket to the right and vice versa
	if intents.Has(StrafeRight) {
		left.Full()
		right.Disable()
	} else {
		left.Disable()
	}
	if intents.Has(StrafeLeft) {
		right.Full()
		left.Disable()
	} else {
		right.Disable()
	}

	if intents.Has(ThrustForward) {
		aft.ChangeThrottle(t.ThrottleRate * dt)
	}
	if intents.Has(CutThrottle) {
		aft.Disable()
	}

	if intents.Has(ThrustBackward) {
		if aft.Throttle > 0 {
			aft.ChangeThrottle(-t.ThrottleRate * dt)
		} else {
			fore.Full()
		}
	} else {
		fore.Disable()
	}

	return b.Rocket.LocalForce().Rotate(b.Angle)
}

// ShouldTakeOff reports whether a force applied to a body resting on host
// lifts it off the surface: the outward component of the thrust acceleration
// must be positive and exceed surface gravity less the centripetal
// acceleration of the spin.
func ShouldTakeOff(b, host *entity.Body, force physics.Vector2D) bool {
	if host.Celestial == nil {
		return true
	}

	radial := b.Position.Sub(host.Position).Normalize()
	if radial == (physics.Vector2D{}) {
		return false
	}

	outward := force.Scale(1 / b.Mass).Dot(radial)
	r := host.Celestial.Radius
	hold := host.Celestial.SurfaceGravity(host.Mass) - host.AngularVelocity*host.AngularVelocity*r
	return outward > 0 && outward > hold
}
