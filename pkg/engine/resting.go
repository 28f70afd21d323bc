// pkg/engine/resting.go
package engine

import (
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// ApplyResting glues every landed body to its host's rotating surface,
// overriding the integrator. Relations whose host has vanished are dropped
// and the affected bodies returned.
func ApplyResting(store *entity.Store) []*entity.Body {
	var dropped []*entity.Body
	for _, b := range store.Landed() {
		host, ok := store.Get(b.Landing.CelestialID)
		if !ok || host.Celestial == nil {
			b.Landing = nil
			dropped = append(dropped, b)
			continue
		}
		Rest(b, host)
	}
	return dropped
}

// Rest places b on host's surface according to its landing relation.
// Without a recorded offset the body sits on the canonical top point and
// counter-rotates to stay upright; with one it turns with the surface.
func Rest(b, host *entity.Body) {
	surface := host.Angle
	if b.Landing.HasOffset {
		surface += b.Landing.Offset
	}
	r := host.Celestial.Radius

	b.Position = host.Position.Add(physics.Up.Scale(r).Rotate(surface))
	b.Velocity = host.Velocity.Add(physics.SurfaceVelocity(r, host.AngularVelocity, surface))
	b.Acceleration = physics.Vector2D{}

	if b.Landing.HasOffset {
		b.Angle = physics.NormalizeAngle(surface)
		b.AngularVelocity = host.AngularVelocity
	} else {
		b.Angle = physics.NormalizeAngle(-host.Angle)
		b.AngularVelocity = -host.AngularVelocity
	}
}
