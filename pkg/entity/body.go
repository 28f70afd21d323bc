// pkg/entity/body.go
package entity

import (
	"github.com/EngoEngine/ecs"

	"github.com/Aminion/ksp2d/pkg/physics"
)

// ID is a unique identifier for a body
type ID uint64

// MassiveBody is the kinematic core shared by every body in the system
type MassiveBody struct {
	Mass            float64
	Position        physics.Vector2D
	Velocity        physics.Vector2D
	Acceleration    physics.Vector2D
	Angle           float64 // radians, kept in [0, 2π)
	AngularVelocity float64 // radians per second, positive is counter-clockwise
}

// AdvanceAngle integrates the angular velocity over dt and renormalizes the angle
func (m *MassiveBody) AdvanceAngle(dt float64) {
	m.Angle = physics.NormalizeAngle(m.Angle + m.AngularVelocity*dt)
}

// Heading returns the body's local up direction in world coordinates
func (m *MassiveBody) Heading() physics.Vector2D {
	return physics.Up.Rotate(m.Angle)
}

// Body composes the kinematic core with optional role components.
// A body with a CelestialBody is a star or planet; a body without one is mobile.
type Body struct {
	ecs.BasicEntity
	*MassiveBody

	Celestial *CelestialBody
	Rocket    *Rocket
	Closest   *ClosestLink
	Landing   *LandingRelation
}

// NewBody allocates a body with a fresh id around the given kinematic state
func NewBody(core MassiveBody) *Body {
	return &Body{
		BasicEntity: ecs.NewBasic(),
		MassiveBody: &core,
	}
}

// NewCelestial creates a star or planet body
func NewCelestial(core MassiveBody, celestial CelestialBody) *Body {
	b := NewBody(core)
	b.Celestial = &celestial
	return b
}

// NewRocketBody creates the player-controlled rocket body
func NewRocketBody(core MassiveBody, rocket *Rocket) *Body {
	b := NewBody(core)
	b.Rocket = rocket
	return b
}

// GetID returns the body's unique identifier
func (b *Body) GetID() ID {
	return ID(b.BasicEntity.ID())
}

// IsCelestial reports whether the body is a star or planet
func (b *Body) IsCelestial() bool {
	return b.Celestial != nil
}

// IsRocket reports whether the body is the controllable rocket
func (b *Body) IsRocket() bool {
	return b.Rocket != nil
}

// IsMobile reports whether the body is subject to tracking and landing
func (b *Body) IsMobile() bool {
	return b.Celestial == nil
}

// IsLanded reports whether the body is resting on a celestial body
func (b *Body) IsLanded() bool {
	return b.Landing != nil
}

// Collider returns the body's collision shape; mobile bodies are points
func (b *Body) Collider() physics.Circle {
	c := physics.Circle{Center: b.Position}
	if b.Celestial != nil {
		c.Radius = b.Celestial.Radius
	}
	return c
}
