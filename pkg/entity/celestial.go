// pkg/entity/celestial.go
package entity

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Aminion/ksp2d/pkg/physics"
)

// CelestialClass defines the kind of celestial body
type CelestialClass int

const (
	Star CelestialClass = iota
	Planet
)

// String returns the class name used in logs and the HUD
func (c CelestialClass) String() string {
	switch c {
	case Star:
		return "star"
	case Planet:
		return "planet"
	default:
		return "unknown"
	}
}

// CelestialBody marks a body as a star or planet with a solid surface
type CelestialBody struct {
	Class  CelestialClass
	Name   string
	Radius float64
	Color  colorful.Color
}

// SurfacePoint returns the world position of the surface point at a
// planet-local surface angle for a body at center rotated by angle
func (c *CelestialBody) SurfacePoint(center physics.Vector2D, angle, surfaceAngle float64) physics.Vector2D {
	return center.Add(physics.Up.Scale(c.Radius).Rotate(angle + surfaceAngle))
}

// SurfaceGravity returns G·M/R² for a body of the given mass
func (c *CelestialBody) SurfaceGravity(mass float64) float64 {
	if c.Radius == 0 {
		return 0
	}
	return physics.G * mass / (c.Radius * c.Radius)
}

// ClosestLink is the tracker's per-tick association between a mobile body
// and its nearest celestial body
type ClosestLink struct {
	CelestialID     ID
	SurfacePoint    physics.Vector2D // world coordinates
	SurfaceAngle    float64          // relative to the celestial body's own rotation
	DistanceSquared float64          // to the celestial body's centre
}

// LandingRelation attaches a mobile body to the surface of a celestial body.
// Offset is the planet-local surface angle and is meaningful only when HasOffset is set;
// otherwise the body rests on the canonical top point.
type LandingRelation struct {
	CelestialID ID
	Offset      float64
	HasOffset   bool
}
