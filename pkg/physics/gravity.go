// pkg/physics/gravity.go
package physics

import (
	"errors"
	"math"
)

// G is the Newtonian constant of gravitation in m³·kg⁻¹·s⁻² (CODATA 2018).
const G = 6.67430e-11

var (
	// ErrZeroSeparation is returned when two point masses share a position
	ErrZeroSeparation = errors.New("zero separation between massive bodies")
	// ErrNonFinite is returned when a computation produces NaN or ±Inf
	ErrNonFinite = errors.New("non-finite value")
)

// GravitationalAcceleration returns the acceleration a body at pi experiences
// from a mass mj located at pj: G·mj·(pj − pi)/|pj − pi|³.
func GravitationalAcceleration(pi, pj Vector2D, mj float64) (Vector2D, error) {
	rel := pj.Sub(pi)
	distSq := rel.LengthSquared()
	if distSq == 0 {
		return Vector2D{}, ErrZeroSeparation
	}

	dist := math.Sqrt(distSq)
	acc := rel.Scale(G * mj / (distSq * dist))
	if !acc.IsFinite() {
		return Vector2D{}, ErrNonFinite
	}
	return acc, nil
}

// OrbitalSpeed is the circular orbit speed sqrt(G·M/r) at the given radius
func OrbitalSpeed(centralMass, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return math.Sqrt(G * centralMass / radius)
}

// CircularOrbitVelocity returns the velocity for a counter-clockwise circular
// orbit around a mass M, where rel is the position relative to that mass.
func CircularOrbitVelocity(rel Vector2D, centralMass float64) Vector2D {
	return rel.Normalize().Perpendicular().Scale(OrbitalSpeed(centralMass, rel.Length()))
}

// KineticEnergy returns ½·m·|v|²
func KineticEnergy(mass float64, velocity Vector2D) float64 {
	return 0.5 * mass * velocity.LengthSquared()
}

// PotentialEnergy returns the pairwise gravitational potential −G·mi·mj/r.
// Coincident bodies yield -Inf.
func PotentialEnergy(mi, mj float64, pi, pj Vector2D) float64 {
	dist := pi.Distance(pj)
	if dist == 0 {
		return math.Inf(-1)
	}
	return -G * mi * mj / dist
}

// SurfaceVelocity returns the tangential velocity of a point on the surface
// of a body with the given radius spinning at angularVelocity, where
// surfaceAngle locates the point relative to Up.
func SurfaceVelocity(radius, angularVelocity, surfaceAngle float64) Vector2D {
	r := Up.Scale(radius).Rotate(surfaceAngle)
	// ω × r for ω along +z
	return r.Perpendicular().Scale(angularVelocity)
}
