package physics

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// NormalizeAngle maps any finite angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// a tiny negative input can round up to exactly 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}

// SurfaceAngle returns the angle θ for which Up.Rotate(θ) points along direction.
// The zero vector yields 0, the canonical top of a body.
func SurfaceAngle(direction Vector2D) float64 {
	if direction.X == 0 && direction.Y == 0 {
		return 0
	}
	return NormalizeAngle(math.Atan2(-direction.X, direction.Y))
}
