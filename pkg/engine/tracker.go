// pkg/engine/tracker.go
package engine

import (
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// FlightInfo summarizes the rocket's motion relative to its closest body
type FlightInfo struct {
	Speed         float64 // m/s, world frame
	RelativeSpeed float64 // m/s, relative to the closest body
	Altitude      float64 // m above the closest body's surface
	ClosestID     entity.ID
	ClosestName   string
}

// Track refreshes the ClosestLink of every mobile body. Ties keep the
// celestial body that comes first in store order. With no celestial body
// the links are cleared and ErrNoCelestialBody is returned.
func Track(store *entity.Store) error {
	celestials := store.Celestials()
	mobiles := store.Mobiles()

	if len(celestials) == 0 {
		for _, m := range mobiles {
			m.Closest = nil
		}
		if len(mobiles) == 0 {
			return nil
		}
		return ErrNoCelestialBody
	}

	for _, m := range mobiles {
		closest := celestials[0]
		best := m.Position.DistanceSquared(closest.Position)
		for _, c := range celestials[1:] {
			if d := m.Position.DistanceSquared(c.Position); d < best {
				closest, best = c, d
			}
		}
		m.Closest = link(m, closest, best)
	}
	return nil
}

func link(m, c *entity.Body, distSq float64) *entity.ClosestLink {
	local := physics.NormalizeAngle(physics.SurfaceAngle(m.Position.Sub(c.Position)) - c.Angle)
	return &entity.ClosestLink{
		CelestialID:     c.GetID(),
		SurfacePoint:    c.Celestial.SurfacePoint(c.Position, c.Angle, local),
		SurfaceAngle:    local,
		DistanceSquared: distSq,
	}
}

// ComputeFlightInfo derives flight information for a tracked body.
// It reports false when the body has no closest link.
func ComputeFlightInfo(store *entity.Store, b *entity.Body) (FlightInfo, bool) {
	info := FlightInfo{Speed: b.Velocity.Length()}
	if b.Closest == nil {
		return info, false
	}

	c, ok := store.Get(b.Closest.CelestialID)
	if !ok || c.Celestial == nil {
		return info, false
	}

	info.ClosestID = c.GetID()
	info.ClosestName = c.Celestial.Name
	info.RelativeSpeed = b.Velocity.Sub(c.Velocity).Length()
	info.Altitude = b.Position.Distance(c.Position) - c.Celestial.Radius
	return info, true
}
