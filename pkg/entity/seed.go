package entity

import (
	"fmt"

	"github.com/Aminion/ksp2d/pkg/physics"
)

// Spawn describes one body produced at startup
type Spawn struct {
	Body      MassiveBody
	Celestial *CelestialBody
	Rocket    *Rocket

	// LandedOn names a celestial spawn earlier in the list the body starts resting on.
	LandedOn string
	// SurfaceAngle is the planet-local landing angle used when LandedOn is set.
	SurfaceAngle float64
}

// Seed builds a validated store from the generator output
func Seed(spawns []Spawn) (*Store, error) {
	store := NewStore()
	byName := make(map[string]ID)

	for i, sp := range spawns {
		b := NewBody(sp.Body)
		if sp.Celestial != nil {
			c := *sp.Celestial
			b.Celestial = &c
		}
		b.Rocket = sp.Rocket

		if sp.LandedOn != "" {
			target, ok := byName[sp.LandedOn]
			if !ok {
				return nil, invalid(b.GetID(), "landed_on", sp.LandedOn, "unknown celestial body")
			}
			b.Landing = &LandingRelation{
				CelestialID: target,
				Offset:      physics.NormalizeAngle(sp.SurfaceAngle),
				HasOffset:   true,
			}
		}

		if err := store.Add(b); err != nil {
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}
		if b.Celestial != nil && b.Celestial.Name != "" {
			byName[b.Celestial.Name] = b.GetID()
		}
	}
	return store, nil
}
