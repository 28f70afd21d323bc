// pkg/engine/landing.go
package engine

import (
	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// DetectLandings moves flying mobile bodies that touch their tracked body's
// surface into the landed state and returns them. A body moving away from
// the centre is leaving the surface and does not land; a celestial body of
// zero radius has no surface to land on.
func DetectLandings(store *entity.Store, mode string) []*entity.Body {
	var landed []*entity.Body
	for _, b := range store.Mobiles() {
		if b.Landing != nil || b.Closest == nil {
			continue
		}

		c, ok := store.Get(b.Closest.CelestialID)
		if !ok || c.Celestial == nil || c.Celestial.Radius == 0 {
			continue
		}
		if !physics.PointInCircle(b.Position, c.Position, c.Celestial.Radius) {
			continue
		}

		rel := b.Position.Sub(c.Position)
		if b.Velocity.Sub(c.Velocity).Dot(rel) > 0 {
			continue
		}

		relation := &entity.LandingRelation{CelestialID: c.GetID()}
		if mode == config.LandingSurfacePoint {
			relation.Offset = b.Closest.SurfaceAngle
			relation.HasOffset = true
		}
		b.Landing = relation
		landed = append(landed, b)
	}
	return landed
}
