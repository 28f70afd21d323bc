// pkg/entity/store.go
package entity

import (
	"fmt"
	"math"

	"github.com/Aminion/ksp2d/pkg/physics"
)

// Store holds every body of the simulation in insertion order.
// Iteration order is stable so that sums and tie-breaks are reproducible.
type Store struct {
	bodies []*Body
	index  map[ID]int
	rocket *Body
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		index: make(map[ID]int),
	}
}

// Add validates a body and appends it to the store
func (s *Store) Add(b *Body) error {
	if err := s.validate(b); err != nil {
		return err
	}

	b.Angle = physics.NormalizeAngle(b.Angle)
	s.index[b.GetID()] = len(s.bodies)
	s.bodies = append(s.bodies, b)
	if b.IsRocket() {
		s.rocket = b
	}
	return nil
}

func (s *Store) validate(b *Body) error {
	if b == nil || b.MassiveBody == nil {
		return invalid(0, "body", nil, "missing kinematic state")
	}
	id := b.GetID()

	if _, exists := s.index[id]; exists {
		return invalid(id, "id", id, "duplicate id")
	}
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return invalid(id, "mass", b.Mass, "must be positive and finite")
	}
	if !b.Position.IsFinite() {
		return invalid(id, "position", b.Position, "must be finite")
	}
	if !b.Velocity.IsFinite() {
		return invalid(id, "velocity", b.Velocity, "must be finite")
	}
	if !isFinite(b.Angle) {
		return invalid(id, "angle", b.Angle, "must be finite")
	}
	if !isFinite(b.AngularVelocity) {
		return invalid(id, "angular_velocity", b.AngularVelocity, "must be finite")
	}

	if b.Celestial != nil {
		if !(b.Celestial.Radius >= 0) || math.IsInf(b.Celestial.Radius, 0) {
			return invalid(id, "radius", b.Celestial.Radius, "must be non-negative and finite")
		}
		if b.Rocket != nil {
			return invalid(id, "rocket", b.Celestial.Name, "a celestial body cannot be a rocket")
		}
		if b.Landing != nil {
			return invalid(id, "landing", b.Landing.CelestialID, "a celestial body cannot land")
		}
	}

	if b.Rocket != nil && s.rocket != nil {
		return invalid(id, "rocket", s.rocket.GetID(), "store already has a rocket")
	}

	if b.Landing != nil {
		target, ok := s.Get(b.Landing.CelestialID)
		if !ok || !target.IsCelestial() {
			return invalid(id, "landing", b.Landing.CelestialID, "must reference a celestial body already in the store")
		}
	}
	return nil
}

// Remove deletes a body by id, preserving the order of the rest
func (s *Store) Remove(id ID) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("body %d not found", id)
	}

	if s.rocket != nil && s.rocket.GetID() == id {
		s.rocket = nil
	}
	s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.bodies); j++ {
		s.index[s.bodies[j].GetID()] = j
	}
	return nil
}

// Get returns the body with the given id
func (s *Store) Get(id ID) (*Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

// Bodies returns all bodies in insertion order. The slice must not be modified.
func (s *Store) Bodies() []*Body {
	return s.bodies
}

// Celestials returns the stars and planets in insertion order
func (s *Store) Celestials() []*Body {
	return s.filter((*Body).IsCelestial)
}

// Mobiles returns the non-celestial bodies in insertion order
func (s *Store) Mobiles() []*Body {
	return s.filter((*Body).IsMobile)
}

// Landed returns the bodies currently resting on a celestial body
func (s *Store) Landed() []*Body {
	return s.filter((*Body).IsLanded)
}

// Rocket returns the rocket body, if any
func (s *Store) Rocket() (*Body, bool) {
	return s.rocket, s.rocket != nil
}

// Len returns the number of bodies
func (s *Store) Len() int {
	return len(s.bodies)
}

func (s *Store) filter(keep func(*Body) bool) []*Body {
	out := make([]*Body, 0, len(s.bodies))
	for _, b := range s.bodies {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
