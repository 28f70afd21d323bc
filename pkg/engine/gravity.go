// pkg/engine/gravity.go
package engine

import (
	"math"

	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// Integrator advances every massive body under mutual gravity with
// semi-implicit Euler. Accelerations are accumulated from one consistent
// snapshot of positions before any body is moved.
type Integrator struct {
	acc []physics.Vector2D
}

// NewIntegrator creates an integrator
func NewIntegrator() *Integrator {
	return &Integrator{}
}

// Step integrates bodies over dt. forces holds additional world-frame forces
// (rocket thrust) keyed by body id; they are applied as F/m alongside gravity.
// A failure while accumulating leaves every body untouched.
func (in *Integrator) Step(tick uint64, bodies []*entity.Body, forces map[entity.ID]physics.Vector2D, dt float64) error {
	if dt == 0 {
		return nil
	}

	if err := in.accumulate(tick, bodies, forces); err != nil {
		return err
	}
	return in.apply(tick, bodies, dt)
}

func (in *Integrator) accumulate(tick uint64, bodies []*entity.Body, forces map[entity.ID]physics.Vector2D) error {
	if cap(in.acc) < len(bodies) {
		in.acc = make([]physics.Vector2D, len(bodies))
	}
	in.acc = in.acc[:len(bodies)]

	for i, bi := range bodies {
		var sum physics.Vector2D
		for j, bj := range bodies {
			if i == j {
				continue
			}
			a, err := physics.GravitationalAcceleration(bi.Position, bj.Position, bj.Mass)
			if err != nil {
				return &NumericalError{
					Tick:    tick,
					BodyID:  bi.GetID(),
					OtherID: bj.GetID(),
					Reason:  "gravitational acceleration",
					Err:     err,
				}
			}
			sum = sum.Add(a)
		}

		if f, ok := forces[bi.GetID()]; ok {
			sum = sum.Add(f.Scale(1 / bi.Mass))
		}
		if !sum.IsFinite() {
			return &NumericalError{Tick: tick, BodyID: bi.GetID(), Reason: "acceleration", Err: physics.ErrNonFinite}
		}
		in.acc[i] = sum
	}
	return nil
}

func (in *Integrator) apply(tick uint64, bodies []*entity.Body, dt float64) error {
	var failure error
	for i, b := range bodies {
		b.Acceleration = in.acc[i]
		b.Velocity = b.Velocity.Add(b.Acceleration.Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		b.AdvanceAngle(dt)

		if failure != nil {
			continue
		}
		switch {
		case !b.Velocity.IsFinite():
			failure = &NumericalError{Tick: tick, BodyID: b.GetID(), Reason: "velocity", Err: physics.ErrNonFinite}
		case !b.Position.IsFinite():
			failure = &NumericalError{Tick: tick, BodyID: b.GetID(), Reason: "position", Err: physics.ErrNonFinite}
		case math.IsNaN(b.Angle):
			failure = &NumericalError{Tick: tick, BodyID: b.GetID(), Reason: "angle", Err: physics.ErrNonFinite}
		}
	}
	return failure
}

// TotalEnergy returns kinetic plus pairwise gravitational potential energy
// of the system, in joules.
func TotalEnergy(bodies []*entity.Body) float64 {
	var kinetic, potential float64
	for i, bi := range bodies {
		kinetic += physics.KineticEnergy(bi.Mass, bi.Velocity)
		for _, bj := range bodies[i+1:] {
			potential += physics.PotentialEnergy(bi.Mass, bj.Mass, bi.Position, bj.Position)
		}
	}
	return kinetic + potential
}
