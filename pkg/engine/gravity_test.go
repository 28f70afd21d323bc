// pkg/engine/gravity_test.go
package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

func TestIntegrator_ZeroTimeStepIsNoOp(t *testing.T) {
	a := newPlanet("a", 1e20, 1, physics.Vector2D{})
	b := newPlanet("b", 1e20, 1, physics.Vector2D{X: 1e5})
	b.Velocity = physics.Vector2D{Y: 3}
	before := *b.MassiveBody

	if err := NewIntegrator().Step(0, []*entity.Body{a, b}, nil, 0); err != nil {
		t.Fatalf("Step() = %v", err)
	}
	if *b.MassiveBody != before {
		t.Errorf("dt=0 mutated the body: %+v -> %+v", before, *b.MassiveBody)
	}
}

func TestIntegrator_SemiImplicitEuler(t *testing.T) {
	// a single body with an extra force: v += a·dt first, then p += v·dt
	b := entity.NewBody(entity.MassiveBody{Mass: 2, AngularVelocity: 1})
	forces := map[entity.ID]physics.Vector2D{b.GetID(): {X: 4}}

	if err := NewIntegrator().Step(0, []*entity.Body{b}, forces, 0.5); err != nil {
		t.Fatalf("Step() = %v", err)
	}
	if b.Acceleration != (physics.Vector2D{X: 2}) {
		t.Errorf("Acceleration = %v, expected (2, 0)", b.Acceleration)
	}
	if b.Velocity != (physics.Vector2D{X: 1}) {
		t.Errorf("Velocity = %v, expected (1, 0)", b.Velocity)
	}
	if b.Position != (physics.Vector2D{X: 0.5}) {
		t.Errorf("Position = %v, expected (0.5, 0)", b.Position)
	}
	if !approx(b.Angle, 0.5, 1e-12) {
		t.Errorf("Angle = %v, expected 0.5", b.Angle)
	}
}

func TestIntegrator_SymmetricPairConservesMomentum(t *testing.T) {
	a := newPlanet("a", 3e22, 1, physics.Vector2D{X: -1e7})
	b := newPlanet("b", 1e22, 1, physics.Vector2D{X: 2e7, Y: 5e6})
	bodies := []*entity.Body{a, b}
	in := NewIntegrator()

	for i := 0; i < 100; i++ {
		if err := in.Step(uint64(i), bodies, nil, 10); err != nil {
			t.Fatalf("Step() = %v", err)
		}
	}

	momentum := a.Velocity.Scale(a.Mass).Add(b.Velocity.Scale(b.Mass))
	scale := a.Mass * a.Velocity.Length()
	if momentum.Length() > 1e-9*scale {
		t.Errorf("momentum drifted to %v (scale %v)", momentum, scale)
	}
}

func TestIntegrator_ZeroSeparationFailsWithoutMutation(t *testing.T) {
	a := newPlanet("a", 1e20, 1, physics.Vector2D{X: 5, Y: 5})
	b := newPlanet("b", 1e20, 1, physics.Vector2D{X: 5, Y: 5})
	c := newPlanet("c", 1e20, 1, physics.Vector2D{X: 1e6})
	c.Velocity = physics.Vector2D{X: 7}
	before := *c.MassiveBody

	err := NewIntegrator().Step(42, []*entity.Body{c, a, b}, nil, 1)

	var numErr *NumericalError
	if !errors.As(err, &numErr) {
		t.Fatalf("Step() = %v, expected NumericalError", err)
	}
	if !errors.Is(err, physics.ErrZeroSeparation) {
		t.Errorf("error should unwrap to ErrZeroSeparation: %v", err)
	}
	if numErr.Tick != 42 || numErr.BodyID != a.GetID() || numErr.OtherID != b.GetID() {
		t.Errorf("unexpected error fields %+v", numErr)
	}
	if *c.MassiveBody != before {
		t.Error("a failing accumulation pass must not mutate any body")
	}
}

func TestIntegrator_NonFinite(t *testing.T) {
	a := newPlanet("a", math.MaxFloat64/2, 0, physics.Vector2D{})
	b := newPlanet("b", math.MaxFloat64/2, 0, physics.Vector2D{X: 1e-100})

	err := NewIntegrator().Step(0, []*entity.Body{a, b}, nil, 1)
	if !errors.Is(err, physics.ErrNonFinite) {
		t.Errorf("Step() = %v, expected ErrNonFinite", err)
	}
}

// star of 1e30 kg at the origin and a 1e24 kg planet at 1e11 m on a
// circular orbit, 1000 ticks of 60 s
func TestIntegrator_ConcreteCircularOrbit(t *testing.T) {
	star := newPlanet("star", 1e30, 1e8, physics.Vector2D{})
	planetPos := physics.Vector2D{X: 1e11}
	planet := newPlanet("planet", 1e24, 1e6, planetPos)
	planet.Velocity = physics.CircularOrbitVelocity(planetPos, star.Mass)
	bodies := []*entity.Body{star, planet}

	e0 := TotalEnergy(bodies)
	in := NewIntegrator()
	for i := 0; i < 1000; i++ {
		if err := in.Step(uint64(i), bodies, nil, 60); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		r := planet.Position.Distance(star.Position)
		if math.Abs(r-1e11) > 0.01*1e11 {
			t.Fatalf("tick %d: orbital radius %v outside 1%% of 1e11", i, r)
		}
	}

	if drift := math.Abs((TotalEnergy(bodies) - e0) / e0); drift > 1e-4 {
		t.Errorf("relative energy drift %v", drift)
	}
	if planet.Position.Y <= 0 {
		t.Error("planet should have moved counter-clockwise")
	}
}

func TestIntegrator_FullOrbitReturnsNearStart(t *testing.T) {
	// GM = 1, r = 1, v = 1: period 2π
	star := newPlanet("star", 1/physics.G, 0.01, physics.Vector2D{})
	planet := newPlanet("planet", 1e-3, 0.001, physics.Vector2D{X: 1})
	planet.Velocity = physics.Vector2D{Y: 1}
	bodies := []*entity.Body{star, planet}

	dt := 1e-3
	steps := int(math.Round(2 * math.Pi / dt))
	in := NewIntegrator()
	for i := 0; i < steps; i++ {
		if err := in.Step(uint64(i), bodies, nil, dt); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if r := planet.Position.Distance(star.Position); math.Abs(r-1) > 0.01 {
			t.Fatalf("step %d: radius %v", i, r)
		}
	}

	if d := planet.Position.Distance(physics.Vector2D{X: 1}); d > 0.05 {
		t.Errorf("after one period planet is %v away from its start", d)
	}
}

func TestIntegrator_OrientationStaysNormalized(t *testing.T) {
	spinners := []*entity.Body{
		entity.NewBody(entity.MassiveBody{Mass: 1, AngularVelocity: 3.7}),
		entity.NewBody(entity.MassiveBody{Mass: 1, Position: physics.Vector2D{X: 1e9}, AngularVelocity: -11}),
	}
	in := NewIntegrator()
	for i := 0; i < 500; i++ {
		if err := in.Step(uint64(i), spinners, nil, 0.37); err != nil {
			t.Fatalf("Step() = %v", err)
		}
		for _, b := range spinners {
			if b.Angle < 0 || b.Angle >= physics.TwoPi {
				t.Fatalf("angle %v outside [0, 2π)", b.Angle)
			}
		}
	}
}

func TestTotalEnergy(t *testing.T) {
	a := entity.NewBody(entity.MassiveBody{Mass: 2, Velocity: physics.Vector2D{X: 3}})
	b := entity.NewBody(entity.MassiveBody{Mass: 1 / physics.G, Position: physics.Vector2D{X: 4}})

	// ½·2·9 − G·2·(1/G)/4
	if got := TotalEnergy([]*entity.Body{a, b}); !approx(got, 9-0.5, 1e-9) {
		t.Errorf("TotalEnergy() = %v, expected 8.5", got)
	}
	if got := TotalEnergy(nil); got != 0 {
		t.Errorf("TotalEnergy(nil) = %v", got)
	}
}

func BenchmarkIntegrator_Step(b *testing.B) {
	bodies := make([]*entity.Body, 0, 32)
	for i := 0; i < 32; i++ {
		bodies = append(bodies, newPlanet("p", 1e24, 1e6, physics.FromAngle(float64(i), 1e11+float64(i)*1e9)))
	}
	in := NewIntegrator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = in.Step(uint64(i), bodies, nil, 1)
	}
}
