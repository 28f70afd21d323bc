// pkg/generator/generator.go
package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/logging"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// Star and planet parameters, SI units
const (
	StarName   = "Kerbol"
	StarRadius = 6.957e8 / 8
	StarMass   = 1.988416e30

	MinPlanetMass    = 0.330e24
	MaxPlanetMass    = 1898.6e24
	MinPlanetDensity = 1330.0
	MaxPlanetDensity = 5420.0

	// fractions of the system radius
	MinInterval       = 0.05
	MaxInterval       = 0.1
	MaxPlanetFraction = 0.04
)

// ErrNoPlanet is returned when the rocket is asked to start on a planet
// the generated system does not have
var ErrNoPlanet = errors.New("no such planet")

var starColor = colorful.Color{R: 1, G: 0.85, B: 0.2}

// Generator produces a star system from a seed. The same seed and
// configuration always yield the same system.
type Generator struct {
	cfg    config.GeneratorConfig
	rocket config.RocketConfig
	rng    *rand.Rand
}

// New creates a generator seeded from cfg.Seed
func New(cfg config.GeneratorConfig, rocket config.RocketConfig) *Generator {
	return &Generator{
		cfg:    cfg,
		rocket: rocket,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x6b737032)),
	}
}

// Limit returns the orbital radius beyond which no further planet is started
func Limit(systemRadius float64) float64 {
	return systemRadius - (systemRadius*MaxPlanetFraction + systemRadius*MaxInterval)
}

// PlanetRadius returns the radius of a uniform sphere of the given mass and density
func PlanetRadius(mass, density float64) float64 {
	volume := mass / density
	return math.Cbrt(3 * volume / (4 * math.Pi))
}

// Generate returns the star first, then the planets from the inside out,
// then the rocket if one is requested
func (g *Generator) Generate() ([]entity.Spawn, error) {
	star := entity.Spawn{
		Body: entity.MassiveBody{
			Mass:            StarMass,
			AngularVelocity: g.cfg.StarSpin,
		},
		Celestial: &entity.CelestialBody{
			Class:  entity.Star,
			Name:   StarName,
			Radius: StarRadius,
			Color:  starColor,
		},
	}
	spawns := []entity.Spawn{star}

	limit := Limit(g.cfg.SystemRadius)
	cursor := StarRadius
	for n := 0; cursor <= limit; n++ {
		cursor += g.cfg.SystemRadius * g.uniform(MinInterval, MaxInterval)

		mass := g.uniform(MinPlanetMass, MaxPlanetMass)
		radius := PlanetRadius(mass, g.uniform(MinPlanetDensity, MaxPlanetDensity))
		cursor += radius

		position := physics.FromAngle(g.uniform(0, physics.TwoPi), cursor)
		spawns = append(spawns, entity.Spawn{
			Body: entity.MassiveBody{
				Mass:            mass,
				Position:        position,
				Velocity:        physics.CircularOrbitVelocity(position, StarMass),
				AngularVelocity: g.uniform(-g.cfg.MaxPlanetSpin, g.cfg.MaxPlanetSpin),
			},
			Celestial: &entity.CelestialBody{
				Class:  entity.Planet,
				Name:   planetName(n),
				Radius: radius,
				Color:  colorful.Hsv(g.uniform(0, 360), 0.55, 0.85),
			},
		})
		cursor += radius
	}

	if !g.cfg.SpawnRocket {
		return spawns, nil
	}
	rocket, err := g.spawnRocket(spawns)
	if err != nil {
		return nil, err
	}
	return append(spawns, rocket), nil
}

func (g *Generator) spawnRocket(spawns []entity.Spawn) (entity.Spawn, error) {
	planets := len(spawns) - 1
	if g.cfg.RocketPlanet >= planets {
		return entity.Spawn{}, fmt.Errorf("%w: rocket planet %d, system has %d", ErrNoPlanet, g.cfg.RocketPlanet, planets)
	}
	host := spawns[1+g.cfg.RocketPlanet]

	sp := entity.Spawn{
		Body:   entity.MassiveBody{Mass: g.rocket.Mass},
		Rocket: entity.NewRocket(g.rocket.MainThrust, g.rocket.RCSThrust),
	}

	if !g.cfg.RocketInOrbit {
		sp.Body.Position = host.Body.Position.Add(physics.Up.Scale(host.Celestial.Radius))
		sp.LandedOn = host.Celestial.Name
		return sp, nil
	}

	// park above the side facing away from the star
	rel := host.Body.Position.Normalize().Scale(host.Celestial.Radius + g.cfg.OrbitAltitude)
	sp.Body.Position = host.Body.Position.Add(rel)
	sp.Body.Velocity = host.Body.Velocity.Add(physics.CircularOrbitVelocity(rel, host.Body.Mass))
	sp.Body.Angle = physics.SurfaceAngle(rel)
	return sp, nil
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func planetName(n int) string {
	if n < 25 {
		return fmt.Sprintf("%s %c", StarName, 'b'+rune(n))
	}
	return fmt.Sprintf("%s %d", StarName, n+1)
}

// Build generates the configured system and seeds a store from it
func Build(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*entity.Store, error) {
	spawns, err := New(cfg.Generator, cfg.Rocket).Generate()
	if err != nil {
		return nil, logging.WrapError(err, "generate system (seed %d)", cfg.Generator.Seed)
	}
	store, err := entity.Seed(spawns)
	if err != nil {
		return nil, logging.WrapError(err, "seed system (seed %d)", cfg.Generator.Seed)
	}

	logger.Info(ctx, "system generated",
		"seed", cfg.Generator.Seed,
		"system_radius", cfg.Generator.SystemRadius,
		"planets", len(store.Celestials())-1,
		"rocket", cfg.Generator.SpawnRocket,
		"rocket_in_orbit", cfg.Generator.RocketInOrbit,
	)
	return store, nil
}
