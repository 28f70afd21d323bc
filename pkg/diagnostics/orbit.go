// pkg/diagnostics/orbit.go
package diagnostics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/entity"
)

// OrbitSummary describes a body's distance from its primary over a run
type OrbitSummary struct {
	ID        entity.ID
	Name      string
	Min       float64
	Max       float64
	Mean      float64
	Deviation float64 // (max-min)/mean
}

func (o OrbitSummary) String() string {
	return fmt.Sprintf("%-12s r=%.4e m  min=%.4e max=%.4e dev=%.3e", o.Name, o.Mean, o.Min, o.Max, o.Deviation)
}

// OrbitSampler records each body's distance from a primary body on every
// Sample call
type OrbitSampler struct {
	primary entity.ID
	radii   map[entity.ID][]float64
	names   map[entity.ID]string
}

// NewOrbitSampler samples orbits around the body with the given id
func NewOrbitSampler(primary entity.ID) *OrbitSampler {
	return &OrbitSampler{
		primary: primary,
		radii:   make(map[entity.ID][]float64),
		names:   make(map[entity.ID]string),
	}
}

// Sample records distances from a snapshot. Landed bodies are skipped.
func (s *OrbitSampler) Sample(state *engine.State) {
	var center *engine.BodyState
	for i := range state.Bodies {
		if state.Bodies[i].ID == s.primary {
			center = &state.Bodies[i]
			break
		}
	}
	if center == nil {
		return
	}
	for _, b := range state.Bodies {
		if b.ID == s.primary || b.Landed {
			continue
		}
		s.radii[b.ID] = append(s.radii[b.ID], b.Position.Distance(center.Position))
		s.names[b.ID] = b.Name
	}
}

// Summaries returns one summary per sampled body, innermost first
func (s *OrbitSampler) Summaries() []OrbitSummary {
	out := make([]OrbitSummary, 0, len(s.radii))
	for id, r := range s.radii {
		mean := stat.Mean(r, nil)
		o := OrbitSummary{
			ID:   id,
			Name: s.names[id],
			Min:  floats.Min(r),
			Max:  floats.Max(r),
			Mean: mean,
		}
		if mean != 0 {
			o.Deviation = (o.Max - o.Min) / mean
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out
}
