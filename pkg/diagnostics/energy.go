// pkg/diagnostics/energy.go
package diagnostics

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Aminion/ksp2d/pkg/engine"
)

// DriftReport summarizes how far total energy wandered from its first sample
type DriftReport struct {
	Samples   int
	Initial   float64
	Final     float64
	MaxDrift  float64 // relative, |E-E0|/|E0|
	MeanDrift float64
	StdDrift  float64
}

func (r DriftReport) String() string {
	return fmt.Sprintf("samples=%d initial=%.6e final=%.6e drift max=%.3e mean=%.3e std=%.3e",
		r.Samples, r.Initial, r.Final, r.MaxDrift, r.MeanDrift, r.StdDrift)
}

// EnergyMonitor records total energy once per tick. It implements
// engine.MetricsRecorder and is safe to read while the simulation runs.
type EnergyMonitor struct {
	mu      sync.Mutex
	energy  []float64
	limit   int
	dropped int
}

// NewEnergyMonitor keeps at most limit samples; older ones are discarded
// but the first sample is kept as the reference. A limit <= 0 keeps all.
func NewEnergyMonitor(limit int) *EnergyMonitor {
	return &EnergyMonitor{limit: limit}
}

// ObserveTick records the tick's total energy
func (m *EnergyMonitor) ObserveTick(stats engine.TickStats) {
	m.Record(stats.Energy)
}

// Record adds a sample. Non-finite energies are skipped.
func (m *EnergyMonitor) Record(e float64) {
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.energy = append(m.energy, e)
	if m.limit > 1 && len(m.energy) > m.limit {
		// keep the reference sample at index 0
		copy(m.energy[1:], m.energy[2:])
		m.energy = m.energy[:len(m.energy)-1]
		m.dropped++
	}
}

// Len returns the number of retained samples
func (m *EnergyMonitor) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.energy)
}

// Report computes drift statistics over the retained samples
func (m *EnergyMonitor) Report() DriftReport {
	m.mu.Lock()
	samples := append([]float64(nil), m.energy...)
	m.mu.Unlock()
	return Drift(samples)
}

// Drift computes relative energy drift against the first sample. When the
// first sample is zero the absolute drift is reported instead.
func Drift(energy []float64) DriftReport {
	if len(energy) == 0 {
		return DriftReport{}
	}

	e0 := energy[0]
	drift := make([]float64, len(energy))
	copy(drift, energy)
	floats.AddConst(-e0, drift)
	for i := range drift {
		drift[i] = math.Abs(drift[i])
	}
	if e0 != 0 {
		floats.Scale(1/math.Abs(e0), drift)
	}

	mean, std := stat.MeanStdDev(drift, nil)
	if len(drift) == 1 {
		std = 0
	}
	return DriftReport{
		Samples:   len(energy),
		Initial:   e0,
		Final:     energy[len(energy)-1],
		MaxDrift:  floats.Max(drift),
		MeanDrift: mean,
		StdDrift:  std,
	}
}
