// Package health reports whether a running simulation is still making
// progress. It serves liveness and readiness endpoints next to /metrics.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/Aminion/ksp2d/pkg/diagnostics"
)

// HealthCheck is one named probe
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus represents the aggregated result of all checks
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the result of a single check
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a check, replacing any check with the same name
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth runs every check. The overall status is "healthy" only if all pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth, len(hc.checks)),
	}
	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: "healthy"}
	}
	return status
}

// LivenessHandler answers 200 as long as the process serves HTTP
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs all checks and answers 200 or 503
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(health)
}

// Handlers returns the probe endpoints keyed by path
func (hc *HealthChecker) Handlers() map[string]http.Handler {
	return map[string]http.Handler{
		"/healthz": http.HandlerFunc(hc.LivenessHandler),
		"/readyz":  http.HandlerFunc(hc.ReadinessHandler),
	}
}

// SimulationHealthCheck fails once the simulation has halted
type SimulationHealthCheck struct {
	halted func() error
}

// NewSimulationHealthCheck wraps a halt probe such as Simulation.Halted
func NewSimulationHealthCheck(halted func() error) *SimulationHealthCheck {
	return &SimulationHealthCheck{halted: halted}
}

// Name returns the name of this health check.
func (s *SimulationHealthCheck) Name() string {
	return "simulation"
}

// Check reports the halt error, if any
func (s *SimulationHealthCheck) Check(ctx context.Context) error {
	if err := s.halted(); err != nil {
		return fmt.Errorf("simulation halted: %w", err)
	}
	return nil
}

// ProgressHealthCheck fails when the tick counter has not moved for longer
// than maxStall
type ProgressHealthCheck struct {
	tick     func() uint64
	maxStall time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastTick uint64
	lastSeen time.Time
}

// NewProgressHealthCheck creates a stall detector over a tick probe
func NewProgressHealthCheck(tick func() uint64, maxStall time.Duration) *ProgressHealthCheck {
	return &ProgressHealthCheck{
		tick:     tick,
		maxStall: maxStall,
		now:      time.Now,
		lastTick: tick(),
		lastSeen: time.Now(),
	}
}

// Name returns the name of this health check.
func (p *ProgressHealthCheck) Name() string {
	return "progress"
}

// Check compares the current tick with the last observed one
func (p *ProgressHealthCheck) Check(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if t := p.tick(); t != p.lastTick {
		p.lastTick, p.lastSeen = t, now
		return nil
	}
	if stall := now.Sub(p.lastSeen); stall > p.maxStall {
		return fmt.Errorf("no tick for %s (stuck at %d)", stall.Round(time.Millisecond), p.lastTick)
	}
	return nil
}

// EnergyDriftHealthCheck fails when total energy has drifted beyond a
// relative bound
type EnergyDriftHealthCheck struct {
	monitor  *diagnostics.EnergyMonitor
	maxDrift float64
}

// NewEnergyDriftHealthCheck creates a drift check over an energy monitor
func NewEnergyDriftHealthCheck(monitor *diagnostics.EnergyMonitor, maxDrift float64) *EnergyDriftHealthCheck {
	return &EnergyDriftHealthCheck{monitor: monitor, maxDrift: maxDrift}
}

// Name returns the name of this health check.
func (e *EnergyDriftHealthCheck) Name() string {
	return "energy_drift"
}

// Check compares the worst observed drift with the bound
func (e *EnergyDriftHealthCheck) Check(ctx context.Context) error {
	r := e.monitor.Report()
	if r.MaxDrift > e.maxDrift {
		return fmt.Errorf("energy drift %.3e exceeds %.3e", r.MaxDrift, e.maxDrift)
	}
	return nil
}

// MemoryHealthCheck implements HealthCheck for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage. A nil
// usage probe reads the Go heap size.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	if getMemoryUsage == nil {
		getMemoryUsage = heapMB
	}
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

func heapMB() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.HeapAlloc / (1 << 20))
}
