// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// ResourceHealthCheck reports panicked goroutines and a nearly exhausted
// goroutine budget. It implements health.HealthCheck.
type ResourceHealthCheck struct {
	manager *ResourceManager
}

// NewResourceHealthCheck creates a new health check for the resource manager.
func NewResourceHealthCheck(manager *ResourceManager) *ResourceHealthCheck {
	return &ResourceHealthCheck{
		manager: manager,
	}
}

// Name returns the name of this health check.
func (r *ResourceHealthCheck) Name() string {
	return "resource"
}

// Check fails after any panic or above 80% of the goroutine limit
func (r *ResourceHealthCheck) Check(ctx context.Context) error {
	stats := r.manager.Stats()

	if stats.Panics > 0 {
		return fmt.Errorf("%d background goroutines panicked", stats.Panics)
	}

	goroutineThreshold := int64(float64(stats.MaxGoroutines) * 0.8)
	if stats.GoroutineCount > goroutineThreshold {
		return fmt.Errorf("goroutine count %d exceeds 80%% threshold (%d/%d)",
			stats.GoroutineCount, goroutineThreshold, stats.MaxGoroutines)
	}

	return nil
}
