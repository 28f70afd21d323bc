// pkg/input/controls.go
package input

import (
	"context"
	"time"

	"github.com/Aminion/ksp2d/pkg/logging"
)

// Warp and zoom steps applied by the frontend actions
const (
	WarpFactor = 10.0
	MinWarp    = 1.0
	MaxWarp    = 1e7
	ZoomFactor = 1.25

	// WarpRepeat warp steps are allowed per WarpWindow
	WarpRepeat = 4
	WarpWindow = time.Second
)

// Warper is the part of the simulation the warp actions drive
type Warper interface {
	TimeWarp() float64
	SetTimeWarp(w float64) error
}

// CameraControl is the part of a frontend camera the camera actions drive
type CameraControl interface {
	Toggle()
	Zoom(factor float64)
}

// Controls applies non-intent actions to the simulation and the camera.
// A nil Limiter lets every warp step through.
type Controls struct {
	Warp    Warper
	Camera  CameraControl
	Limiter *RateLimiter
	Logger  *logging.Logger
}

// NextWarp returns the time warp after one warp step, clamped to [MinWarp, MaxWarp]
func NextWarp(current float64, a Action) float64 {
	switch a {
	case ActionWarpUp:
		return min(current*WarpFactor, MaxWarp)
	case ActionWarpDown:
		return max(current/WarpFactor, MinWarp)
	}
	return current
}

// Apply performs a and reports whether the frontend should quit
func (c *Controls) Apply(ctx context.Context, a Action) bool {
	switch a {
	case ActionQuit:
		return true
	case ActionSwitchCamera:
		if c.Camera != nil {
			c.Camera.Toggle()
		}
	case ActionZoomIn:
		if c.Camera != nil {
			c.Camera.Zoom(1 / ZoomFactor)
		}
	case ActionZoomOut:
		if c.Camera != nil {
			c.Camera.Zoom(ZoomFactor)
		}
	case ActionWarpUp, ActionWarpDown:
		if c.Warp == nil {
			return false
		}
		if c.Limiter != nil && !c.Limiter.Allow(a) {
			return false
		}
		w := NextWarp(c.Warp.TimeWarp(), a)
		if err := c.Warp.SetTimeWarp(w); err != nil && c.Logger != nil {
			c.Logger.Error(ctx, "failed to change time warp", err)
			return false
		}
		if c.Logger != nil {
			c.Logger.Debug(ctx, "time warp changed", "time_warp", w)
		}
	}
	return false
}
