// pkg/input/controls_test.go
package input

import (
	"context"
	"errors"
	"testing"
)

type fakeWarp struct {
	warp float64
	err  error
}

func (f *fakeWarp) TimeWarp() float64 { return f.warp }

func (f *fakeWarp) SetTimeWarp(w float64) error {
	if f.err != nil {
		return f.err
	}
	f.warp = w
	return nil
}

type fakeCamera struct {
	toggles int
	scale   float64
}

func (f *fakeCamera) Toggle() { f.toggles++ }

func (f *fakeCamera) Zoom(factor float64) { f.scale *= factor }

func TestNextWarp(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		action  Action
		want    float64
	}{
		{"up", 1, ActionWarpUp, 10},
		{"up_clamped", 5e6, ActionWarpUp, MaxWarp},
		{"down", 1000, ActionWarpDown, 100},
		{"down_clamped", 1, ActionWarpDown, MinWarp},
		{"other_action", 42, ActionZoomIn, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextWarp(tt.current, tt.action); got != tt.want {
				t.Errorf("NextWarp(%v, %v) = %v, want %v", tt.current, tt.action, got, tt.want)
			}
		})
	}
}

func TestControls_Apply(t *testing.T) {
	ctx := context.Background()
	warp := &fakeWarp{warp: 1}
	cam := &fakeCamera{scale: 100}
	c := &Controls{Warp: warp, Camera: cam}

	if c.Apply(ctx, ActionWarpUp) {
		t.Error("warp up requested quit")
	}
	if warp.warp != 10 {
		t.Errorf("warp = %v, want 10", warp.warp)
	}

	c.Apply(ctx, ActionZoomOut)
	if cam.scale != 100*ZoomFactor {
		t.Errorf("scale = %v after zoom out", cam.scale)
	}
	c.Apply(ctx, ActionZoomIn)
	if cam.scale != 100 {
		t.Errorf("scale = %v after zoom in, want 100", cam.scale)
	}

	c.Apply(ctx, ActionSwitchCamera)
	if cam.toggles != 1 {
		t.Errorf("toggles = %d, want 1", cam.toggles)
	}

	if !c.Apply(ctx, ActionQuit) {
		t.Error("quit action did not request quit")
	}
	if c.Apply(ctx, ActionIntent) || c.Apply(ctx, ActionNone) {
		t.Error("intent actions must not quit")
	}
}

func TestControls_ApplyWithoutTargets(t *testing.T) {
	c := &Controls{Warp: &fakeWarp{err: errors.New("rejected")}}
	for _, a := range []Action{ActionSwitchCamera, ActionZoomIn, ActionWarpUp} {
		if c.Apply(context.Background(), a) {
			t.Errorf("Apply(%v) requested quit", a)
		}
	}
}

func TestControls_WarpRateLimited(t *testing.T) {
	warp := &fakeWarp{warp: 1}
	limiter := NewRateLimiter(2, WarpWindow)
	c := &Controls{Warp: warp, Limiter: limiter}

	for i := 0; i < 5; i++ {
		c.Apply(context.Background(), ActionWarpUp)
	}
	if warp.warp != 100 {
		t.Errorf("warp = %v after a burst, want 100", warp.warp)
	}
	if !c.Apply(context.Background(), ActionQuit) {
		t.Error("quit must never be rate limited")
	}
}
