// pkg/render/engo/camera_test.go
package engo

import (
	"math"
	"testing"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/physics"
	"github.com/Aminion/ksp2d/pkg/render"
)

func TestCameraSystem_Layout(t *testing.T) {
	cs := NewCameraSystem(800, 600, 100)
	cs.View().Center = physics.Vector2D{X: 1000, Y: 1000}

	tests := []struct {
		name     string
		body     engine.BodyState
		wantSize float32
		wantRot  float32
		center   [2]float32
	}{
		{
			name:     "planet_scaled_to_radius",
			body:     engine.BodyState{Celestial: true, Radius: 5000, Position: physics.Vector2D{X: 1000, Y: 1000}},
			wantSize: 100,
			center:   [2]float32{400, 300},
		},
		{
			name:     "tiny_moon_keeps_minimum",
			body:     engine.BodyState{Celestial: true, Radius: 1, Position: physics.Vector2D{X: 11000, Y: 1000}},
			wantSize: minSpritePixels,
			center:   [2]float32{500, 300},
		},
		{
			name:     "rocket_above_center",
			body:     engine.BodyState{Rocket: true, Position: physics.Vector2D{X: 1000, Y: 6000}},
			wantSize: rocketPixels,
			center:   [2]float32{400, 250},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space := cs.Layout(tt.body)
			if space.Width != tt.wantSize || space.Height != tt.wantSize {
				t.Errorf("size = %vx%v, want %v", space.Width, space.Height, tt.wantSize)
			}
			if space.Rotation != tt.wantRot {
				t.Errorf("rotation = %v, want %v", space.Rotation, tt.wantRot)
			}
			gotX := space.Position.X + space.Width/2
			gotY := space.Position.Y + space.Height/2
			if gotX != tt.center[0] || gotY != tt.center[1] {
				t.Errorf("centre = (%v, %v), want %v", gotX, gotY, tt.center)
			}
		})
	}
}

func TestCameraSystem_RocketRotation(t *testing.T) {
	cs := NewCameraSystem(800, 600, 100)
	space := cs.Layout(engine.BodyState{Rocket: true, Angle: math.Pi / 2})
	if math.Abs(float64(space.Rotation)+90) > 1e-4 {
		t.Errorf("rotation = %v, want -90 (counter-clockwise quarter turn)", space.Rotation)
	}
}

func TestCameraSystem_VisibleAndControls(t *testing.T) {
	cs := NewCameraSystem(100, 100, 10)

	if !cs.Visible(engine.BodyState{Celestial: true, Radius: 10}) {
		t.Error("body at the centre reported invisible")
	}
	if cs.Visible(engine.BodyState{Celestial: true, Radius: 10, Position: physics.Vector2D{X: 1e6}}) {
		t.Error("far body reported visible")
	}

	cs.Zoom(2)
	if cs.View().Scale != 20 {
		t.Errorf("Scale = %v, want 20", cs.View().Scale)
	}
	cs.Toggle()
	if cs.View().Mode != render.CameraSystem {
		t.Errorf("Mode = %v, want system", cs.View().Mode)
	}
	if cs.Priority() <= 0 {
		t.Error("camera must run before the simulation system")
	}

	cs.Toggle()
	cs.Follow(&engine.State{Bodies: []engine.BodyState{{Rocket: true, Position: physics.Vector2D{X: 3, Y: 4}}}})
	if p := cs.Project(physics.Vector2D{X: 3, Y: 4}); p.X != 50 || p.Y != 50 {
		t.Errorf("rocket projected to %v, want the viewport centre", p)
	}
}
