// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/input"
	"github.com/Aminion/ksp2d/pkg/physics"
	"github.com/Aminion/ksp2d/pkg/render"
)

// minSpritePixels keeps far-away bodies visible as a dot
const minSpritePixels = 3

// rocketPixels is the rocket sprite size in pixels
const rocketPixels = 18

// CameraSystem projects world metres onto window pixels. It keeps engo's own
// camera fixed and moves the sprites instead.
type CameraSystem struct {
	view *render.Camera
}

// NewCameraSystem creates a follow camera at scale metres per pixel
func NewCameraSystem(width, height int, scale float64) *CameraSystem {
	return &CameraSystem{view: render.NewCamera(width, height, scale, 1)}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(ecs.BasicEntity) {}

// Priority runs the camera after input and before the simulation draws
func (cs *CameraSystem) Priority() int {
	return 8
}

// Update tracks the window size and mouse-wheel zoom
func (cs *CameraSystem) Update(dt float32) {
	cs.view.SetViewport(int(engo.GameWidth()), int(engo.GameHeight()))
	if scroll := engo.Input.Mouse.ScrollY; scroll != 0 {
		cs.Zoom(math.Pow(input.ZoomFactor, -float64(scroll)))
	}
}

// View returns the underlying world-to-pixel camera
func (cs *CameraSystem) View() *render.Camera {
	return cs.view
}

// Toggle switches between follow and system mode
func (cs *CameraSystem) Toggle() {
	cs.view.Toggle()
}

// Zoom multiplies the metres per pixel by factor
func (cs *CameraSystem) Zoom(factor float64) {
	cs.view.Zoom(factor)
}

// Follow re-centres the camera on a snapshot
func (cs *CameraSystem) Follow(state *engine.State) {
	cs.view.Update(state)
}

// Project returns the pixel position of a world point
func (cs *CameraSystem) Project(p physics.Vector2D) engo.Point {
	x, y := cs.view.WorldToScreen(p)
	return engo.Point{X: float32(x), Y: float32(y)}
}

// Layout returns the sprite geometry for a body: its size on screen and its
// rotation in engo's clockwise degrees, centred on the projected position
func (cs *CameraSystem) Layout(b engine.BodyState) common.SpaceComponent {
	size := float32(rocketPixels)
	var rotation float32
	if b.Celestial {
		size = float32(max(2*b.Radius/cs.view.Scale, minSpritePixels))
	} else {
		rotation = float32(-b.Angle * 180 / math.Pi)
	}

	space := common.SpaceComponent{Width: size, Height: size, Rotation: rotation}
	space.SetCenter(cs.Project(b.Position))
	return space
}

// Visible reports whether a body overlaps the window
func (cs *CameraSystem) Visible(b engine.BodyState) bool {
	radius := b.Radius
	if !b.Celestial {
		radius = rocketPixels * cs.view.Scale
	}
	return cs.view.Visible(physics.CircleAABB(b.Position, max(radius, minSpritePixels*cs.view.Scale)))
}
