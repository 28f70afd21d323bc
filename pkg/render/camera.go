// pkg/render/camera.go
package render

import (
	"math"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// CameraMode selects what the camera keeps in view
type CameraMode int

const (
	// CameraFollow centres on the rocket at the current zoom
	CameraFollow CameraMode = iota
	// CameraSystem fits every body into the viewport
	CameraSystem
)

func (m CameraMode) String() string {
	if m == CameraSystem {
		return "system"
	}
	return "follow"
}

// Camera maps world metres onto a grid of cells. Rows are CellAspect times
// taller than columns are wide; world +y points up the screen.
type Camera struct {
	Mode       CameraMode
	Center     physics.Vector2D
	Scale      float64 // metres per column
	CellAspect float64
	Width      int
	Height     int
}

// NewCamera creates a follow camera for a width x height viewport
func NewCamera(width, height int, scale float64, cellAspect float64) *Camera {
	if cellAspect <= 0 {
		cellAspect = 1
	}
	return &Camera{
		Mode:       CameraFollow,
		Scale:      scale,
		CellAspect: cellAspect,
		Width:      width,
		Height:     height,
	}
}

// SetViewport updates the viewport size in cells
func (c *Camera) SetViewport(width, height int) {
	c.Width, c.Height = width, height
}

// Toggle switches between follow and system mode
func (c *Camera) Toggle() {
	if c.Mode == CameraFollow {
		c.Mode = CameraSystem
	} else {
		c.Mode = CameraFollow
	}
}

// Zoom multiplies the scale by factor; factor > 1 zooms out
func (c *Camera) Zoom(factor float64) {
	if factor > 0 && !math.IsInf(factor, 0) {
		c.Scale *= factor
	}
}

// Update re-centres the camera on the snapshot
func (c *Camera) Update(state *engine.State) {
	switch c.Mode {
	case CameraFollow:
		if rs, ok := state.RocketState(); ok {
			c.Center = rs.Position
			return
		}
		c.fit(state)
	case CameraSystem:
		c.fit(state)
	}
}

func (c *Camera) fit(state *engine.State) {
	if len(state.Bodies) == 0 || c.Width <= 0 || c.Height <= 0 {
		return
	}
	box := physics.CircleAABB(state.Bodies[0].Position, state.Bodies[0].Radius)
	for _, b := range state.Bodies[1:] {
		bb := physics.CircleAABB(b.Position, b.Radius)
		box.Min.X = min(box.Min.X, bb.Min.X)
		box.Min.Y = min(box.Min.Y, bb.Min.Y)
		box.Max.X = max(box.Max.X, bb.Max.X)
		box.Max.Y = max(box.Max.Y, bb.Max.Y)
	}

	c.Center = box.Min.Add(box.Max).Scale(0.5)
	sx := box.Width() / float64(c.Width)
	sy := box.Height() / (float64(c.Height) * c.CellAspect)
	if s := max(sx, sy) * 1.05; s > 0 {
		c.Scale = s
	}
}

// WorldToScreen returns the cell containing p
func (c *Camera) WorldToScreen(p physics.Vector2D) (int, int) {
	col := (p.X-c.Center.X)/c.Scale + float64(c.Width)/2
	row := float64(c.Height)/2 - (p.Y-c.Center.Y)/(c.Scale*c.CellAspect)
	return int(math.Floor(col)), int(math.Floor(row))
}

// ScreenToWorld returns the world position of the centre of a cell
func (c *Camera) ScreenToWorld(col, row int) physics.Vector2D {
	return physics.Vector2D{
		X: c.Center.X + (float64(col)+0.5-float64(c.Width)/2)*c.Scale,
		Y: c.Center.Y - (float64(row)+0.5-float64(c.Height)/2)*c.Scale*c.CellAspect,
	}
}

// View returns the world-space box the viewport covers
func (c *Camera) View() physics.AABB {
	half := physics.Vector2D{
		X: float64(c.Width) / 2 * c.Scale,
		Y: float64(c.Height) / 2 * c.Scale * c.CellAspect,
	}
	return physics.AABB{Min: c.Center.Sub(half), Max: c.Center.Add(half)}
}

// Visible reports whether a world box overlaps the viewport
func (c *Camera) Visible(box physics.AABB) bool {
	return c.View().Intersects(box)
}
