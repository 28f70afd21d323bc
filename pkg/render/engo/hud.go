// pkg/render/engo/hud.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/render"
)

const (
	hudLines      = 4
	hudLineHeight = 18
	hudMargin     = 10
	hudZIndex     = 100
)

var (
	hudColor   = color.RGBA{255, 255, 255, 255}
	alertColor = color.RGBA{255, 64, 64, 255}
)

type hudEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// HUDSystem draws the flight info lines in screen space
type HUDSystem struct {
	font   *common.Font
	camera *CameraSystem
	perf   render.PerformanceCounter
	lines  []*hudEntity
	text   []string
	halted bool
}

// NewHUDSystem creates a HUD reporting the camera mode of camera
func NewHUDSystem(camera *CameraSystem) *HUDSystem {
	return &HUDSystem{
		camera: camera,
		perf:   render.NewPerformanceCounter(),
	}
}

// Setup creates the text entities; font may be nil, in which case the HUD
// only keeps its text
func (hud *HUDSystem) Setup(rs *common.RenderSystem, font *common.Font) {
	hud.font = font
	if rs == nil || font == nil {
		return
	}
	for i := range hudLines {
		e := &hudEntity{BasicEntity: ecs.NewBasic()}
		e.SpaceComponent = common.SpaceComponent{
			Position: engo.Point{X: hudMargin, Y: float32(hudMargin + i*hudLineHeight)},
		}
		e.RenderComponent = common.RenderComponent{
			Drawable: common.Text{Font: font, Text: " "},
			Color:    hudColor,
		}
		e.RenderComponent.SetShader(common.HUDShader)
		e.RenderComponent.SetZIndex(hudZIndex)
		rs.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
		hud.lines = append(hud.lines, e)
	}
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(ecs.BasicEntity) {}

// Update counts a frame and pushes the current text to the entities
func (hud *HUDSystem) Update(dt float32) {
	hud.perf.Frame()
	for i, e := range hud.lines {
		text := " "
		if i < len(hud.text) {
			text = hud.text[i]
		}
		e.Drawable = common.Text{Font: hud.font, Text: text}
		e.Color = hudColor
		if hud.halted && i == len(hud.text)-1 {
			e.Color = alertColor
		}
	}
}

// SetState formats the flight info of a snapshot
func (hud *HUDSystem) SetState(state *engine.State) {
	mode := render.CameraFollow
	if hud.camera != nil {
		mode = hud.camera.View().Mode
	}
	hud.text = render.FlightInfoLines(state, hud.perf.FPS(), mode)
	hud.halted = state.Halted
	if state.Halted {
		hud.text = append(hud.text, "SIMULATION HALTED")
	}
}

// Text returns the lines shown on the next frame
func (hud *HUDSystem) Text() []string {
	return hud.text
}
