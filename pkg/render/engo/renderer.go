// pkg/render/engo/renderer.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/entity"
)

const (
	celestialZIndex = 1
	rocketZIndex    = 2
)

type bodySprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
	seen bool
}

// EngoRenderer implements render.Renderer with one sprite per body
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	camera       *CameraSystem
	hud          *HUDSystem
	assets       *AssetManager
	sprites      map[entity.ID]*bodySprite
}

// NewEngoRenderer creates a renderer. A nil render system lays sprites out
// without drawing them.
func NewEngoRenderer(rs *common.RenderSystem, camera *CameraSystem, hud *HUDSystem, assets *AssetManager) *EngoRenderer {
	return &EngoRenderer{
		renderSystem: rs,
		camera:       camera,
		hud:          hud,
		assets:       assets,
		sprites:      make(map[entity.ID]*bodySprite),
	}
}

// Clear implements render.Renderer
func (r *EngoRenderer) Clear() {
	for _, s := range r.sprites {
		s.seen = false
	}
}

// RenderBody implements render.Renderer
func (r *EngoRenderer) RenderBody(b engine.BodyState) {
	s := r.getOrCreateSprite(b)
	s.seen = true
	s.SpaceComponent = r.camera.Layout(b)
	s.Color = BodyColor(b)
	s.Hidden = !r.camera.Visible(b)
}

// RenderFlightInfo implements render.Renderer
func (r *EngoRenderer) RenderFlightInfo(state *engine.State) {
	if r.hud != nil {
		r.hud.SetState(state)
	}
}

// Present implements render.Renderer; sprites of bodies missing from the
// frame are removed
func (r *EngoRenderer) Present() {
	for id, s := range r.sprites {
		if s.seen {
			continue
		}
		if r.renderSystem != nil {
			r.renderSystem.Remove(s.BasicEntity)
		}
		delete(r.sprites, id)
	}
}

// Sprite returns the sprite geometry of a body, if it has one
func (r *EngoRenderer) Sprite(id entity.ID) (common.SpaceComponent, bool) {
	s, ok := r.sprites[id]
	if !ok {
		return common.SpaceComponent{}, false
	}
	return s.SpaceComponent, true
}

func (r *EngoRenderer) getOrCreateSprite(b engine.BodyState) *bodySprite {
	if s, ok := r.sprites[b.ID]; ok {
		return s
	}

	s := &bodySprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{
		Drawable: r.assets.BodyDrawable(b),
		Color:    BodyColor(b),
	}
	r.sprites[b.ID] = s

	if r.renderSystem != nil {
		// SetZIndex notifies the render system, so it only runs inside a scene
		if b.Celestial {
			s.RenderComponent.SetZIndex(celestialZIndex)
		} else {
			s.RenderComponent.SetZIndex(rocketZIndex)
		}
		r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
	return s
}
