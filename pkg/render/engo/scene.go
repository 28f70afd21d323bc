// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/input"
	"github.com/Aminion/ksp2d/pkg/logging"
	"github.com/Aminion/ksp2d/pkg/render"
)

// initialScale is the starting zoom in metres per pixel
const initialScale = 2000.0

// maxFrameSteps bounds the wall time one frame may advance, in ticks
const maxFrameSteps = 4

// SimulationSystem advances the simulation once per frame and draws the result
type SimulationSystem struct {
	sim      *engine.Simulation
	source   engine.IntentSource
	renderer render.Renderer
	camera   *CameraSystem
	logger   *logging.Logger
	maxDt    float64
	halted   bool
}

// NewSimulationSystem creates the per-frame driver
func NewSimulationSystem(sim *engine.Simulation, source engine.IntentSource, renderer render.Renderer, camera *CameraSystem, logger *logging.Logger) *SimulationSystem {
	return &SimulationSystem{
		sim:      sim,
		source:   source,
		renderer: renderer,
		camera:   camera,
		logger:   logger,
		maxDt:    maxFrameSteps * sim.Config.Simulation.TimeStep,
	}
}

// Remove satisfies the ecs.System interface
func (s *SimulationSystem) Remove(ecs.BasicEntity) {}

// Priority runs the step after input and camera
func (s *SimulationSystem) Priority() int {
	return 5
}

// Update steps the simulation by the frame time and renders the snapshot
func (s *SimulationSystem) Update(dt float32) {
	ctx := context.Background()
	if err := s.sim.Step(ctx, min(float64(dt), s.maxDt), s.source.Intents()); err != nil && !s.halted {
		s.halted = true
		s.logger.Error(ctx, "simulation step failed", err)
	}

	state := s.sim.Snapshot()
	s.camera.Follow(state)
	render.Frame(s.renderer, state)
}

// Scene is the windowed ksp2d scene
type Scene struct {
	sim    *engine.Simulation
	cfg    *config.Config
	logger *logging.Logger

	assets   *AssetManager
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
	renderer *EngoRenderer
}

// NewScene creates a scene around a started simulation
func NewScene(sim *engine.Simulation, cfg *config.Config, logger *logging.Logger) *Scene {
	return &Scene{
		sim:    sim,
		cfg:    cfg,
		logger: logger,
		assets: NewAssetManager(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *Scene) Type() string {
	return "ksp2d"
}

// Preload is called before the scene starts (required by Engo)
func (scene *Scene) Preload() {
	if err := scene.assets.Preload(); err != nil {
		panic("Failed to preload assets: " + err.Error())
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *Scene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	if world == nil {
		panic("ksp2d scene needs an ecs.World updater")
	}
	common.SetBackground(color.Black)

	w, h := scene.cfg.Frontend.Width, scene.cfg.Frontend.Height
	if err := scene.assets.LoadAssets(scene.cfg.Generator.Seed, w, h); err != nil {
		panic("Failed to initialize renderer: " + err.Error())
	}

	rs := &common.RenderSystem{}
	world.AddSystem(rs)
	scene.addBackground(rs, w, h)

	scene.camera = NewCameraSystem(w, h, initialScale)
	world.AddSystem(scene.camera)

	SetupInputBindings()
	controls := &input.Controls{Warp: scene.sim, Camera: scene.camera, Logger: scene.logger}
	scene.input = NewInputSystem(controls, engo.Exit)
	world.AddSystem(scene.input)

	scene.hud = NewHUDSystem(scene.camera)
	scene.hud.Setup(rs, scene.assets.Font())
	world.AddSystem(scene.hud)

	scene.renderer = NewEngoRenderer(rs, scene.camera, scene.hud, scene.assets)
	world.AddSystem(NewSimulationSystem(scene.sim, scene.input, scene.renderer, scene.camera, scene.logger))

	scene.logger.Info(context.Background(), "engo scene ready", "width", w, "height", h)
}

func (scene *Scene) addBackground(rs *common.RenderSystem, w, h int) {
	bg := &struct {
		ecs.BasicEntity
		common.RenderComponent
		common.SpaceComponent
	}{BasicEntity: ecs.NewBasic()}
	bg.RenderComponent = common.RenderComponent{Drawable: scene.assets.Background()}
	bg.RenderComponent.SetShader(common.HUDShader)
	bg.SpaceComponent = common.SpaceComponent{Width: float32(w), Height: float32(h)}
	rs.Add(&bg.BasicEntity, &bg.RenderComponent, &bg.SpaceComponent)
}

// Exit is called when the scene is exiting
func (scene *Scene) Exit() {
	scene.logger.Info(context.Background(), "engo scene closed", "tick", scene.sim.CurrentTick)
}

// Run opens a window and blocks until it is closed
func Run(sim *engine.Simulation, cfg *config.Config, logger *logging.Logger) {
	engo.Run(engo.RunOptions{
		Title:  "ksp2d",
		Width:  cfg.Frontend.Width,
		Height: cfg.Frontend.Height,
	}, NewScene(sim, cfg, logger))
}
