// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/input"
)

// windowKeys maps the shared binding names onto window keys
var windowKeys = map[string][]engo.Key{
	"thrustForward":  {engo.KeyW, engo.KeyArrowUp},
	"thrustBackward": {engo.KeyS, engo.KeyArrowDown},
	"rotateLeft":     {engo.KeyQ, engo.KeyArrowLeft},
	"rotateRight":    {engo.KeyE, engo.KeyArrowRight},
	"strafeLeft":     {engo.KeyA},
	"strafeRight":    {engo.KeyD},
	"cutThrottle":    {engo.KeyX, engo.KeyBackspace},
	"switchCamera":   {engo.KeyC, engo.KeyTab},
	"warpUp":         {engo.KeyPeriod},
	"warpDown":       {engo.KeyComma},
	"zoomIn":         {engo.KeyEquals, engo.KeyNumAdd},
	"zoomOut":        {engo.KeyDash, engo.KeyNumSubtract},
	"quit":           {engo.KeyEscape},
}

// KeysFor returns the window keys bound to a button name
func KeysFor(name string) []engo.Key {
	return windowKeys[name]
}

// SetupInputBindings registers a button per shared binding
func SetupInputBindings() {
	for _, b := range input.Bindings {
		if keys := KeysFor(b.Name); len(keys) > 0 {
			engo.Input.RegisterButton(b.Name, keys...)
		}
	}
}

// buttonReader reports whether a named button is held and whether it was
// pressed this frame
type buttonReader func(name string) (down, justPressed bool)

func engoButtons(name string) (bool, bool) {
	b := engo.Input.Button(name)
	return b.Down(), b.JustPressed()
}

// InputSystem turns held buttons into rocket intents and fresh presses into
// frontend actions. It implements engine.IntentSource.
type InputSystem struct {
	controls *input.Controls
	read     buttonReader
	quit     func()
	intents  engine.IntentSet
}

// NewInputSystem creates an input system; quit runs when the quit button is pressed
func NewInputSystem(controls *input.Controls, quit func()) *InputSystem {
	return &InputSystem{
		controls: controls,
		read:     engoButtons,
		quit:     quit,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(ecs.BasicEntity) {}

// Priority runs input first so the simulation sees this frame's buttons
func (is *InputSystem) Priority() int {
	return 10
}

// Update samples the buttons
func (is *InputSystem) Update(dt float32) {
	var held engine.IntentSet
	for _, b := range input.Bindings {
		down, pressed := is.read(b.Name)
		if b.Action == input.ActionIntent {
			if down {
				held = held.With(b.Intent)
			}
			continue
		}
		if pressed && is.controls.Apply(context.Background(), b.Action) && is.quit != nil {
			is.quit()
		}
	}
	is.intents = held
}

// Intents implements engine.IntentSource
func (is *InputSystem) Intents() engine.IntentSet {
	return is.intents
}
