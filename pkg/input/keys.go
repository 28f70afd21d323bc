// Package input maps frontend key events onto rocket intents and
// frontend actions. Both frontends share the binding table.
package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/Aminion/ksp2d/pkg/engine"
)

// Action is a frontend command that is not a rocket intent
type Action int

const (
	ActionNone Action = iota
	ActionIntent
	ActionQuit
	ActionSwitchCamera
	ActionWarpUp
	ActionWarpDown
	ActionZoomIn
	ActionZoomOut
)

// Binding ties a named button to an intent or action
type Binding struct {
	Name   string
	Action Action
	Intent engine.Intent // meaningful only for ActionIntent
	Runes  []rune        // matched case-insensitively
	Keys   []tcell.Key
}

// Bindings is the default key table
var Bindings = []Binding{
	{Name: "thrustForward", Action: ActionIntent, Intent: engine.ThrustForward, Runes: []rune{'w'}, Keys: []tcell.Key{tcell.KeyUp}},
	{Name: "thrustBackward", Action: ActionIntent, Intent: engine.ThrustBackward, Runes: []rune{'s'}, Keys: []tcell.Key{tcell.KeyDown}},
	{Name: "rotateLeft", Action: ActionIntent, Intent: engine.RotateLeft, Runes: []rune{'q'}, Keys: []tcell.Key{tcell.KeyLeft}},
	{Name: "rotateRight", Action: ActionIntent, Intent: engine.RotateRight, Runes: []rune{'e'}, Keys: []tcell.Key{tcell.KeyRight}},
	{Name: "strafeLeft", Action: ActionIntent, Intent: engine.StrafeLeft, Runes: []rune{'a'}},
	{Name: "strafeRight", Action: ActionIntent, Intent: engine.StrafeRight, Runes: []rune{'d'}},
	{Name: "cutThrottle", Action: ActionIntent, Intent: engine.CutThrottle, Runes: []rune{'x'}, Keys: []tcell.Key{tcell.KeyBackspace, tcell.KeyBackspace2}},
	{Name: "switchCamera", Action: ActionSwitchCamera, Runes: []rune{'c'}, Keys: []tcell.Key{tcell.KeyTab}},
	{Name: "warpUp", Action: ActionWarpUp, Runes: []rune{'.', '>'}},
	{Name: "warpDown", Action: ActionWarpDown, Runes: []rune{',', '<'}},
	{Name: "zoomIn", Action: ActionZoomIn, Runes: []rune{'+', '='}},
	{Name: "zoomOut", Action: ActionZoomOut, Runes: []rune{'-', '_'}},
	{Name: "quit", Action: ActionQuit, Keys: []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC}},
}

// Lookup returns the binding matching a tcell key event
func Lookup(ev *tcell.EventKey) (Binding, bool) {
	if ev == nil {
		return Binding{}, false
	}
	return LookupKey(ev.Key(), ev.Rune())
}

// LookupKey returns the binding for a key code, or for r when key is tcell.KeyRune
func LookupKey(key tcell.Key, r rune) (Binding, bool) {
	r = unicode.ToLower(r)
	for _, b := range Bindings {
		if key == tcell.KeyRune {
			for _, br := range b.Runes {
				if br == r {
					return b, true
				}
			}
			continue
		}
		for _, k := range b.Keys {
			if k == key {
				return b, true
			}
		}
	}
	return Binding{}, false
}
