package engine

import "strings"

// Intent is a discrete control request for the rocket
type Intent uint8

const (
	RotateLeft Intent = iota
	RotateRight
	ThrustForward
	ThrustBackward
	StrafeLeft
	StrafeRight
	CutThrottle

	intentCount
)

var intentNames = [intentCount]string{
	RotateLeft:     "rotate_left",
	RotateRight:    "rotate_right",
	ThrustForward:  "thrust_forward",
	ThrustBackward: "thrust_backward",
	StrafeLeft:     "strafe_left",
	StrafeRight:    "strafe_right",
	CutThrottle:    "cut_throttle",
}

// String returns the intent name
func (i Intent) String() string {
	if i < intentCount {
		return intentNames[i]
	}
	return "unknown"
}

// IntentSet is the snapshot of held intents for one tick
type IntentSet uint16

// NewIntentSet builds a set from the given intents
func NewIntentSet(intents ...Intent) IntentSet {
	var s IntentSet
	for _, i := range intents {
		s = s.With(i)
	}
	return s
}

// Has reports whether the intent is held
func (s IntentSet) Has(i Intent) bool {
	return s&(1<<i) != 0
}

// With returns the set with the intent added
func (s IntentSet) With(i Intent) IntentSet {
	return s | 1<<i
}

// Without returns the set with the intent removed
func (s IntentSet) Without(i Intent) IntentSet {
	return s &^ (1 << i)
}

// Empty reports whether no intent is held
func (s IntentSet) Empty() bool {
	return s == 0
}

func (s IntentSet) String() string {
	var names []string
	for i := Intent(0); i < intentCount; i++ {
		if s.Has(i) {
			names = append(names, i.String())
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}

// IntentSource supplies the intent snapshot for each tick
type IntentSource interface {
	Intents() IntentSet
}

// IntentSourceFunc adapts a function to IntentSource
type IntentSourceFunc func() IntentSet

// Intents calls f
func (f IntentSourceFunc) Intents() IntentSet {
	return f()
}

// NoInput is an IntentSource that never holds any intent
var NoInput IntentSource = IntentSourceFunc(func() IntentSet { return 0 })
