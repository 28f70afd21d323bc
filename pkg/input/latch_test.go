// pkg/input/latch_test.go
package input

import (
	"testing"
	"time"

	"github.com/Aminion/ksp2d/pkg/engine"
)

func TestLatch(t *testing.T) {
	clock := time.Unix(100, 0)
	l := NewLatch(time.Second)
	l.now = func() time.Time { return clock }

	var _ engine.IntentSource = l

	if !l.Intents().Empty() {
		t.Fatal("new latch holds intents")
	}

	l.Press(engine.ThrustForward)
	clock = clock.Add(500 * time.Millisecond)
	if got := l.Intents(); !got.Has(engine.ThrustForward) {
		t.Errorf("Intents() = %v, want thrust held", got)
	}

	// auto-repeat extends the hold
	l.Press(engine.ThrustForward)
	clock = clock.Add(900 * time.Millisecond)
	if got := l.Intents(); !got.Has(engine.ThrustForward) {
		t.Errorf("Intents() = %v, want thrust still held", got)
	}

	clock = clock.Add(200 * time.Millisecond)
	if got := l.Intents(); !got.Empty() {
		t.Errorf("Intents() = %v, want released after hold", got)
	}
}

func TestLatch_ShortPressIsNotLost(t *testing.T) {
	clock := time.Unix(100, 0)
	l := NewLatch(10 * time.Millisecond)
	l.now = func() time.Time { return clock }

	l.Press(engine.CutThrottle)
	clock = clock.Add(time.Second)

	if got := l.Intents(); !got.Has(engine.CutThrottle) {
		t.Errorf("Intents() = %v, want the press delivered once", got)
	}
	if got := l.Intents(); !got.Empty() {
		t.Errorf("Intents() = %v, want empty on the next tick", got)
	}
}

func TestLatch_Release(t *testing.T) {
	l := NewLatch(0)
	if l.hold != DefaultHold {
		t.Errorf("hold = %v, want default", l.hold)
	}

	l.Press(engine.RotateLeft)
	l.Press(engine.StrafeRight)
	_ = l.Intents()
	l.Release(engine.RotateLeft)

	got := l.Intents()
	if got.Has(engine.RotateLeft) || !got.Has(engine.StrafeRight) {
		t.Errorf("Intents() = %v", got)
	}
}
