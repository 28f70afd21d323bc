// pkg/input/latch.go
package input

import (
	"sync"
	"time"

	"github.com/Aminion/ksp2d/pkg/engine"
)

// DefaultHold covers the gap between the first key press and terminal
// auto-repeat
const DefaultHold = 550 * time.Millisecond

// Latch turns key presses into held intents for terminals, which report
// presses and auto-repeats but never releases. An intent stays held until
// hold has passed without another press. Latch implements engine.IntentSource.
type Latch struct {
	mu      sync.Mutex
	hold    time.Duration
	now     func() time.Time
	expires [engine.CutThrottle + 1]time.Time
	pulse   engine.IntentSet
}

// NewLatch creates a latch with the given hold time
func NewLatch(hold time.Duration) *Latch {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Latch{hold: hold, now: time.Now}
}

// Press records a key press for intent
func (l *Latch) Press(intent engine.Intent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if int(intent) >= len(l.expires) {
		return
	}
	l.expires[intent] = l.now().Add(l.hold)
	l.pulse = l.pulse.With(intent)
}

// Release drops intent immediately
func (l *Latch) Release(intent engine.Intent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if int(intent) < len(l.expires) {
		l.expires[intent] = time.Time{}
	}
}

// Intents returns the snapshot for the next tick. A press seen since the
// last snapshot counts even if it already expired.
func (l *Latch) Intents() engine.IntentSet {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	set := l.pulse
	for i, exp := range l.expires {
		if now.Before(exp) {
			set = set.With(engine.Intent(i))
		}
	}
	l.pulse = 0
	return set
}
