// pkg/audio/sound_manager.go
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/Aminion/ksp2d/pkg/event"
)

const (
	sampleRate = beep.SampleRate(44100)

	// volume of the hum at full throttle, as a linear gain
	maxHumGain = 0.35
)

// SoundManager plays the thruster hum and landing thuds. Until Initialize
// succeeds every call is a silent no-op on the speaker side, so the
// manager can be driven headless.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	hum         *beep.Ctrl
	volume      *effects.Volume
	throttle    float64
	initialized bool
}

// NewSoundManager builds the mixer graph without touching the audio device
func NewSoundManager() *SoundManager {
	volume := &effects.Volume{Streamer: NewHum(sampleRate), Base: 2, Silent: true}
	hum := &beep.Ctrl{Streamer: volume, Paused: true}
	mixer := &beep.Mixer{}
	mixer.Add(hum)

	return &SoundManager{
		mixer:  mixer,
		hum:    hum,
		volume: volume,
	}
}

// Initialize opens the speaker and starts playback
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}

// SetThrottle sets the hum loudness from the strongest engine throttle in [0, 1]
func (sm *SoundManager) SetThrottle(throttle float64) {
	throttle = math.Max(0, math.Min(1, throttle))

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if throttle == sm.throttle {
		return
	}
	sm.throttle = throttle

	sm.withSpeaker(func() {
		sm.hum.Paused = throttle == 0
		sm.volume.Silent = throttle == 0
		if throttle > 0 {
			sm.volume.Volume = math.Log2(throttle * maxHumGain)
		}
	})
}

// Throttle returns the last throttle passed to SetThrottle
func (sm *SoundManager) Throttle() float64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.throttle
}

// PlayThud plays a short low thump
func (sm *SoundManager) PlayThud() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	thud := NewEnvelope(NewOscillator(48, 250*time.Millisecond, WaveSine, sampleRate),
		250*time.Millisecond, 5*time.Millisecond, 200*time.Millisecond, sampleRate)
	sm.withSpeaker(func() {
		sm.mixer.Add(&effects.Volume{Streamer: thud, Base: 2, Volume: -1})
	})
}

// SubscribeEvents plays a thud on every landing and take-off. The returned
// function removes the subscriptions.
func (sm *SoundManager) SubscribeEvents(bus *event.Bus) func() {
	thud := func(event.Event) { sm.PlayThud() }
	landed := bus.Subscribe(event.BodyLanded, thud)
	tookOff := bus.Subscribe(event.BodyTookOff, thud)
	return func() {
		bus.Unsubscribe(landed)
		bus.Unsubscribe(tookOff)
	}
}

// Streamer exposes the mixer output, mainly for tests and offline rendering
func (sm *SoundManager) Streamer() beep.Streamer {
	return sm.mixer
}

// withSpeaker runs fn while the speaker is not pulling samples
func (sm *SoundManager) withSpeaker(fn func()) {
	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}
