// pkg/audio/effects.go
package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a finite oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewPCG(uint64(freq*1000), 7)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

type envelope struct {
	streamer beep.Streamer
	duration int
	attack   int
	release  int
	position int
}

// NewEnvelope applies a linear attack and release to s
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		duration: rate.N(duration),
		attack:   rate.N(attack),
		release:  rate.N(release),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		switch {
		case e.position < e.attack:
			gain = float64(e.position) / float64(e.attack)
		case e.position >= e.duration-e.release:
			gain = float64(e.duration-e.position) / float64(e.release)
		}
		gain = math.Max(0, math.Min(1, gain))
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// hum is an endless low rumble: two detuned sines over low-passed noise
type hum struct {
	rate   beep.SampleRate
	p1, p2 float64
	noise  float64
	rng    *rand.Rand
}

// NewHum creates the endless thruster rumble
func NewHum(rate beep.SampleRate) beep.Streamer {
	return &hum{rate: rate, rng: rand.New(rand.NewPCG(1, 2))}
}

func (h *hum) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		h.noise += 0.05 * (h.rng.Float64()*2 - 1 - h.noise)
		val := 0.5*math.Sin(2*math.Pi*h.p1) + 0.25*math.Sin(2*math.Pi*h.p2) + 0.25*h.noise
		samples[i][0] = val
		samples[i][1] = val

		h.p1 += 55 / float64(h.rate)
		h.p1 -= math.Floor(h.p1)
		h.p2 += 83.5 / float64(h.rate)
		h.p2 -= math.Floor(h.p2)
	}
	return len(samples), true
}

func (h *hum) Err() error { return nil }
