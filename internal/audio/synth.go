// Package audio synthesizes the game's sound cues and plays them through
// the system speaker.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate every cue is synthesized at.
const SampleRate = beep.SampleRate(44100)

// Cue timings
const (
	flapDuration = 70 * time.Millisecond
	flapAttack   = 5 * time.Millisecond
	flapRelease  = 40 * time.Millisecond

	scoreNote1Duration = 70 * time.Millisecond
	scoreNote2Duration = 180 * time.Millisecond
	scoreAttack        = 5 * time.Millisecond
	scoreNote1Release  = 30 * time.Millisecond
	scoreNote2Release  = 140 * time.Millisecond

	crashDuration = 350 * time.Millisecond
	crashAttack   = 2 * time.Millisecond
	crashRelease  = 300 * time.Millisecond
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a finite oscillator. Noise is seeded so cues are
// reproducible.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(1)),
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
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
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

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	totalSamples int
}

// NewEnvelope shapes s with an attack ramp and a release ramp.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		release:      rate.N(release),
		totalSamples: rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.release
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= releaseStart && e.release > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// FlapSound is a short rising square chirp.
func FlapSound(volume float64) beep.Streamer {
	low := NewOscillator(520, flapDuration/2, WaveSquare, SampleRate)
	high := NewOscillator(780, flapDuration/2, WaveSquare, SampleRate)
	shaped := NewEnvelope(beep.Seq(low, high), flapDuration, flapAttack, flapRelease, SampleRate)
	return newVolume(shaped, 0.25*volume)
}

// ScoreSound is a two-note sine chime (B5, E6).
func ScoreSound(volume float64) beep.Streamer {
	n1 := NewOscillator(987.77, scoreNote1Duration, WaveSine, SampleRate)
	n1Shaped := NewEnvelope(n1, scoreNote1Duration, scoreAttack, scoreNote1Release, SampleRate)

	n2 := NewOscillator(1318.51, scoreNote2Duration, WaveSine, SampleRate)
	n2Shaped := NewEnvelope(n2, scoreNote2Duration, scoreAttack, scoreNote2Release, SampleRate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), 0.5*volume)
}

// CrashSound is a decaying noise burst.
func CrashSound(volume float64) beep.Streamer {
	noise := NewOscillator(0, crashDuration, WaveNoise, SampleRate)
	shaped := NewEnvelope(noise, crashDuration, crashAttack, crashRelease, SampleRate)
	return newVolume(shaped, 0.4*volume)
}
