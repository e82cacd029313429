package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-flappy/internal/driver"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// Sound identifies a cue.
type Sound int

const (
	SoundFlap Sound = iota
	SoundScore
	SoundCrash
)

// String returns the cue name.
func (s Sound) String() string {
	switch s {
	case SoundFlap:
		return "flap"
	case SoundScore:
		return "score"
	case SoundCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// Streamer builds the streamer for a cue at the given volume.
func (s Sound) Streamer(volume float64) beep.Streamer {
	switch s {
	case SoundFlap:
		return FlapSound(volume)
	case SoundScore:
		return ScoreSound(volume)
	case SoundCrash:
		return CrashSound(volume)
	default:
		return nil
	}
}

// Player plays finished streamers.
type Player interface {
	Play(s beep.Streamer)
}

// Speaker plays through the system audio device via a shared mixer.
type Speaker struct {
	mu    sync.Mutex
	mixer *beep.Mixer
}

// OpenSpeaker initializes the audio device. Callers treat an error as
// "no sound" and keep running.
func OpenSpeaker() (*Speaker, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return nil, err
	}
	sp := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(sp.mixer)
	return sp, nil
}

// Play mixes s into the output.
func (sp *Speaker) Play(s beep.Streamer) {
	speaker.Lock()
	sp.mixer.Add(s)
	speaker.Unlock()
}

// Close stops all playback.
func (sp *Speaker) Close() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	speaker.Clear()
	speaker.Close()
}

// Cues turns driver frames into sound cues.
type Cues struct {
	player    Player
	volume    float64
	lastScore int
}

// NewCues creates cues played on p. A nil player makes every cue silent.
func NewCues(p Player, volume float64) *Cues {
	return &Cues{player: p, volume: volume}
}

// OnFrame plays the cues a frame calls for and returns them.
func (c *Cues) OnFrame(f driver.Frame) []Sound {
	s := f.Snapshot
	if s == nil {
		return nil
	}

	var sounds []Sound
	if s.Status == flappy.StatusIdle {
		c.lastScore = 0
	}
	if f.Tapped && s.Running() {
		sounds = append(sounds, SoundFlap)
	}
	if s.Score > c.lastScore {
		sounds = append(sounds, SoundScore)
	}
	c.lastScore = s.Score
	if f.Ended {
		sounds = append(sounds, SoundCrash)
	}

	if c.player != nil {
		for _, snd := range sounds {
			c.player.Play(snd.Streamer(c.volume))
		}
	}
	return sounds
}

// Listener adapts OnFrame to a driver listener.
func (c *Cues) Listener() func(driver.Frame) {
	return func(f driver.Frame) {
		c.OnFrame(f)
	}
}
