package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-flappy/internal/driver"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestOscillatorRange(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveNoise} {
		osc := NewOscillator(440, 10*time.Millisecond, wave, SampleRate)
		buf := make([][2]float64, 1024)
		n, _ := osc.Stream(buf)
		for i := 0; i < n; i++ {
			if buf[i][0] < -1.0 || buf[i][0] > 1.0 {
				t.Fatalf("wave %d sample %d out of range: %f", wave, i, buf[i][0])
			}
			if buf[i][0] != buf[i][1] {
				t.Fatalf("wave %d sample %d not mono", wave, i)
			}
		}
	}
}

func TestOscillatorLength(t *testing.T) {
	osc := NewOscillator(440, 20*time.Millisecond, WaveSine, SampleRate)
	total, _ := drain(osc)
	if want := SampleRate.N(20 * time.Millisecond); total != want {
		t.Errorf("expected %d samples, got %d", want, total)
	}
}

func TestEnvelopeStartsSilent(t *testing.T) {
	osc := NewOscillator(440, 50*time.Millisecond, WaveSquare, SampleRate)
	env := NewEnvelope(osc, 50*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, SampleRate)

	buf := make([][2]float64, 4)
	env.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("first sample should be silent, got %f", buf[0][0])
	}
	if math.Abs(buf[3][0]) >= 1.0 {
		t.Errorf("attack should still be ramping, got %f", buf[3][0])
	}
}

func TestCueLengths(t *testing.T) {
	tests := []struct {
		name   string
		sound  Sound
		length time.Duration
	}{
		{"flap", SoundFlap, flapDuration},
		{"score", SoundScore, scoreNote1Duration + scoreNote2Duration},
		{"crash", SoundCrash, crashDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, peak := drain(tt.sound.Streamer(1.0))
			want := SampleRate.N(tt.length)
			// Rounding in sequenced halves may shift a sample.
			if total < want-1 || total > want+1 {
				t.Errorf("expected about %d samples, got %d", want, total)
			}
			if peak == 0 {
				t.Error("cue is silent")
			}
		})
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(FlapSound(0))
	if peak != 0 {
		t.Errorf("expected silence, peak %f", peak)
	}
}

type recordingPlayer struct {
	played int
}

func (p *recordingPlayer) Play(beep.Streamer) { p.played++ }

func frame(status flappy.Status, score int) driver.Frame {
	return driver.Frame{Snapshot: &flappy.Snapshot{Status: status, Score: score}}
}

func TestCuesOnFrame(t *testing.T) {
	player := &recordingPlayer{}
	c := NewCues(player, 1.0)

	f := frame(flappy.StatusRunning, 0)
	f.Tapped = true
	if got := c.OnFrame(f); len(got) != 1 || got[0] != SoundFlap {
		t.Fatalf("tap: expected [flap], got %v", got)
	}

	if got := c.OnFrame(frame(flappy.StatusRunning, 0)); len(got) != 0 {
		t.Fatalf("quiet frame: expected nothing, got %v", got)
	}

	if got := c.OnFrame(frame(flappy.StatusRunning, 1)); len(got) != 1 || got[0] != SoundScore {
		t.Fatalf("score: expected [score], got %v", got)
	}

	end := frame(flappy.StatusGameOver, 1)
	end.Ended = true
	if got := c.OnFrame(end); len(got) != 1 || got[0] != SoundCrash {
		t.Fatalf("end: expected [crash], got %v", got)
	}

	if got := c.OnFrame(frame(flappy.StatusGameOver, 1)); len(got) != 0 {
		t.Fatalf("after end: expected nothing, got %v", got)
	}

	if player.played != 3 {
		t.Errorf("expected 3 cues played, got %d", player.played)
	}
}

func TestCuesResetOnIdle(t *testing.T) {
	c := NewCues(nil, 1.0)
	c.OnFrame(frame(flappy.StatusRunning, 4))
	c.OnFrame(frame(flappy.StatusIdle, 0))

	if got := c.OnFrame(frame(flappy.StatusRunning, 1)); len(got) != 1 || got[0] != SoundScore {
		t.Errorf("expected score cue after restart, got %v", got)
	}
}

func TestCuesIgnoreEmptyFrame(t *testing.T) {
	c := NewCues(nil, 1.0)
	if got := c.OnFrame(driver.Frame{}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
