// Package spectate broadcasts live runs to read-only WebSocket viewers.
package spectate

import (
	"github.com/vovakirdan/tui-flappy/internal/driver"
)

// Message types
const (
	TypeFrame = "frame"
	TypeHello = "hello"
)

// ObstacleMessage is one obstacle in a frame message.
type ObstacleMessage struct {
	ID        uint64  `json:"id"`
	X         float64 `json:"x"`
	GapTop    float64 `json:"gap_top"`
	GapHeight float64 `json:"gap_height"`
	Passed    bool    `json:"passed"`
}

// FrameMessage is the JSON document sent to viewers for every frame.
type FrameMessage struct {
	Type           string            `json:"type"`
	Session        string            `json:"session"`
	Tick           uint64            `json:"tick"`
	Status         string            `json:"status"`
	Cause          string            `json:"cause,omitempty"`
	Score          int               `json:"score"`
	Best           int               `json:"best"`
	PlayerY        float64           `json:"player_y"`
	PlayerVelocity float64           `json:"player_velocity"`
	Width          float64           `json:"width"`
	Height         float64           `json:"height"`
	PlayerX        float64           `json:"player_x"`
	PlayerRadius   float64           `json:"player_radius"`
	ObstacleWidth  float64           `json:"obstacle_width"`
	Obstacles      []ObstacleMessage `json:"obstacles"`
}

// HelloMessage is sent once when a viewer connects.
type HelloMessage struct {
	Type    string `json:"type"`
	Viewers int    `json:"viewers"`
}

// NewFrameMessage converts a driver frame for the wire.
func NewFrameMessage(session string, f driver.Frame) FrameMessage {
	s := f.Snapshot
	msg := FrameMessage{
		Type:           TypeFrame,
		Session:        session,
		Tick:           s.Tick,
		Status:         s.Status.String(),
		Score:          s.Score,
		Best:           f.Best,
		PlayerY:        s.PlayerY,
		PlayerVelocity: s.PlayerVelocity,
		Width:          s.Width,
		Height:         s.Height,
		PlayerX:        s.PlayerX,
		PlayerRadius:   s.PlayerRadius,
		ObstacleWidth:  s.ObstacleWidth,
		Obstacles:      make([]ObstacleMessage, 0, len(s.Obstacles)),
	}
	if s.GameOver() {
		msg.Cause = s.Cause.String()
	}
	for _, o := range s.Obstacles {
		msg.Obstacles = append(msg.Obstacles, ObstacleMessage{
			ID:        o.ID,
			X:         o.X,
			GapTop:    o.GapTop,
			GapHeight: o.GapHeight,
			Passed:    o.Passed,
		})
	}
	return msg
}
