package core

// Action is a semantic input intent, abstracted from physical keys and clicks.
type Action int

const (
	ActionNone       Action = iota
	ActionTap               // Space, Up, W, mouse click - flap / start
	ActionRestart           // R - new run after game over
	ActionQuit              // Q, Ctrl+C
	ActionScreenshot        // Ctrl+S - dump the current frame to a file
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTap:
		return "Tap"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}
