package core

// RuntimeConfig carries the platform parameters a game session starts with.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Loop iterations per second (default 60)
	Seed     int64 // RNG seed, 0 means seed from the wall clock
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal at 60 Hz.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}
