package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Frames per second driving Tick()
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState summarizes a game for the platform after each step.
type GameState struct {
	LevelID int  // Active level, 0 when none
	Moves   int  // Moves committed in the current attempt
	Won     bool // Whether the current level is solved
}

// StepResult is returned by Step() after each frame.
type StepResult struct {
	State GameState
}
