package loop

import (
	"github.com/tomz197/starfall/internal/draw"
	"github.com/tomz197/starfall/internal/physics"
)

// GameState is the top-level game mode.
type GameState int

const (
	GameStateMainMenu      GameState = iota // Title screen with the start button
	GameStateTransitioning                  // Menu fading out, ship follows the pointer
	GameStatePlaying                        // Active gameplay
	GameStateGameOver                       // Out of lives, play again or exit
)

func (s GameState) String() string {
	switch s {
	case GameStateMainMenu:
		return "main-menu"
	case GameStateTransitioning:
		return "transitioning"
	case GameStatePlaying:
		return "playing"
	case GameStateGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// ScoreState is the running score and the best score seen so far.
type ScoreState struct {
	Score     int  // Current run, never decreases within a run
	HighScore int  // Persisted best
	NewRecord bool // The current run has beaten the high score loaded when it started
}

// Add awards points to the running score. Negative points are ignored.
func (s *ScoreState) Add(points int) {
	if points > 0 {
		s.Score += points
	}
}

// Controls is the input sampled for one simulation step.
type Controls struct {
	Pointer physics.Vec2   // Pointer position in playfield units
	Fire    bool           // Fire key or button held
	Clicks  []physics.Vec2 // Button presses since the previous step, in playfield units
	Confirm bool           // Activate the focused menu button
	Quit    bool
}

// ScoreStore persists the high score.
type ScoreStore interface {
	Load() (int, error)
	Save(score int) error
}

// runRecorder is implemented by stores that keep a history of finished runs.
type runRecorder interface {
	RecordRun(score int) error
}

// Renderer receives one frame of draw requests between Begin and End.
type Renderer interface {
	Begin()
	DrawSprite(s draw.Sprite)
	DrawText(t draw.Text)
	DrawFrame(f draw.Frame)
	End() error
}
