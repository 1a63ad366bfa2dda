package loop

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// timerEpsilon absorbs float and tick rounding drift when fixed steps sum exactly to a duration.
const timerEpsilon = 1e-6

// Debris burst tuning for destroyed asteroids.
const (
	debrisSpeed    = 30.0 // Units per second
	debrisLifetime = 0.6  // Seconds
)

// Session is one player's game: the ship, the asteroid field, the score and
// the menu / transition / playing / game-over state machine. It is driven by
// Step with an explicit frame delta and drawn by Draw; it never reads the
// clock itself.
type Session struct {
	cfg    config.Game
	bounds physics.Rect
	state  GameState

	ship     *object.Ship
	field    *object.AsteroidField
	score    ScoreState
	debris   object.Debris
	resolver *Resolver

	store ScoreStore
	rng   *rand.Rand
	log   *log.Logger

	lastPointer physics.Vec2
	hasPointer  bool

	transition  float64 // Seconds spent in Transitioning
	fade        float64 // Seconds spent in GameOver
	clock       float64 // Seconds since the session started, drives blinking
	pendingSave bool    // High score raised but not yet persisted
	done        bool
}

// NewSession creates a session in the main menu. The high score is loaded
// from store once; a load failure is returned and the session is not usable.
func NewSession(cfg config.Game, store ScoreStore, rng *rand.Rand, logger *log.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	high, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load high score: %w", err)
	}

	bounds := physics.NewRect(0, 0, cfg.Playfield.Width, cfg.Playfield.Height)
	ship := object.NewShip(cfg, bounds.Center())
	field := object.NewAsteroidField(cfg.Asteroids)

	s := &Session{
		cfg:      cfg,
		bounds:   bounds,
		state:    GameStateMainMenu,
		ship:     ship,
		field:    field,
		score:    ScoreState{HighScore: high},
		resolver: NewResolver(bounds, CollisionReach(ship, field, cfg.Projectile.Size)),
		store:    store,
		rng:      rng,
		log:      logger,
	}
	logger.Debug("session created", "high_score", high)
	return s, nil
}

// State returns the current game state.
func (s *Session) State() GameState {
	return s.state
}

// Done reports whether the player chose to exit.
func (s *Session) Done() bool {
	return s.done
}

// Score returns the running and high score.
func (s *Session) Score() ScoreState {
	return s.score
}

// Bounds returns the playfield rectangle.
func (s *Session) Bounds() physics.Rect {
	return s.bounds
}

// Step advances the session by dt using the controls sampled for this frame.
func (s *Session) Step(dt time.Duration, in Controls) {
	if s.done {
		return
	}
	sec := dt.Seconds()
	s.clock += sec

	if in.Quit {
		s.exit()
		return
	}

	var delta physics.Vec2
	if s.hasPointer {
		delta = in.Pointer.Sub(s.lastPointer)
	}
	s.lastPointer, s.hasPointer = in.Pointer, true

	switch s.state {
	case GameStateMainMenu:
		if s.pressed(s.menuButtons(), in) == actionStart {
			s.startRun()
			s.setState(GameStateTransitioning)
		}

	case GameStateTransitioning:
		s.ship.SteerToward(in.Pointer, delta)
		s.debris.Advance(sec)
		s.transition += sec
		if s.transition+timerEpsilon >= s.cfg.Session.Transition {
			s.setState(GameStatePlaying)
		}

	case GameStatePlaying:
		s.play(sec, in, delta)

	case GameStateGameOver:
		s.debris.Advance(sec)
		s.fade = min(s.fade+sec, s.cfg.Session.GameOverFade)
		if s.fade+timerEpsilon < s.cfg.Session.GameOverFade {
			return
		}
		switch s.pressed(s.gameOverButtons(), in) {
		case actionPlayAgain:
			s.Restart()
		case actionExit:
			s.exit()
		}
	}
}

// play runs one simulation frame. The order matters: collisions use the
// positions from this frame's asteroid advance and the previous frame's
// projectile advance, and the high score check sees every hit of the frame.
func (s *Session) play(dt float64, in Controls, delta physics.Vec2) {
	s.ship.SteerToward(in.Pointer, delta)
	s.ship.Tick(dt)
	if in.Fire {
		s.ship.Fire()
	}

	s.field.Advance(s.bounds, dt)
	s.field.Spawn(s.bounds, s.rng, dt)

	if hits := s.resolver.ResolveShipHits(s.ship, s.field); hits > 0 {
		s.log.Debug("ship hit", "hits", hits, "lives", s.ship.DisplayLives())
	}
	s.ship.UpdateHitFlash(dt)
	s.resolver.ResolveProjectileHits(s.ship, s.field, &s.score)
	s.ship.AdvanceProjectiles(s.bounds, dt)

	for _, impact := range s.resolver.TakeImpacts() {
		s.debris.Burst(impact.Pos, int(impact.Size/2)+4, debrisSpeed, debrisLifetime, s.rng)
	}
	s.debris.Advance(dt)

	s.checkHighScore()

	if s.ship.Dead() {
		s.gameOver()
	}
}

// checkHighScore raises and persists the high score when the run beats it.
// A failed save is logged and retried on the next increase or at game over.
func (s *Session) checkHighScore() {
	if s.score.Score <= s.score.HighScore {
		return
	}
	s.score.HighScore = s.score.Score
	if !s.score.NewRecord {
		s.score.NewRecord = true
		s.log.Info("new high score", "score", s.score.Score)
	}
	s.pendingSave = true
	s.saveHighScore()
}

func (s *Session) saveHighScore() {
	if !s.pendingSave {
		return
	}
	if err := s.store.Save(s.score.HighScore); err != nil {
		s.log.Warn("failed to save high score", "score", s.score.HighScore, "err", err)
		return
	}
	s.pendingSave = false
}

func (s *Session) gameOver() {
	s.fade = 0
	s.saveHighScore()
	s.setState(GameStateGameOver)
	s.log.Info("game over", "score", s.score.Score, "high_score", s.score.HighScore)

	if rec, ok := s.store.(runRecorder); ok {
		if err := rec.RecordRun(s.score.Score); err != nil {
			s.log.Warn("failed to record run", "score", s.score.Score, "err", err)
		}
	}
}

// startRun puts the ship, field and score into their initial state.
func (s *Session) startRun() {
	pos := s.bounds.Center()
	if s.hasPointer {
		pos = s.lastPointer
	}
	s.ship.Reset(pos)
	s.field.Reset()
	s.debris.Reset()
	s.resolver.TakeImpacts()
	s.score.Score = 0
	s.score.NewRecord = false
	s.transition = 0
	s.fade = 0
}

// Restart begins a fresh run: score 0, full lives, no asteroids or
// projectiles, spawn and fade timers reset, straight into Playing.
func (s *Session) Restart() {
	s.startRun()
	s.setState(GameStatePlaying)
}

func (s *Session) exit() {
	s.saveHighScore()
	s.done = true
	s.log.Debug("session exit", "state", s.state)
}

func (s *Session) setState(next GameState) {
	if next == s.state {
		return
	}
	s.log.Debug("state change", "from", s.state, "to", next)
	s.state = next
}
