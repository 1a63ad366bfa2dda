package config

import (
	"fmt"
	"time"
)

// Game contains every tunable parameter of the simulation.
// Speeds are expressed in playfield units per frame at the 60Hz reference
// rate; timers are in seconds.
type Game struct {
	Playfield  Playfield  `yaml:"playfield"`
	Ship       Ship       `yaml:"ship"`
	Projectile Projectile `yaml:"projectile"`
	Asteroids  Asteroids  `yaml:"asteroids"`
	Session    Session    `yaml:"session"`
	Timing     Timing     `yaml:"timing"`
}

// Playfield defines the visible simulation rectangle.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Ship defines the player ship parameters.
type Ship struct {
	Lives        int     `yaml:"lives"`
	Smoothing    float64 `yaml:"smoothing"`     // Fraction of the angular gap closed per frame
	FireCooldown float64 `yaml:"fire_cooldown"` // Seconds between shots
	HitFlash     float64 `yaml:"hit_flash"`     // Seconds the hit flag stays raised
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	NoseOffset   float64 `yaml:"nose_offset"` // Fraction of height ahead of centre where shots spawn
}

// Projectile defines bullet parameters.
type Projectile struct {
	Speed float64 `yaml:"speed"`
	Size  float64 `yaml:"size"`
}

// Asteroids defines spawner and tier parameters.
type Asteroids struct {
	SpawnInterval float64 `yaml:"spawn_interval"`
	Speed         float64 `yaml:"speed"`
	LargeSize     float64 `yaml:"large_size"`
	MediumSize    float64 `yaml:"medium_size"`
	SmallSize     float64 `yaml:"small_size"`
}

// Session defines state machine timers.
type Session struct {
	Transition   float64 `yaml:"transition"`     // Menu to play cross-fade, seconds
	GameOverFade float64 `yaml:"game_over_fade"` // Game-over overlay fade-in, seconds
}

// Timing defines the fixed simulation step.
type Timing struct {
	TickRate int `yaml:"tick_rate"`
}

// TickTime returns the fixed simulation step duration.
func (t Timing) TickTime() time.Duration {
	if t.TickRate <= 0 {
		return time.Second / ReferenceRate
	}
	return time.Second / time.Duration(t.TickRate)
}

// Validate checks that the configuration describes a playable game.
func (g Game) Validate() error {
	switch {
	case g.Playfield.Width <= 0 || g.Playfield.Height <= 0:
		return fmt.Errorf("config: playfield must have positive size, got %vx%v", g.Playfield.Width, g.Playfield.Height)
	case g.Ship.Lives <= 0:
		return fmt.Errorf("config: ship.lives must be positive, got %d", g.Ship.Lives)
	case g.Ship.Smoothing <= 0 || g.Ship.Smoothing > 1:
		return fmt.Errorf("config: ship.smoothing must be in (0,1], got %v", g.Ship.Smoothing)
	case g.Ship.Width <= 0 || g.Ship.Height <= 0:
		return fmt.Errorf("config: ship size must be positive")
	case g.Ship.FireCooldown < 0 || g.Ship.HitFlash < 0:
		return fmt.Errorf("config: ship timers must not be negative")
	case g.Ship.NoseOffset < 0:
		return fmt.Errorf("config: ship.nose_offset must not be negative, got %v", g.Ship.NoseOffset)
	case g.Projectile.Speed < 0:
		return fmt.Errorf("config: projectile.speed must not be negative, got %v", g.Projectile.Speed)
	case g.Asteroids.Speed < 0:
		return fmt.Errorf("config: asteroids.speed must not be negative, got %v", g.Asteroids.Speed)
	case g.Session.Transition < 0 || g.Session.GameOverFade < 0:
		return fmt.Errorf("config: session timers must not be negative")
	case g.Projectile.Size <= 0:
		return fmt.Errorf("config: projectile.size must be positive")
	case g.Asteroids.SpawnInterval <= 0:
		return fmt.Errorf("config: asteroids.spawn_interval must be positive, got %v", g.Asteroids.SpawnInterval)
	case g.Asteroids.LargeSize <= 0 || g.Asteroids.MediumSize <= 0 || g.Asteroids.SmallSize <= 0:
		return fmt.Errorf("config: asteroid sizes must be positive")
	case g.Timing.TickRate <= 0:
		return fmt.Errorf("config: timing.tick_rate must be positive, got %d", g.Timing.TickRate)
	}
	return nil
}
