package config

import (
	_ "embed"
)

//go:embed defaults/starfall.yaml
var defaultGameYAML []byte

// ReferenceRate is the frame rate at which per-frame speeds are defined.
const ReferenceRate = 60

// Default returns the built-in game configuration.
func Default() Game {
	return Game{
		Playfield: Playfield{
			Width:  240,
			Height: 160,
		},
		Ship: Ship{
			Lives:        3,
			Smoothing:    0.05,
			FireCooldown: 0.3,
			HitFlash:     0.1,
			Width:        8,
			Height:       10,
			NoseOffset:   0.5,
		},
		Projectile: Projectile{
			Speed: 2.0,
			Size:  2,
		},
		Asteroids: Asteroids{
			SpawnInterval: 3.5,
			Speed:         1.0,
			LargeSize:     18,
			MediumSize:    12,
			SmallSize:     7,
		},
		Session: Session{
			Transition:   3.0,
			GameOverFade: 1.5,
		},
		Timing: Timing{
			TickRate: ReferenceRate,
		},
	}
}
