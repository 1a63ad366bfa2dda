package object

import (
	"math"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

// fireEpsilon absorbs float and nanosecond rounding drift when fixed steps
// sum exactly to the cooldown.
const fireEpsilon = 1e-6

// Ship is the player-controlled spaceship. It follows the pointer and turns
// smoothly toward the direction the pointer is moving.
type Ship struct {
	Pos         physics.Vec2 // Centre position
	Heading     float64      // Degrees, 0 = nose up, clockwise positive
	Lives       int          // Remaining lives (may drop below zero; callers clamp for display)
	Projectiles []Projectile // Live shots, oldest first

	Width  float64 // Unrotated sprite width
	Height float64 // Unrotated sprite height

	smoothing       float64 // Fraction of the angular gap closed per steer call
	fireRate        float64 // Minimum seconds between shots
	sinceFire       float64 // Seconds since the last successful shot
	hitFlashTime    float64 // How long the hit flag stays raised
	hitFlash        float64 // Seconds until the hit flag clears
	noseOffset      float64 // Fraction of Height ahead of centre where shots spawn
	projectileSpeed float64 // Units per 60Hz frame
	projectileSize  float64
	initialLives    int
}

// NewShip creates a ship at pos using the given tuning.
func NewShip(cfg config.Game, pos physics.Vec2) *Ship {
	s := &Ship{
		Width:           cfg.Ship.Width,
		Height:          cfg.Ship.Height,
		smoothing:       cfg.Ship.Smoothing,
		fireRate:        cfg.Ship.FireCooldown,
		hitFlashTime:    cfg.Ship.HitFlash,
		noseOffset:      cfg.Ship.NoseOffset,
		projectileSpeed: cfg.Projectile.Speed,
		projectileSize:  cfg.Projectile.Size,
		initialLives:    cfg.Ship.Lives,
	}
	s.Reset(pos)
	return s
}

// Reset restores full lives, clears shots and timers and places the ship at pos.
func (s *Ship) Reset(pos physics.Vec2) {
	s.Pos = pos
	s.Heading = 0
	s.Lives = s.initialLives
	s.Projectiles = s.Projectiles[:0]
	s.sinceFire = s.fireRate // First shot is available immediately
	s.hitFlash = 0
}

// SteerToward moves the ship to the pointer and, when the pointer moved,
// turns the heading a fixed fraction of the remaining gap toward the
// direction of motion. The heading never snaps to the target.
func (s *Ship) SteerToward(pointer, delta physics.Vec2) {
	s.Pos = pointer
	if delta.IsZero() {
		return
	}

	target := physics.PointerAngle(delta)
	diff := physics.WrapDegrees(target - s.Heading)
	s.Heading = physics.NormalizeDegrees(s.Heading + diff*s.smoothing)
}

// Tick advances the fire cooldown clock by dt seconds.
func (s *Ship) Tick(dt float64) {
	s.sinceFire += dt
}

// CanFire reports whether the cooldown has elapsed.
func (s *Ship) CanFire() bool {
	return s.sinceFire+fireEpsilon >= s.fireRate
}

// Fire spawns a projectile at the ship's nose if the cooldown allows it.
// Firing during the cooldown is a silent no-op. Reports whether a shot was fired.
func (s *Ship) Fire() bool {
	if !s.CanFire() {
		return false
	}
	s.sinceFire = 0

	dir := physics.HeadingVector(s.Heading)
	nose := s.Pos.Add(dir.Scale(s.Height * s.noseOffset))
	s.Projectiles = append(s.Projectiles, Projectile{
		Pos:     nose,
		Heading: s.Heading,
		Speed:   s.projectileSpeed,
		Size:    s.projectileSize,
	})
	return true
}

// AdvanceProjectiles moves every shot along its heading and drops those
// whose sprite has fully left bounds.
func (s *Ship) AdvanceProjectiles(bounds physics.Rect, dt float64) {
	frames := dt * config.ReferenceRate
	kept := s.Projectiles[:0] // reuse backing array
	for _, p := range s.Projectiles {
		p.Advance(frames)
		if bounds.Intersects(p.Bounds()) {
			kept = append(kept, p)
		}
	}
	s.Projectiles = kept
}

// SpendProjectile marks shot i as used up. It stays in place until
// CompactProjectiles so indices held by the caller remain valid.
func (s *Ship) SpendProjectile(i int) {
	s.Projectiles[i].spent = true
}

// CompactProjectiles removes spent shots, preserving order.
func (s *Ship) CompactProjectiles() {
	kept := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		if !p.Spent() {
			kept = append(kept, p)
		}
	}
	s.Projectiles = kept
}

// TakeDamage removes exactly one life and raises the hit flag.
func (s *Ship) TakeDamage() {
	s.Lives--
	s.hitFlash = s.hitFlashTime
}

// UpdateHitFlash counts down the hit flag and clears it once expired.
func (s *Ship) UpdateHitFlash(dt float64) {
	if s.hitFlash <= 0 {
		return
	}
	s.hitFlash -= dt
	if s.hitFlash < 0 {
		s.hitFlash = 0
	}
}

// HitFlashing reports whether the hit flag is raised.
func (s *Ship) HitFlashing() bool {
	return s.hitFlash > 0
}

// DisplayLives returns the life count clamped at zero for the HUD.
func (s *Ship) DisplayLives() int {
	return max(s.Lives, 0)
}

// Dead reports whether the ship has run out of lives.
func (s *Ship) Dead() bool {
	return s.Lives <= 0
}

// Bounds returns the axis-aligned box around the rotated sprite.
func (s *Ship) Bounds() physics.Rect {
	return physics.RotatedBounds(s.Pos, s.Width, s.Height, s.Heading)
}

// MaxExtent returns the largest box edge the ship can have at any heading.
func (s *Ship) MaxExtent() float64 {
	return math.Hypot(s.Width, s.Height)
}
