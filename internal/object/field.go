package object

import (
	"math/rand"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/physics"
)

// spawnEpsilon absorbs float and nanosecond rounding drift when fixed steps
// sum exactly to the interval.
const spawnEpsilon = 1e-6

// Spawn sides, chosen uniformly.
const (
	sideTop = iota
	sideRight
	sideBottom
	sideLeft
)

// AsteroidField owns the live asteroids and spawns a new one on a fixed
// interval at a random playfield edge. Asteroids are kept in insertion
// order; removals are deferred until Compact so indices stay stable while
// collisions are being resolved.
type AsteroidField struct {
	Asteroids []Asteroid

	interval   float64 // Seconds between spawns
	speed      float64 // Units per 60Hz frame
	sizes      map[Tier]float64
	spawnClock float64 // Seconds accumulated toward the next spawn
}

// NewAsteroidField creates an empty field with the given tuning.
func NewAsteroidField(cfg config.Asteroids) *AsteroidField {
	return &AsteroidField{
		interval: cfg.SpawnInterval,
		speed:    cfg.Speed,
		sizes: map[Tier]float64{
			TierLarge:  cfg.LargeSize,
			TierMedium: cfg.MediumSize,
			TierSmall:  cfg.SmallSize,
		},
	}
}

// Reset removes every asteroid and restarts the spawn clock.
func (f *AsteroidField) Reset() {
	f.Asteroids = f.Asteroids[:0]
	f.spawnClock = 0
}

// Len returns the number of asteroids, including ones pending removal.
func (f *AsteroidField) Len() int {
	return len(f.Asteroids)
}

// SizeOf returns the bounding box edge for a tier.
func (f *AsteroidField) SizeOf(t Tier) float64 {
	return f.sizes[t]
}

// MaxSize returns the largest asteroid edge length of any tier.
func (f *AsteroidField) MaxSize() float64 {
	return max(f.sizes[TierLarge], f.sizes[TierMedium], f.sizes[TierSmall])
}

// Spawn accumulates dt and, once the interval has elapsed, spawns exactly
// one asteroid just outside a random edge of bounds and resets the clock.
// Reports whether an asteroid was spawned.
func (f *AsteroidField) Spawn(bounds physics.Rect, rng *rand.Rand, dt float64) bool {
	f.spawnClock += dt
	if f.spawnClock+spawnEpsilon < f.interval {
		return false
	}
	f.spawnClock = 0

	tier := Tier(1 + rng.Intn(3))
	size := f.sizes[tier]
	// Centre sits a quarter extent outside the edge so the sprite straddles it
	outset := size / 4

	var pos physics.Vec2
	switch rng.Intn(4) {
	case sideTop:
		pos = physics.V(bounds.X+rng.Float64()*bounds.W, bounds.Y-outset)
	case sideRight:
		pos = physics.V(bounds.Right()+outset, bounds.Y+rng.Float64()*bounds.H)
	case sideBottom:
		pos = physics.V(bounds.X+rng.Float64()*bounds.W, bounds.Bottom()+outset)
	case sideLeft:
		pos = physics.V(bounds.X-outset, bounds.Y+rng.Float64()*bounds.H)
	}

	dir := physics.V(float64(rng.Intn(201)-100), float64(rng.Intn(201)-100)).Normalize()

	f.Asteroids = append(f.Asteroids, Asteroid{
		Pos:      pos,
		Dir:      dir,
		Speed:    f.speed,
		Tier:     tier,
		Size:     size,
		Vertices: newVertices(rng),
	})
	return true
}

// Place adds an asteroid of the given tier at pos moving along dir.
// dir is normalized; a zero dir yields a stationary asteroid.
func (f *AsteroidField) Place(pos, dir physics.Vec2, tier Tier) int {
	f.Asteroids = append(f.Asteroids, Asteroid{
		Pos:      pos,
		Dir:      dir.Normalize(),
		Speed:    f.speed,
		Tier:     tier,
		Size:     f.sizes[tier],
		Vertices: []float64{1, 0.85, 1, 0.9, 1, 0.8, 1, 0.95},
	})
	return len(f.Asteroids) - 1
}

// Advance moves every asteroid and drops those fully outside bounds.
func (f *AsteroidField) Advance(bounds physics.Rect, dt float64) {
	frames := dt * config.ReferenceRate
	kept := f.Asteroids[:0] // reuse backing array
	for _, a := range f.Asteroids {
		a.Advance(frames)
		if bounds.Intersects(a.Bounds()) {
			kept = append(kept, a)
		}
	}
	f.Asteroids = kept
}

// Downgrade moves asteroid i one tier down and returns the points earned.
// A small asteroid is marked for removal instead.
func (f *AsteroidField) Downgrade(i int) (points int, removed bool) {
	a := &f.Asteroids[i]
	points = a.Tier.Points()
	next, ok := a.Tier.Next()
	if !ok {
		a.removed = true
		return points, true
	}
	a.Tier = next
	a.Size = f.sizes[next]
	return points, false
}

// Remove marks asteroid i for removal.
func (f *AsteroidField) Remove(i int) {
	f.Asteroids[i].removed = true
}

// Compact drops asteroids marked for removal, preserving order.
func (f *AsteroidField) Compact() {
	kept := f.Asteroids[:0]
	for _, a := range f.Asteroids {
		if !a.removed {
			kept = append(kept, a)
		}
	}
	f.Asteroids = kept
}
