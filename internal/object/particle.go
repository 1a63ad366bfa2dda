package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/starfall/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived cosmetic fragment. It never collides.
type Particle struct {
	Pos         physics.Vec2
	Vel         physics.Vec2 // Units per second
	Lifetime    float64      // Seconds remaining
	MaxLifetime float64      // Initial lifetime (for fade calculation)
	Drag        float64      // Velocity decay per reference frame (1.0 = no drag)
}

// newParticle creates a single particle from the pool.
func newParticle(pos, vel physics.Vec2, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.Pos = pos
	p.Vel = vel
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	return p
}

// release returns the particle to the pool for reuse.
func (p *Particle) release() {
	particlePool.Put(p)
}

// Faded reports whether the particle is in the last quarter of its life.
func (p *Particle) Faded() bool {
	return p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25
}

// update moves the particle; returns true once it has expired.
func (p *Particle) update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.Vel = p.Vel.Scale(dragFactor)
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	return false
}

// Debris owns the active particles.
type Debris struct {
	Particles []*Particle
}

// Burst emits count particles in a circular pattern around pos.
func (d *Debris) Burst(pos physics.Vec2, count int, speed, lifetime float64, rng *rand.Rand) {
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rng.Float64())
		// Random lifetime variation (50% to 100%)
		life := lifetime * (0.5 + rng.Float64()*0.5)

		vel := physics.V(math.Cos(angle)*spd, math.Sin(angle)*spd)
		d.Particles = append(d.Particles, newParticle(pos, vel, life))
	}
}

// Advance updates every particle and releases expired ones to the pool.
func (d *Debris) Advance(dt float64) {
	kept := d.Particles[:0]
	for _, p := range d.Particles {
		if p.update(dt) {
			p.release()
			continue
		}
		kept = append(kept, p)
	}
	clear(d.Particles[len(kept):])
	d.Particles = kept
}

// Reset releases every particle.
func (d *Debris) Reset() {
	for _, p := range d.Particles {
		p.release()
	}
	clear(d.Particles)
	d.Particles = d.Particles[:0]
}
