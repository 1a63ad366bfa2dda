package loop

import (
	"github.com/tomz197/starfall/internal/object"
	"github.com/tomz197/starfall/internal/physics"
)

// Impact is an asteroid destroyed during collision resolution.
type Impact struct {
	Pos  physics.Vec2
	Size float64
}

// Resolver detects ship and projectile overlaps with asteroids and applies
// damage, scoring and removal. Asteroids are bucketed into a uniform grid
// each call; candidates come back in field order so the first match is the
// same one a linear scan would find.
type Resolver struct {
	grid       *physics.SpatialGrid
	candidates []int
	impacts    []Impact
}

// NewResolver creates a resolver for the playfield. reach is the largest
// centre-to-centre distance on one axis at which two boxes can overlap.
func NewResolver(bounds physics.Rect, reach float64) *Resolver {
	return &Resolver{
		grid: physics.NewSpatialGrid(bounds, reach),
	}
}

// CollisionReach returns the grid cell size needed for ship and shots against the field.
func CollisionReach(ship *object.Ship, field *object.AsteroidField, projectileSize float64) float64 {
	shot := object.Projectile{Size: projectileSize}
	return (field.MaxSize() + max(ship.MaxExtent(), shot.MaxExtent())) / 2
}

// index rebuilds the grid from the live asteroids.
func (r *Resolver) index(field *object.AsteroidField) {
	r.grid.Clear()
	for i := range field.Asteroids {
		if !field.Asteroids[i].Removed() {
			r.grid.Insert(field.Asteroids[i].Pos, i)
		}
	}
}

// ResolveShipHits removes every asteroid overlapping the ship, one life per
// asteroid, in field order. Scanning stops once the ship has no lives left.
// Returns the number of hits.
func (r *Resolver) ResolveShipHits(ship *object.Ship, field *object.AsteroidField) int {
	r.index(field)
	box := ship.Bounds()
	hits := 0

	r.candidates = r.grid.Candidates(ship.Pos, r.candidates)
	for _, i := range r.candidates {
		a := &field.Asteroids[i]
		if a.Removed() || !box.Intersects(a.Bounds()) {
			continue
		}

		ship.TakeDamage()
		r.impacts = append(r.impacts, Impact{Pos: a.Pos, Size: a.Size})
		field.Remove(i)
		hits++

		if ship.Dead() {
			break
		}
	}

	field.Compact()
	return hits
}

// ResolveProjectileHits lets every projectile, oldest first, hit the first
// overlapping asteroid in field order. The asteroid drops a tier, the points
// go to score and the projectile is spent. A projectile hits at most once.
// Returns the number of hits.
func (r *Resolver) ResolveProjectileHits(ship *object.Ship, field *object.AsteroidField, score *ScoreState) int {
	r.index(field)
	hits := 0

	for pi := range ship.Projectiles {
		box := ship.Projectiles[pi].Bounds()

		r.candidates = r.grid.Candidates(ship.Projectiles[pi].Pos, r.candidates)
		for _, i := range r.candidates {
			a := &field.Asteroids[i]
			if a.Removed() || !box.Intersects(a.Bounds()) {
				continue
			}

			pos, size := a.Pos, a.Size
			points, removed := field.Downgrade(i)
			score.Add(points)
			if removed {
				r.impacts = append(r.impacts, Impact{Pos: pos, Size: size})
			}
			ship.SpendProjectile(pi)
			hits++
			break
		}
	}

	ship.CompactProjectiles()
	field.Compact()
	return hits
}

// TakeImpacts returns the asteroids destroyed since the last call and forgets them.
// The slice is only valid until the next Resolve call.
func (r *Resolver) TakeImpacts() []Impact {
	impacts := r.impacts
	r.impacts = r.impacts[:0]
	return impacts
}
