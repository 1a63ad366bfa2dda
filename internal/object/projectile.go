package object

import (
	"math"

	"github.com/tomz197/starfall/internal/physics"
)

// Projectile is a shot fired by the ship. It travels in a straight line at
// a constant speed along the heading inherited at fire time.
type Projectile struct {
	Pos     physics.Vec2 // Centre position
	Heading float64      // Degrees, same convention as Ship.Heading
	Speed   float64      // Units per 60Hz frame
	Size    float64      // Sprite edge length
	spent   bool         // Hit something this frame, pending compaction
}

// Advance moves the projectile by the given number of reference frames.
func (p *Projectile) Advance(frames float64) {
	p.Pos = p.Pos.Add(physics.HeadingVector(p.Heading).Scale(p.Speed * frames))
}

// Bounds returns the axis-aligned box around the rotated sprite.
func (p Projectile) Bounds() physics.Rect {
	return physics.RotatedBounds(p.Pos, p.Size, p.Size, p.Heading)
}

// Spent reports whether the projectile has already hit an asteroid this frame.
func (p Projectile) Spent() bool {
	return p.spent
}

// MaxExtent returns the largest box edge the projectile can have at any heading.
func (p Projectile) MaxExtent() float64 {
	return p.Size * math.Sqrt2
}
