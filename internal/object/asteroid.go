package object

import (
	"math/rand"

	"github.com/tomz197/starfall/internal/physics"
)

// Tier is an asteroid's size stage. Each projectile hit moves it one stage
// down the chain Large -> Medium -> Small -> removed.
type Tier int

const (
	TierLarge  Tier = 1
	TierMedium Tier = 2
	TierSmall  Tier = 3
)

// tierPoints is the score for hitting an asteroid of each tier.
var tierPoints = map[Tier]int{
	TierLarge:  3,
	TierMedium: 2,
	TierSmall:  1,
}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierLarge:
		return "large"
	case TierMedium:
		return "medium"
	case TierSmall:
		return "small"
	default:
		return "unknown"
	}
}

// Next returns the tier after a hit. ok is false when the asteroid is destroyed.
func (t Tier) Next() (next Tier, ok bool) {
	if t >= TierSmall {
		return 0, false
	}
	return t + 1, true
}

// Points returns the score awarded for hitting an asteroid of this tier.
func (t Tier) Points() int {
	return tierPoints[t]
}

// Asteroid is a drifting rock. It carries its tier explicitly and moves
// along a unit direction at a constant speed.
type Asteroid struct {
	Pos      physics.Vec2 // Centre position
	Dir      physics.Vec2 // Unit direction, or zero for a stationary rock
	Speed    float64      // Units per 60Hz frame
	Tier     Tier
	Size     float64   // Bounding box edge length for the current tier
	Vertices []float64 // Vertex radius factors for the irregular outline
	removed  bool      // Pending compaction
}

// newVertices generates an irregular outline of 8-12 vertices.
func newVertices(rng *rand.Rand) []float64 {
	numVerts := 8 + rng.Intn(5)
	vertices := make([]float64, numVerts)
	for i := range vertices {
		// 70-100% of the radius keeps the outline inside the bounding box
		vertices[i] = 0.7 + rng.Float64()*0.3
	}
	return vertices
}

// Advance moves the asteroid by the given number of reference frames.
func (a *Asteroid) Advance(frames float64) {
	a.Pos = a.Pos.Add(a.Dir.Scale(a.Speed * frames))
}

// Bounds returns the asteroid's axis-aligned box.
func (a Asteroid) Bounds() physics.Rect {
	return physics.RectAround(a.Pos, a.Size, a.Size)
}

// Removed reports whether the asteroid is pending removal.
func (a Asteroid) Removed() bool {
	return a.removed
}
