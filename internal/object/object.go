// Package object holds the game entities: the ship and its projectiles,
// the asteroid field, and cosmetic debris.
package object

// ShouldRenderBlink returns true if an element with remaining blink time
// should be rendered this frame (for blinking effect).
// Returns true always if remainingTime <= 0.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	// Blink based on frequency (e.g., 5.0 = 5Hz, 10.0 = 10Hz)
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
