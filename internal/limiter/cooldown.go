package limiter

import "time"

// DragonChangeCooldown is the minimum gap between two dragon selection changes.
const DragonChangeCooldown = 24 * time.Hour

// Cooldown allows an action only once strictly more than Window has elapsed since the last one.
type Cooldown struct {
	window time.Duration
}

// NewCooldown constructs a cooldown gate.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window}
}

// Allow reports whether now-last exceeds the window and a retry-after otherwise.
func (c *Cooldown) Allow(last, now time.Time) (bool, time.Duration) {
	elapsed := now.Sub(last)
	if elapsed > c.window {
		return true, 0
	}
	return false, c.window - elapsed
}
