// Package limiter defines cooldown gates for repeated per-record actions.
package limiter

import "time"

// Limiter decides whether an action may happen again.
type Limiter interface {
	// Allow reports whether an action at now is allowed given the last accepted one,
	// and how long to wait otherwise.
	Allow(last, now time.Time) (bool, time.Duration)
}
