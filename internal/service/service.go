// Package service contains application services for accounts, dragons and battles.
//
// Every exported operation runs as one repository transaction: it loads the records it
// needs, applies the arena rules and writes the results back. Any error discards all
// writes of the call.
package service

import (
	"fmt"
	"time"

	"github.com/and161185/dragon-arena/internal/errs"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC at the microsecond resolution records keep.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// RandSource draws one random byte.
type RandSource interface {
	Byte() (byte, error)
}

func requireIdentity(identity string) error {
	if identity == "" {
		return fmt.Errorf("validation: empty identity: %w", errs.ErrInvalidArgument)
	}
	return nil
}

// requirePrivileged admits only the configured owner identity.
func requirePrivileged(caller, owner string) error {
	if owner == "" || caller != owner {
		return fmt.Errorf("caller %q: %w", caller, errs.ErrUnauthorized)
	}
	return nil
}
