// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested account, dragon, cluster, battle or skill does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner indicates the caller does not own the dragon it tried to use.
	ErrNotOwner = errors.New("not owner")

	// ErrNotParticipant indicates a battle action by a dragon that is not part of the battle.
	ErrNotParticipant = errors.New("not a battle participant")

	// ErrUnauthorized indicates a privileged operation attempted by a non-privileged caller.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates a dragon reselection before the cooldown elapsed.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a duplicate account or cluster.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInsufficientProgress indicates a level-up without enough experience.
	ErrInsufficientProgress = errors.New("insufficient progress")

	// ErrNoDragonSelected indicates a battle operation by an account without a selected dragon.
	ErrNoDragonSelected = errors.New("no dragon selected")

	// ErrLevelTooHigh indicates the selected dragon exceeds the cluster level cap.
	ErrLevelTooHigh = errors.New("dragon level too high for cluster")

	// ErrInvalidArgument indicates malformed input (bad battle id, empty identity, ...).
	ErrInvalidArgument = errors.New("invalid argument")
)
