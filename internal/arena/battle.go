package arena

import (
	"bytes"
	"fmt"
	"time"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/model"
)

const (
	// BattleMaxDuration is how long a battle waits for reveals before resolving anyway.
	BattleMaxDuration = 10 * time.Minute
	// MaxRevealedActions caps a revealed action sequence.
	MaxRevealedActions = 256
)

// NewBattle creates a battle between a freshly paired dragon (a) and the one that was waiting (b).
func NewBattle(a, b uint64, now time.Time) model.Battle {
	return model.Battle{
		ID:        model.BattleID(a, b),
		CreatedAt: now,
		DragonA:   a,
		DragonB:   b,
	}
}

func sideOf(b *model.Battle, dragonID uint64) (isA bool, err error) {
	switch dragonID {
	case b.DragonA:
		return true, nil
	case b.DragonB:
		return false, nil
	default:
		return false, fmt.Errorf("dragon %d in battle %s: %w", dragonID, b.ID, errs.ErrNotParticipant)
	}
}

// Commit stores the participant's commitment hash, replacing any earlier one.
// It reports false when the battle is already resolved and nothing changed.
func Commit(b *model.Battle, dragonID uint64, hash []byte) (bool, error) {
	isA, err := sideOf(b, dragonID)
	if err != nil {
		return false, err
	}
	if b.Resolved {
		return false, nil
	}
	h := bytes.Clone(hash)
	if isA {
		b.HashA = h
	} else {
		b.HashB = h
	}
	return true, nil
}

// Reveal stores the participant's raw actions, replacing any earlier ones. Each action
// must index one of the dragon's skills. The commitment is not checked.
// It reports false when the battle is already resolved and nothing changed.
func Reveal(b *model.Battle, d *model.Dragon, actions []byte) (bool, error) {
	isA, err := sideOf(b, d.ID)
	if err != nil {
		return false, err
	}
	if b.Resolved {
		return false, nil
	}
	if len(actions) > MaxRevealedActions {
		return false, fmt.Errorf("%d actions > %d: %w", len(actions), MaxRevealedActions, errs.ErrInvalidArgument)
	}
	for i, a := range actions {
		if int(a) >= len(d.Skills) {
			return false, fmt.Errorf("action[%d] skill %d of %d: %w", i, a, len(d.Skills), errs.ErrNotFound)
		}
	}
	acts := append([]byte{}, actions...)
	if isA {
		b.ActionsA = acts
	} else {
		b.ActionsB = acts
	}
	return true, nil
}

// Complete reports whether the battle can be resolved at now: both sides revealed
// non-empty actions, or the deadline passed.
func Complete(b *model.Battle, now time.Time) bool {
	if b.Resolved {
		return false
	}
	if len(b.ActionsA) > 0 && len(b.ActionsB) > 0 {
		return true
	}
	return !now.Before(b.CreatedAt.Add(BattleMaxDuration))
}

// Settle resolves the battle, writes the resulting constitutions into both dragons
// and marks the battle resolved. a and bd must be the battle's A and B dragons.
func Settle(b *model.Battle, a, bd *model.Dragon, now time.Time) (Outcome, error) {
	if a.ID != b.DragonA || bd.ID != b.DragonB {
		return Outcome{}, fmt.Errorf("settle %s with dragons %d/%d: %w", b.ID, a.ID, bd.ID, errs.ErrInvalidArgument)
	}
	out, err := Resolve(
		Fighter{Skills: a.Skills, Constitution: a.Constitution, Actions: b.ActionsA},
		Fighter{Skills: bd.Skills, Constitution: bd.Constitution, Actions: b.ActionsB},
	)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve %s: %w", b.ID, err)
	}
	a.Constitution = out.A
	bd.Constitution = out.B
	b.Resolved = true
	b.ResolvedAt = now
	return out, nil
}
