package arena

import (
	"fmt"
	"time"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/limiter"
	"github.com/and161185/dragon-arena/internal/model"
)

// Epoch is the selection timestamp of a fresh account.
var Epoch = time.Unix(0, 0).UTC()

// NewAccount returns the initial record for an identity: cluster 0, nothing selected.
func NewAccount(identity string) model.Account {
	return model.Account{
		Identity:     identity,
		ClusterID:    0,
		DragonChange: Epoch,
	}
}

// SelectDragon selects d for the account, or clears the selection when d is nil.
// Ownership is checked first, then the change cooldown.
func SelectDragon(acc *model.Account, d *model.Dragon, now time.Time, gate limiter.Limiter) error {
	if d != nil && d.Owner != acc.Identity {
		return fmt.Errorf("dragon %d: %w", d.ID, errs.ErrNotOwner)
	}
	if ok, retry := gate.Allow(acc.DragonChange, now); !ok {
		return fmt.Errorf("dragon change allowed in %s: %w", retry, errs.ErrRateLimited)
	}
	if d == nil {
		acc.DragonID = nil
	} else {
		id := d.ID
		acc.DragonID = &id
	}
	acc.DragonChange = now
	return nil
}

// SelectedDragon returns the account's active dragon id.
func SelectedDragon(acc *model.Account) (uint64, error) {
	if acc.DragonID == nil {
		return 0, fmt.Errorf("account %q: %w", acc.Identity, errs.ErrNoDragonSelected)
	}
	return *acc.DragonID, nil
}
