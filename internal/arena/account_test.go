package arena

import (
	"errors"
	"testing"
	"time"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/limiter"
)

func TestNewAccount(t *testing.T) {
	t.Parallel()

	acc := NewAccount("alice")
	if acc.Identity != "alice" || acc.ClusterID != 0 || acc.DragonID != nil || !acc.DragonChange.Equal(Epoch) {
		t.Fatalf("unexpected account: %+v", acc)
	}
}

func TestSelectDragon_OwnershipAndCooldown(t *testing.T) {
	t.Parallel()

	gate := limiter.NewCooldown(limiter.DragonChangeCooldown)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	acc := NewAccount("alice")
	mine := NewDragon(1, "alice", 0)
	theirs := NewDragon(2, "bob", 0)

	if err := SelectDragon(&acc, &theirs, now, gate); !errors.Is(err, errs.ErrNotOwner) {
		t.Fatalf("want ErrNotOwner, got %v", err)
	}
	if acc.DragonID != nil || !acc.DragonChange.Equal(Epoch) {
		t.Fatalf("failed select must not mutate: %+v", acc)
	}

	if err := SelectDragon(&acc, &mine, now, gate); err != nil {
		t.Fatalf("SelectDragon: %v", err)
	}
	if acc.DragonID == nil || *acc.DragonID != 1 || !acc.DragonChange.Equal(now) {
		t.Fatalf("selection not stored: %+v", acc)
	}

	// Second change inside the window is rejected, including clearing.
	if err := SelectDragon(&acc, nil, now.Add(23*time.Hour), gate); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited within a day, got %v", err)
	}
	if err := SelectDragon(&acc, &mine, now.Add(24*time.Hour), gate); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited at exactly a day, got %v", err)
	}

	later := now.Add(24*time.Hour + time.Second)
	if err := SelectDragon(&acc, nil, later, gate); err != nil {
		t.Fatalf("clear after cooldown: %v", err)
	}
	if acc.DragonID != nil || !acc.DragonChange.Equal(later) {
		t.Fatalf("clear not stored: %+v", acc)
	}
}

func TestSelectedDragon(t *testing.T) {
	t.Parallel()

	acc := NewAccount("a")
	if _, err := SelectedDragon(&acc); !errors.Is(err, errs.ErrNoDragonSelected) {
		t.Fatalf("want ErrNoDragonSelected, got %v", err)
	}
	id := uint64(4)
	acc.DragonID = &id
	got, err := SelectedDragon(&acc)
	if err != nil || got != 4 {
		t.Fatalf("got=%d err=%v", got, err)
	}
}
