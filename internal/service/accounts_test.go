package service

import (
	"context"
	"testing"
	"time"

	"github.com/and161185/dragon-arena/internal/arena"
	"github.com/and161185/dragon-arena/internal/errs"
)

func TestCreateAccount_Defaults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if err := e.accounts.CreateAccount(ctx, "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	acc, err := e.accounts.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.ClusterID != 0 || acc.DragonID != nil || !acc.DragonChange.Equal(arena.Epoch) {
		t.Fatalf("unexpected fresh account: %+v", acc)
	}
}

func TestCreateAccount_Duplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if err := e.accounts.CreateAccount(ctx, "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	wantErr(t, e.accounts.CreateAccount(ctx, "alice"), errs.ErrAlreadyExists)
	wantErr(t, e.accounts.CreateAccount(ctx, ""), errs.ErrInvalidArgument)
}

func TestSelectDragon_OwnerAndExistence(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	aliceDragon := e.player(t, "alice")
	if err := e.accounts.CreateAccount(ctx, "bob"); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	wantErr(t, e.accounts.SelectDragon(ctx, "bob", &aliceDragon), errs.ErrNotOwner)
	wantErr(t, e.accounts.SelectDragon(ctx, "bob", ptr(uint64(99))), errs.ErrNotFound)
	wantErr(t, e.accounts.SelectDragon(ctx, "carol", &aliceDragon), errs.ErrNotFound)

	acc, err := e.accounts.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.DragonID == nil || *acc.DragonID != aliceDragon {
		t.Fatalf("owner selection not stored: %+v", acc)
	}
	if !acc.DragonChange.Equal(e.clock.now) {
		t.Fatalf("selection time %v, want %v", acc.DragonChange, e.clock.now)
	}
}

// A second change is allowed only once strictly more than 24h passed since the last one.
func TestSelectDragon_Cooldown(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := e.player(t, "alice")
	second, err := e.dragons.Mint(ctx, admin, "alice")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	e.clock.Advance(time.Hour)
	wantErr(t, e.accounts.SelectDragon(ctx, "alice", &second), errs.ErrRateLimited)

	e.clock.Advance(23 * time.Hour)
	wantErr(t, e.accounts.SelectDragon(ctx, "alice", &second), errs.ErrRateLimited)

	e.clock.Advance(time.Microsecond)
	if err := e.accounts.SelectDragon(ctx, "alice", &second); err != nil {
		t.Fatalf("select after cooldown: %v", err)
	}

	// Clearing the selection is a change too.
	wantErr(t, e.accounts.SelectDragon(ctx, "alice", nil), errs.ErrRateLimited)

	acc, _ := e.accounts.GetAccount(ctx, "alice")
	if acc.DragonID == nil || *acc.DragonID != second || *acc.DragonID == first {
		t.Fatalf("selection = %v, want %d", acc.DragonID, second)
	}

	e.clock.Advance(25 * time.Hour)
	if err := e.accounts.SelectDragon(ctx, "alice", nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	acc, _ = e.accounts.GetAccount(ctx, "alice")
	if acc.DragonID != nil {
		t.Fatalf("selection not cleared: %v", *acc.DragonID)
	}
}

func TestSelectCluster_NoExistenceCheck(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if err := e.accounts.CreateAccount(ctx, "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.accounts.SelectCluster(ctx, "alice", 42); err != nil {
		t.Fatalf("select cluster: %v", err)
	}
	acc, _ := e.accounts.GetAccount(ctx, "alice")
	if acc.ClusterID != 42 {
		t.Fatalf("cluster = %d", acc.ClusterID)
	}
	wantErr(t, e.accounts.SelectCluster(ctx, "bob", 1), errs.ErrNotFound)
}
