package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/and161185/dragon-arena/internal/arena"
	"github.com/and161185/dragon-arena/internal/limiter"
	"github.com/and161185/dragon-arena/internal/model"
	"github.com/and161185/dragon-arena/internal/repository"
	"github.com/and161185/dragon-arena/internal/repository/memory"
)

const admin = "admin"

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var _ Clock = (*fakeClock)(nil)

// fakeRand returns the queued bytes in order, then repeats the last one.
type fakeRand struct {
	bytes []byte
	err   error
}

func (r *fakeRand) Byte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	if len(r.bytes) == 0 {
		return 0, nil
	}
	b := r.bytes[0]
	if len(r.bytes) > 1 {
		r.bytes = r.bytes[1:]
	}
	return b, nil
}

var _ RandSource = (*fakeRand)(nil)

type env struct {
	store    *memory.Store
	clock    *fakeClock
	rnd      *fakeRand
	accounts *AccountServiceImpl
	dragons  *DragonServiceImpl
	battles  *BattleServiceImpl
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	if err := repository.Bootstrap(context.Background(), store, arena.DefaultCluster()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	rnd := &fakeRand{}
	logger := zaptest.NewLogger(t)
	return &env{
		store:    store,
		clock:    clock,
		rnd:      rnd,
		accounts: NewAccountService(store, clock, limiter.NewCooldown(limiter.DragonChangeCooldown), logger),
		dragons:  NewDragonService(store, rnd, admin, logger),
		battles:  NewBattleService(store, clock, admin, logger),
	}
}

// player creates an account, mints it a dragon and selects it.
func (e *env) player(t *testing.T, identity string) uint64 {
	t.Helper()
	ctx := context.Background()
	if err := e.accounts.CreateAccount(ctx, identity); err != nil {
		t.Fatalf("create %s: %v", identity, err)
	}
	id, err := e.dragons.Mint(ctx, admin, identity)
	if err != nil {
		t.Fatalf("mint for %s: %v", identity, err)
	}
	if err := e.accounts.SelectDragon(ctx, identity, &id); err != nil {
		t.Fatalf("select for %s: %v", identity, err)
	}
	return id
}

// putDragon overwrites a stored dragon, for tests that need specific stats.
func (e *env) putDragon(t *testing.T, d model.Dragon) {
	t.Helper()
	err := e.store.InTx(context.Background(), func(ctx context.Context, kv repository.KV) error {
		return repository.NewTx(kv).PutDragon(ctx, &d)
	})
	if err != nil {
		t.Fatalf("put dragon %d: %v", d.ID, err)
	}
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("want %v, got %v", target, err)
	}
}

func ptr[T any](v T) *T { return &v }
