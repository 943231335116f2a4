package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/and161185/dragon-arena/internal/arena"
	"github.com/and161185/dragon-arena/internal/crypto"
	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/model"
)

func commitment(t *testing.T, actions []byte) []byte {
	t.Helper()
	return crypto.CommitActions([]byte("salt"), actions)
}

// pair puts alice's dragon in the slot and pairs bob's with it.
func pair(t *testing.T, e *env) (battleID string, alice, bob uint64) {
	t.Helper()
	ctx := context.Background()
	alice = e.player(t, "alice")
	bob = e.player(t, "bob")

	id, paired, err := e.battles.StartBattle(ctx, "alice")
	if err != nil || paired || id != "" {
		t.Fatalf("first start: id=%q paired=%v err=%v", id, paired, err)
	}
	id, paired, err = e.battles.StartBattle(ctx, "bob")
	if err != nil || !paired {
		t.Fatalf("second start: paired=%v err=%v", paired, err)
	}
	return id, alice, bob
}

func TestStartBattle_Matchmaking(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.player(t, "alice")
	bob := e.player(t, "bob")

	_, paired, err := e.battles.StartBattle(ctx, "alice")
	if err != nil || paired {
		t.Fatalf("first start: paired=%v err=%v", paired, err)
	}
	c, _ := e.battles.GetCluster(ctx, 0)
	if c.Waiting == nil || *c.Waiting != alice {
		t.Fatalf("slot = %v, want %d", c.Waiting, alice)
	}

	// Rejoining while already waiting changes nothing.
	_, paired, err = e.battles.StartBattle(ctx, "alice")
	if err != nil || paired {
		t.Fatalf("rejoin: paired=%v err=%v", paired, err)
	}

	id, paired, err := e.battles.StartBattle(ctx, "bob")
	if err != nil || !paired {
		t.Fatalf("second start: paired=%v err=%v", paired, err)
	}
	if want := model.BattleID(bob, alice); id != want {
		t.Fatalf("battle id = %q, want %q", id, want)
	}
	c, _ = e.battles.GetCluster(ctx, 0)
	if c.Waiting != nil {
		t.Fatalf("slot not cleared: %d", *c.Waiting)
	}
	b, err := e.battles.GetBattle(ctx, id)
	if err != nil {
		t.Fatalf("get battle: %v", err)
	}
	if b.DragonA != bob || b.DragonB != alice || !b.CreatedAt.Equal(e.clock.now) || b.State() != model.BattleCreated {
		t.Fatalf("unexpected battle: %+v", b)
	}
}

func TestStartBattle_Preconditions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, _, err := e.battles.StartBattle(ctx, "ghost")
	wantErr(t, err, errs.ErrNotFound)

	if err := e.accounts.CreateAccount(ctx, "carol"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _, err = e.battles.StartBattle(ctx, "carol")
	wantErr(t, err, errs.ErrNoDragonSelected)

	id := e.player(t, "alice")
	if err := e.accounts.SelectCluster(ctx, "alice", 9); err != nil {
		t.Fatalf("select cluster: %v", err)
	}
	_, _, err = e.battles.StartBattle(ctx, "alice")
	wantErr(t, err, errs.ErrNotFound)

	wantErr(t, e.battles.CreateCluster(ctx, "alice", 9, 0), errs.ErrUnauthorized)
	if err := e.battles.CreateCluster(ctx, admin, 9, 0); err != nil {
		t.Fatalf("create cluster: %v", err)
	}
	wantErr(t, e.battles.CreateCluster(ctx, admin, 9, 3), errs.ErrAlreadyExists)

	d, _ := e.dragons.GetDragon(ctx, id)
	d.Level = 1
	e.putDragon(t, *d)
	_, _, err = e.battles.StartBattle(ctx, "alice")
	wantErr(t, err, errs.ErrLevelTooHigh)

	c, _ := e.battles.GetCluster(ctx, 9)
	if c.Waiting != nil {
		t.Fatalf("rejected dragon must not occupy the slot")
	}
}

func TestBattle_CommitRevealResolves(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id, alice, bob := pair(t, e)

	// Bob (side A) hits harder than alice (side B).
	e.putDragon(t, model.Dragon{ID: bob, Owner: "bob", Skills: []model.Skill{arena.StarterSkill()},
		Constitution: model.Constitution{MaxHP: 10, Attack: [5]uint32{4, 1, 1, 1, 1}, Defense: [5]uint32{1, 1, 1, 1, 1}}})
	e.putDragon(t, model.Dragon{ID: alice, Owner: "alice", Skills: []model.Skill{arena.StarterSkill()},
		Constitution: model.Constitution{MaxHP: 10, Attack: [5]uint32{2, 1, 1, 1, 1}, Defense: [5]uint32{1, 1, 1, 1, 1}}})

	if err := e.battles.CommitActions(ctx, "bob", id, commitment(t, []byte{0, 0})); err != nil {
		t.Fatalf("commit bob: %v", err)
	}
	if err := e.battles.CommitActions(ctx, "alice", id, commitment(t, []byte{0})); err != nil {
		t.Fatalf("commit alice: %v", err)
	}
	b, _ := e.battles.GetBattle(ctx, id)
	if b.State() != model.BattleCommitting {
		t.Fatalf("state = %s", b.State())
	}

	b, err := e.battles.RevealActions(ctx, "bob", id, []byte{0, 0})
	if err != nil {
		t.Fatalf("reveal bob: %v", err)
	}
	if b.State() != model.BattleRevealing {
		t.Fatalf("state after one reveal = %s", b.State())
	}

	e.clock.Advance(time.Minute)
	b, err = e.battles.RevealActions(ctx, "alice", id, []byte{0})
	if err != nil {
		t.Fatalf("reveal alice: %v", err)
	}
	if !b.Resolved || !b.ResolvedAt.Equal(e.clock.now) {
		t.Fatalf("battle not resolved: %+v", b)
	}

	// Two rounds: bob deals 3 per hit, alice deals 1.
	gotBob, _ := e.dragons.GetDragon(ctx, bob)
	gotAlice, _ := e.dragons.GetDragon(ctx, alice)
	if gotBob.Constitution.MaxHP != 8 || gotAlice.Constitution.MaxHP != 4 {
		t.Fatalf("hp after battle: bob=%d alice=%d", gotBob.Constitution.MaxHP, gotAlice.Constitution.MaxHP)
	}
}

func TestBattle_CommitNotCheckedAgainstReveal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id, _, _ := pair(t, e)

	if err := e.battles.CommitActions(ctx, "alice", id, commitment(t, []byte{0, 0, 0})); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b, err := e.battles.RevealActions(ctx, "alice", id, []byte{0})
	if err != nil {
		t.Fatalf("reveal of unrelated actions must succeed: %v", err)
	}
	if !bytes.Equal(b.ActionsB, []byte{0}) {
		t.Fatalf("actions = %v", b.ActionsB)
	}
}

func TestBattle_NonParticipantAndValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id, _, _ := pair(t, e)
	e.player(t, "mallory")

	h := commitment(t, nil)
	wantErr(t, e.battles.CommitActions(ctx, "mallory", id, h), errs.ErrNotParticipant)
	_, err := e.battles.RevealActions(ctx, "mallory", id, []byte{0})
	wantErr(t, err, errs.ErrNotParticipant)

	wantErr(t, e.battles.CommitActions(ctx, "alice", "7:9", h), errs.ErrNotFound)
	wantErr(t, e.battles.CommitActions(ctx, "alice", "nope", h), errs.ErrInvalidArgument)
	wantErr(t, e.battles.CommitActions(ctx, "alice", id, h[:31]), errs.ErrInvalidArgument)

	// An out-of-range skill index is rejected and nothing is stored.
	_, err = e.battles.RevealActions(ctx, "alice", id, []byte{0, 1})
	wantErr(t, err, errs.ErrNotFound)
	b, _ := e.battles.GetBattle(ctx, id)
	if b.ActionsB != nil {
		t.Fatalf("failed reveal left actions: %v", b.ActionsB)
	}
}

func TestBattle_TimeoutResolvesWithDefaults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id, alice, bob := pair(t, e)

	e.clock.Advance(arena.BattleMaxDuration)
	b, err := e.battles.RevealActions(ctx, "alice", id, []byte{})
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !b.Resolved {
		t.Fatalf("battle past deadline must resolve")
	}

	// Both sides fall back to skill 0 for one round: 1 damage each.
	for _, dragonID := range []uint64{alice, bob} {
		d, _ := e.dragons.GetDragon(ctx, dragonID)
		if d.Constitution.MaxHP != 9 {
			t.Fatalf("dragon %d hp = %d, want 9", dragonID, d.Constitution.MaxHP)
		}
	}
}

func TestBattle_ResolvedIsNoop(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id, alice, _ := pair(t, e)

	if _, err := e.battles.RevealActions(ctx, "bob", id, []byte{0}); err != nil {
		t.Fatalf("reveal bob: %v", err)
	}
	if _, err := e.battles.RevealActions(ctx, "alice", id, []byte{0}); err != nil {
		t.Fatalf("reveal alice: %v", err)
	}
	before, _ := e.dragons.GetDragon(ctx, alice)

	if err := e.battles.CommitActions(ctx, "alice", id, commitment(t, []byte{1})); err != nil {
		t.Fatalf("commit on resolved: %v", err)
	}
	b, err := e.battles.RevealActions(ctx, "alice", id, []byte{0, 0, 0})
	if err != nil {
		t.Fatalf("reveal on resolved: %v", err)
	}
	if b.HashB != nil || !bytes.Equal(b.ActionsB, []byte{0}) {
		t.Fatalf("resolved battle changed: %+v", b)
	}
	after, _ := e.dragons.GetDragon(ctx, alice)
	if after.Constitution != before.Constitution {
		t.Fatalf("resolved battle fought again")
	}

	e.player(t, "mallory")
	wantErr(t, e.battles.CommitActions(ctx, "mallory", id, commitment(t, nil)), errs.ErrNotParticipant)
}

func TestBattle_RevealLogsOnlyWhenApplied(t *testing.T) {
	e := newEnv(t)
	core, logs := observer.New(zap.DebugLevel)
	e.battles.logger = zap.New(core)
	ctx := context.Background()
	id, _, _ := pair(t, e)

	if _, err := e.battles.RevealActions(ctx, "bob", id, []byte{0}); err != nil {
		t.Fatalf("reveal bob: %v", err)
	}
	if n := logs.FilterMessage("actions revealed").Len(); n != 1 {
		t.Fatalf("first reveal logged %d times, want 1", n)
	}
	if _, err := e.battles.RevealActions(ctx, "alice", id, []byte{0}); err != nil {
		t.Fatalf("reveal alice: %v", err)
	}
	if n := logs.FilterMessage("battle resolved").Len(); n != 1 {
		t.Fatalf("resolution logged %d times, want 1", n)
	}

	before := logs.Len()
	if _, err := e.battles.RevealActions(ctx, "alice", id, []byte{0, 0}); err != nil {
		t.Fatalf("reveal on resolved: %v", err)
	}
	if logs.Len() != before {
		t.Fatalf("no-op reveal logged: %v", logs.All()[before:])
	}
}
