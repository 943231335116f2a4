package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/model"
	"github.com/and161185/dragon-arena/internal/record"
)

const dragonSeqKey = "dragon_seq"

// Tx gives typed access to the records of one transaction.
type Tx struct{ kv KV }

// NewTx wraps a transaction-scoped KV.
func NewTx(kv KV) *Tx { return &Tx{kv: kv} }

func idKey(id uint64) string { return strconv.FormatUint(id, 10) }

// Account loads the account of identity.
func (t *Tx) Account(ctx context.Context, identity string) (*model.Account, error) {
	bz, err := t.kv.Get(ctx, Accounts, identity)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", identity, err)
	}
	a, err := record.DecodeAccount(identity, bz)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// PutAccount upserts an account.
func (t *Tx) PutAccount(ctx context.Context, a *model.Account) error {
	bz, err := record.EncodeAccount(*a)
	if err != nil {
		return err
	}
	return t.kv.Put(ctx, Accounts, a.Identity, bz)
}

// Dragon loads a dragon by id.
func (t *Tx) Dragon(ctx context.Context, id uint64) (*model.Dragon, error) {
	bz, err := t.kv.Get(ctx, Dragons, idKey(id))
	if err != nil {
		return nil, fmt.Errorf("dragon %d: %w", id, err)
	}
	d, err := record.DecodeDragon(id, bz)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// PutDragon upserts a dragon.
func (t *Tx) PutDragon(ctx context.Context, d *model.Dragon) error {
	bz, err := record.EncodeDragon(*d)
	if err != nil {
		return err
	}
	return t.kv.Put(ctx, Dragons, idKey(d.ID), bz)
}

// NextDragonID allocates the next sequential dragon id, starting at 0.
func (t *Tx) NextDragonID(ctx context.Context) (uint64, error) {
	var next uint64
	bz, err := t.kv.Get(ctx, Meta, dragonSeqKey)
	switch {
	case err == nil:
		if next, err = record.DecodeCounter(bz); err != nil {
			return 0, err
		}
	case errors.Is(err, errs.ErrNotFound):
	default:
		return 0, fmt.Errorf("dragon sequence: %w", err)
	}
	bz, err = record.EncodeCounter(next + 1)
	if err != nil {
		return 0, err
	}
	if err := t.kv.Put(ctx, Meta, dragonSeqKey, bz); err != nil {
		return 0, err
	}
	return next, nil
}

// Cluster loads a cluster by id.
func (t *Tx) Cluster(ctx context.Context, id uint64) (*model.Cluster, error) {
	bz, err := t.kv.Get(ctx, Clusters, idKey(id))
	if err != nil {
		return nil, fmt.Errorf("cluster %d: %w", id, err)
	}
	c, err := record.DecodeCluster(id, bz)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// PutCluster upserts a cluster.
func (t *Tx) PutCluster(ctx context.Context, c *model.Cluster) error {
	bz, err := record.EncodeCluster(*c)
	if err != nil {
		return err
	}
	return t.kv.Put(ctx, Clusters, idKey(c.ID), bz)
}

// Battle loads a battle by its "<idA>:<idB>" key.
func (t *Tx) Battle(ctx context.Context, id string) (*model.Battle, error) {
	bz, err := t.kv.Get(ctx, Battles, id)
	if err != nil {
		return nil, fmt.Errorf("battle %q: %w", id, err)
	}
	b, err := record.DecodeBattle(id, bz)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// PutBattle upserts a battle.
func (t *Tx) PutBattle(ctx context.Context, b *model.Battle) error {
	bz, err := record.EncodeBattle(*b)
	if err != nil {
		return err
	}
	return t.kv.Put(ctx, Battles, b.ID, bz)
}
