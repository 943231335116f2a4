package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/dragon-arena/internal/arena"
	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/limiter"
	"github.com/and161185/dragon-arena/internal/model"
	"github.com/and161185/dragon-arena/internal/repository"
)

// AccountService manages per-identity accounts.
type AccountService interface {
	// CreateAccount registers identity in the default cluster with nothing selected.
	CreateAccount(ctx context.Context, identity string) error
	// SelectDragon selects one of the caller's dragons, or clears the selection when dragonID is nil.
	SelectDragon(ctx context.Context, identity string, dragonID *uint64) error
	// SelectCluster moves the account to another cluster.
	SelectCluster(ctx context.Context, identity string, clusterID uint64) error
	// GetAccount returns the stored account.
	GetAccount(ctx context.Context, identity string) (*model.Account, error)
}

type AccountServiceImpl struct {
	store  repository.Store
	clock  Clock
	gate   limiter.Limiter
	logger *zap.Logger
}

// NewAccountService constructs AccountService. gate limits how often the selection may change.
func NewAccountService(store repository.Store, clock Clock, gate limiter.Limiter, logger *zap.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{store: store, clock: clock, gate: gate, logger: logger}
}

// CreateAccount fails with errs.ErrAlreadyExists for a known identity.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, identity string) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		tx := repository.NewTx(kv)
		_, err := tx.Account(ctx, identity)
		switch {
		case err == nil:
			return fmt.Errorf("account %q: %w", identity, errs.ErrAlreadyExists)
		case !errors.Is(err, errs.ErrNotFound):
			return err
		}
		acc := arena.NewAccount(identity)
		return tx.PutAccount(ctx, &acc)
	})
	if err != nil {
		return err
	}
	s.logger.Info("account created", zap.String("identity", identity))
	return nil
}

// SelectDragon checks existence, then ownership, then the change cooldown.
func (s *AccountServiceImpl) SelectDragon(ctx context.Context, identity string, dragonID *uint64) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		tx := repository.NewTx(kv)
		acc, err := tx.Account(ctx, identity)
		if err != nil {
			return err
		}
		var d *model.Dragon
		if dragonID != nil {
			if d, err = tx.Dragon(ctx, *dragonID); err != nil {
				return err
			}
		}
		if err := arena.SelectDragon(acc, d, s.clock.Now(), s.gate); err != nil {
			return err
		}
		return tx.PutAccount(ctx, acc)
	})
	if err != nil {
		return err
	}
	if dragonID == nil {
		s.logger.Info("dragon selection cleared", zap.String("identity", identity))
	} else {
		s.logger.Info("dragon selected", zap.String("identity", identity), zap.Uint64("dragon", *dragonID))
	}
	return nil
}

// SelectCluster stores the cluster id as given; the cluster is looked up only when a battle starts.
func (s *AccountServiceImpl) SelectCluster(ctx context.Context, identity string, clusterID uint64) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		tx := repository.NewTx(kv)
		acc, err := tx.Account(ctx, identity)
		if err != nil {
			return err
		}
		acc.ClusterID = clusterID
		return tx.PutAccount(ctx, acc)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("cluster selected", zap.String("identity", identity), zap.Uint64("cluster", clusterID))
	return nil
}

// GetAccount returns the account of identity.
func (s *AccountServiceImpl) GetAccount(ctx context.Context, identity string) (*model.Account, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	var out *model.Account
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		var err error
		out, err = repository.NewTx(kv).Account(ctx, identity)
		return err
	})
	return out, err
}
