package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/dragon-arena/internal/arena"
	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/model"
	"github.com/and161185/dragon-arena/internal/repository"
)

// DragonService mints dragons and runs progression.
type DragonService interface {
	// Mint creates a generation-0 dragon for owner. Privileged.
	Mint(ctx context.Context, caller, owner string) (uint64, error)
	// LevelUp spends experience of one of the caller's dragons for a level and a new skill.
	LevelUp(ctx context.Context, identity string, dragonID uint64) (*model.Dragon, error)
	// AwardExperience grants experience to a dragon. Privileged.
	AwardExperience(ctx context.Context, caller string, dragonID uint64, amount uint32) (*model.Dragon, error)
	// GetDragon returns the stored dragon.
	GetDragon(ctx context.Context, dragonID uint64) (*model.Dragon, error)
}

type DragonServiceImpl struct {
	store  repository.Store
	rnd    RandSource
	owner  string
	logger *zap.Logger
}

// NewDragonService constructs DragonService. owner is the privileged identity.
func NewDragonService(store repository.Store, rnd RandSource, owner string, logger *zap.Logger) *DragonServiceImpl {
	return &DragonServiceImpl{store: store, rnd: rnd, owner: owner, logger: logger}
}

// Mint allocates the next sequential id. Max HP comes from one random byte.
func (s *DragonServiceImpl) Mint(ctx context.Context, caller, owner string) (uint64, error) {
	if err := requirePrivileged(caller, s.owner); err != nil {
		return 0, err
	}
	if err := requireIdentity(owner); err != nil {
		return 0, err
	}
	roll, err := s.rnd.Byte()
	if err != nil {
		return 0, fmt.Errorf("draw random byte: %w", err)
	}

	var id uint64
	err = s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		tx := repository.NewTx(kv)
		var err error
		if id, err = tx.NextDragonID(ctx); err != nil {
			return err
		}
		d := arena.NewDragon(id, owner, roll)
		return tx.PutDragon(ctx, &d)
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("dragon minted", zap.Uint64("dragon", id), zap.String("owner", owner))
	return id, nil
}

// LevelUp fails with errs.ErrNotOwner for foreign dragons and errs.ErrInsufficientProgress
// below the threshold.
func (s *DragonServiceImpl) LevelUp(ctx context.Context, identity string, dragonID uint64) (*model.Dragon, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	roll, err := s.rnd.Byte()
	if err != nil {
		return nil, fmt.Errorf("draw random byte: %w", err)
	}

	var out *model.Dragon
	err = s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		tx := repository.NewTx(kv)
		d, err := tx.Dragon(ctx, dragonID)
		if err != nil {
			return err
		}
		if d.Owner != identity {
			return fmt.Errorf("dragon %d: %w", dragonID, errs.ErrNotOwner)
		}
		if err := arena.LevelUp(d, roll); err != nil {
			return err
		}
		out = d
		return tx.PutDragon(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("dragon leveled up",
		zap.Uint64("dragon", dragonID),
		zap.Uint8("level", out.Level),
		zap.Int("skills", len(out.Skills)),
	)
	return out, nil
}

// AwardExperience adds amount, saturating at the counter limit.
func (s *DragonServiceImpl) AwardExperience(ctx context.Context, caller string, dragonID uint64, amount uint32) (*model.Dragon, error) {
	if err := requirePrivileged(caller, s.owner); err != nil {
		return nil, err
	}
	var out *model.Dragon
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		tx := repository.NewTx(kv)
		d, err := tx.Dragon(ctx, dragonID)
		if err != nil {
			return err
		}
		arena.AwardExperience(d, amount)
		out = d
		return tx.PutDragon(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("experience awarded", zap.Uint64("dragon", dragonID), zap.Uint32("amount", amount), zap.Uint32("exp", out.Exp))
	return out, nil
}

// GetDragon returns a dragon by id.
func (s *DragonServiceImpl) GetDragon(ctx context.Context, dragonID uint64) (*model.Dragon, error) {
	var out *model.Dragon
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		var err error
		out, err = repository.NewTx(kv).Dragon(ctx, dragonID)
		return err
	})
	return out, err
}
