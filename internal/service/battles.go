package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/dragon-arena/internal/arena"
	"github.com/and161185/dragon-arena/internal/crypto"
	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/model"
	"github.com/and161185/dragon-arena/internal/repository"
)

// BattleService runs matchmaking and the commit-reveal battle protocol.
type BattleService interface {
	// StartBattle queues the caller's selected dragon in its cluster and reports whether it was paired.
	StartBattle(ctx context.Context, identity string) (battleID string, paired bool, err error)
	// CommitActions records the caller's commitment for battleID.
	CommitActions(ctx context.Context, identity, battleID string, hash []byte) error
	// RevealActions records the caller's actions and resolves the battle once it is complete.
	RevealActions(ctx context.Context, identity, battleID string, actions []byte) (*model.Battle, error)
	// GetBattle returns the stored battle.
	GetBattle(ctx context.Context, battleID string) (*model.Battle, error)
	// CreateCluster adds a matchmaking cluster. Privileged.
	CreateCluster(ctx context.Context, caller string, clusterID uint64, maxLevel uint8) error
	// GetCluster returns the stored cluster.
	GetCluster(ctx context.Context, clusterID uint64) (*model.Cluster, error)
}

type BattleServiceImpl struct {
	store  repository.Store
	clock  Clock
	owner  string
	logger *zap.Logger
}

// NewBattleService constructs BattleService. owner is the privileged identity.
func NewBattleService(store repository.Store, clock Clock, owner string, logger *zap.Logger) *BattleServiceImpl {
	return &BattleServiceImpl{store: store, clock: clock, owner: owner, logger: logger}
}

func validBattleID(id string) error {
	if _, _, err := model.ParseBattleID(id); err != nil {
		return fmt.Errorf("validation: %v: %w", err, errs.ErrInvalidArgument)
	}
	return nil
}

// callerDragon resolves the dragon the account currently fights with.
func callerDragon(ctx context.Context, tx *repository.Tx, identity string) (uint64, error) {
	acc, err := tx.Account(ctx, identity)
	if err != nil {
		return 0, err
	}
	return arena.SelectedDragon(acc)
}

// StartBattle checks the cluster level cap before joining. On pairing the new battle
// has the caller's dragon as A and the waiting one as B.
func (s *BattleServiceImpl) StartBattle(ctx context.Context, identity string) (string, bool, error) {
	if err := requireIdentity(identity); err != nil {
		return "", false, err
	}
	var (
		battle *model.Battle
		queued uint64
	)
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		battle = nil
		tx := repository.NewTx(kv)
		acc, err := tx.Account(ctx, identity)
		if err != nil {
			return err
		}
		c, err := tx.Cluster(ctx, acc.ClusterID)
		if err != nil {
			return err
		}
		dragonID, err := arena.SelectedDragon(acc)
		if err != nil {
			return err
		}
		d, err := tx.Dragon(ctx, dragonID)
		if err != nil {
			return err
		}
		if err := arena.CheckLevel(c, d); err != nil {
			return err
		}

		queued = dragonID
		opponent, paired := arena.Join(c, dragonID)
		if err := tx.PutCluster(ctx, c); err != nil {
			return err
		}
		if !paired {
			return nil
		}
		b := arena.NewBattle(dragonID, opponent, s.clock.Now())
		battle = &b
		return tx.PutBattle(ctx, battle)
	})
	if err != nil {
		return "", false, err
	}
	if battle == nil {
		s.logger.Debug("dragon waiting", zap.String("identity", identity), zap.Uint64("dragon", queued))
		return "", false, nil
	}
	s.logger.Info("battle created",
		zap.String("battle", battle.ID),
		zap.Uint64("dragon_a", battle.DragonA),
		zap.Uint64("dragon_b", battle.DragonB),
	)
	return battle.ID, true, nil
}

// CommitActions stores a commitment of crypto.CommitmentSize bytes. The commitment is
// not checked against the later reveal.
func (s *BattleServiceImpl) CommitActions(ctx context.Context, identity, battleID string, hash []byte) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	if err := validBattleID(battleID); err != nil {
		return err
	}
	if len(hash) != crypto.CommitmentSize {
		return fmt.Errorf("validation: commitment of %d bytes, want %d: %w", len(hash), crypto.CommitmentSize, errs.ErrInvalidArgument)
	}

	var applied bool
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		tx := repository.NewTx(kv)
		dragonID, err := callerDragon(ctx, tx, identity)
		if err != nil {
			return err
		}
		b, err := tx.Battle(ctx, battleID)
		if err != nil {
			return err
		}
		if applied, err = arena.Commit(b, dragonID, hash); err != nil || !applied {
			return err
		}
		return tx.PutBattle(ctx, b)
	})
	if err != nil {
		return err
	}
	if applied {
		s.logger.Debug("actions committed", zap.String("battle", battleID), zap.String("identity", identity))
	}
	return nil
}

// RevealActions stores the caller's actions. When both sides revealed non-empty actions,
// or the battle deadline passed, the battle is resolved and both dragons are written
// back with their resulting constitutions in the same transaction.
func (s *BattleServiceImpl) RevealActions(ctx context.Context, identity, battleID string, actions []byte) (*model.Battle, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validBattleID(battleID); err != nil {
		return nil, err
	}

	var (
		out     *model.Battle
		outcome *arena.Outcome
		applied bool
	)
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		out, outcome, applied = nil, nil, false
		tx := repository.NewTx(kv)
		dragonID, err := callerDragon(ctx, tx, identity)
		if err != nil {
			return err
		}
		b, err := tx.Battle(ctx, battleID)
		if err != nil {
			return err
		}
		d, err := tx.Dragon(ctx, dragonID)
		if err != nil {
			return err
		}
		applied, err = arena.Reveal(b, d, actions)
		if err != nil {
			return err
		}
		out = b
		if !applied {
			return nil
		}
		now := s.clock.Now()
		if arena.Complete(b, now) {
			res, err := s.settle(ctx, tx, b, now)
			if err != nil {
				return err
			}
			outcome = &res
		}
		return tx.PutBattle(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	switch {
	case outcome != nil:
		s.logger.Info("battle resolved",
			zap.String("battle", out.ID),
			zap.Int("rounds", outcome.Rounds),
			zap.Uint32("hp_a", outcome.A.MaxHP),
			zap.Uint32("hp_b", outcome.B.MaxHP),
		)
	case applied:
		s.logger.Debug("actions revealed", zap.String("battle", battleID), zap.String("identity", identity))
	}
	return out, nil
}

func (s *BattleServiceImpl) settle(ctx context.Context, tx *repository.Tx, b *model.Battle, now time.Time) (arena.Outcome, error) {
	a, err := tx.Dragon(ctx, b.DragonA)
	if err != nil {
		return arena.Outcome{}, err
	}
	bd, err := tx.Dragon(ctx, b.DragonB)
	if err != nil {
		return arena.Outcome{}, err
	}
	res, err := arena.Settle(b, a, bd, now)
	if err != nil {
		return arena.Outcome{}, err
	}
	if err := tx.PutDragon(ctx, a); err != nil {
		return arena.Outcome{}, err
	}
	if err := tx.PutDragon(ctx, bd); err != nil {
		return arena.Outcome{}, err
	}
	return res, nil
}

// GetBattle returns a battle by its "<idA>:<idB>" key.
func (s *BattleServiceImpl) GetBattle(ctx context.Context, battleID string) (*model.Battle, error) {
	if err := validBattleID(battleID); err != nil {
		return nil, err
	}
	var out *model.Battle
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		var err error
		out, err = repository.NewTx(kv).Battle(ctx, battleID)
		return err
	})
	return out, err
}

// CreateCluster fails with errs.ErrAlreadyExists for a known id.
func (s *BattleServiceImpl) CreateCluster(ctx context.Context, caller string, clusterID uint64, maxLevel uint8) error {
	if err := requirePrivileged(caller, s.owner); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		tx := repository.NewTx(kv)
		_, err := tx.Cluster(ctx, clusterID)
		switch {
		case err == nil:
			return fmt.Errorf("cluster %d: %w", clusterID, errs.ErrAlreadyExists)
		case !errors.Is(err, errs.ErrNotFound):
			return err
		}
		return tx.PutCluster(ctx, &model.Cluster{ID: clusterID, MaxLevel: maxLevel})
	})
	if err != nil {
		return err
	}
	s.logger.Info("cluster created", zap.Uint64("cluster", clusterID), zap.Uint8("max_level", maxLevel))
	return nil
}

// GetCluster returns a cluster by id.
func (s *BattleServiceImpl) GetCluster(ctx context.Context, clusterID uint64) (*model.Cluster, error) {
	var out *model.Cluster
	err := s.store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		var err error
		out, err = repository.NewTx(kv).Cluster(ctx, clusterID)
		return err
	})
	return out, err
}
