package repository

import (
	"context"
	"errors"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/model"
)

// Bootstrap creates the initial records (the default cluster) if they are missing.
func Bootstrap(ctx context.Context, s Store, defaultCluster model.Cluster) error {
	return s.InTx(ctx, func(ctx context.Context, kv KV) error {
		tx := NewTx(kv)
		_, err := tx.Cluster(ctx, defaultCluster.ID)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, errs.ErrNotFound):
			return tx.PutCluster(ctx, &defaultCluster)
		default:
			return err
		}
	})
}
