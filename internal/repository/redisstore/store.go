// Package redisstore implements repository.Store on Redis with optimistic WATCH/MULTI transactions.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/repository"
)

const (
	// DefaultPrefix namespaces every key written by the store.
	DefaultPrefix = "arena"
	// DefaultMaxRetries bounds re-runs after a watched key changed.
	DefaultMaxRetries = 10
)

// Store keeps each record under "<prefix>:<table>:<key>".
type Store struct {
	client     redis.UniversalClient
	prefix     string
	maxRetries int
}

// New wraps a connected client.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client, prefix: DefaultPrefix, maxRetries: DefaultMaxRetries}
}

func (s *Store) key(t repository.Table, k string) string {
	return s.prefix + ":" + string(t) + ":" + k
}

// InTx runs fn with every key it reads under WATCH. Writes are queued and flushed in
// a single MULTI/EXEC; if a watched key changed meanwhile the whole fn is re-run.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, kv repository.KV) error) error {
	for attempt := 0; ; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			kv := &txKV{store: s, tx: tx, staged: map[string][]byte{}}
			if err := fn(ctx, kv); err != nil {
				return err
			}
			if len(kv.staged) == 0 {
				return nil
			}
			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for k, v := range kv.staged {
					pipe.Set(ctx, k, v, 0)
				}
				return nil
			})
			return err
		})
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if attempt >= s.maxRetries {
			return fmt.Errorf("redis transaction kept conflicting: %w", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

type txKV struct {
	store  *Store
	tx     *redis.Tx
	staged map[string][]byte
}

func (k *txKV) Get(ctx context.Context, t repository.Table, key string) ([]byte, error) {
	rk := k.store.key(t, key)
	if v, ok := k.staged[rk]; ok {
		return append([]byte(nil), v...), nil
	}
	if err := k.tx.Watch(ctx, rk).Err(); err != nil {
		return nil, eris.Wrapf(err, "watch %s", rk)
	}
	bz, err := k.tx.Get(ctx, rk).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s/%s: %w", t, key, errs.ErrNotFound)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "get %s", rk)
	}
	return bz, nil
}

func (k *txKV) Put(_ context.Context, t repository.Table, key string, value []byte) error {
	k.staged[k.store.key(t, key)] = append([]byte(nil), value...)
	return nil
}

var _ repository.Store = (*Store)(nil)
