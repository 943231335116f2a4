package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/repository"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), s, client
}

func TestStore_PutGet(t *testing.T) {
	store, mr, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		return kv.Put(ctx, repository.Dragons, "5", []byte("dragon"))
	}))

	got, err := mr.Get("arena:dragons:5")
	require.NoError(t, err)
	require.Equal(t, "dragon", got)

	require.NoError(t, store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		bz, err := kv.Get(ctx, repository.Dragons, "5")
		require.NoError(t, err)
		require.Equal(t, []byte("dragon"), bz)

		_, err = kv.Get(ctx, repository.Dragons, "6")
		require.ErrorIs(t, err, errs.ErrNotFound)
		return nil
	}))
}

func TestStore_ErrorDiscardsWrites(t *testing.T) {
	store, mr, _ := newStore(t)
	boom := errors.New("boom")

	err := store.InTx(context.Background(), func(ctx context.Context, kv repository.KV) error {
		_ = kv.Put(ctx, repository.Accounts, "alice", []byte("x"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.False(t, mr.Exists("arena:accounts:alice"))
}

func TestStore_RetriesWhenWatchedKeyChanges(t *testing.T) {
	store, mr, other := newStore(t)
	ctx := context.Background()
	mr.Set("arena:meta:counter", "1")

	attempts := 0
	err := store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		attempts++
		bz, err := kv.Get(ctx, repository.Meta, "counter")
		if err != nil {
			return err
		}
		if attempts == 1 {
			// A concurrent writer bumps the key between our read and our commit.
			require.NoError(t, other.Set(ctx, "arena:meta:counter", "2", 0).Err())
		}
		return kv.Put(ctx, repository.Meta, "counter", append(bz, '+'))
	})
	require.NoError(t, err)
	require.Equal(t, 2, attempts)

	got, err := mr.Get("arena:meta:counter")
	require.NoError(t, err)
	require.Equal(t, "2+", got)
}

func TestStore_GivesUp(t *testing.T) {
	store, mr, other := newStore(t)
	store.maxRetries = 2
	ctx := context.Background()
	mr.Set("arena:meta:k", "0")

	attempts := 0
	err := store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
		attempts++
		if _, err := kv.Get(ctx, repository.Meta, "k"); err != nil {
			return err
		}
		require.NoError(t, other.Incr(ctx, "arena:meta:k").Err())
		return kv.Put(ctx, repository.Meta, "k", []byte("mine"))
	})
	require.ErrorIs(t, err, redis.TxFailedErr)
	require.Equal(t, 3, attempts)
}

func TestStore_NextDragonID(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	for want := range uint64(3) {
		var got uint64
		require.NoError(t, store.InTx(ctx, func(ctx context.Context, kv repository.KV) error {
			var err error
			got, err = repository.NewTx(kv).NextDragonID(ctx)
			return err
		}))
		require.Equal(t, want, got)
	}
}
