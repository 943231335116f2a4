// Package memory is an in-process Store used by tests and the dev server.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/repository"
)

type tableKey struct {
	table repository.Table
	key   string
}

// Store keeps every record in a map. Transactions run one at a time.
type Store struct {
	mu   sync.Mutex
	data map[tableKey][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[tableKey][]byte)}
}

// InTx implements repository.Store. Writes are staged and applied only when fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, kv repository.KV) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &kv{store: s, staged: make(map[tableKey][]byte)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for k, v := range tx.staged {
		s.data[k] = v
	}
	return nil
}

type kv struct {
	store  *Store
	staged map[tableKey][]byte
}

func (t *kv) Get(_ context.Context, table repository.Table, key string) ([]byte, error) {
	k := tableKey{table, key}
	if v, ok := t.staged[k]; ok {
		return bytes.Clone(v), nil
	}
	if v, ok := t.store.data[k]; ok {
		return bytes.Clone(v), nil
	}
	return nil, fmt.Errorf("%s/%s: %w", table, key, errs.ErrNotFound)
}

func (t *kv) Put(_ context.Context, table repository.Table, key string, value []byte) error {
	t.staged[tableKey{table, key}] = bytes.Clone(value)
	return nil
}

var _ repository.Store = (*Store)(nil)
