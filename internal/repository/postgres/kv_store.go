package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/repository"
)

// DefaultMaxRetries bounds how often a transaction is re-run after a serialization failure.
const DefaultMaxRetries = 5

type tableQueries struct {
	get string
	put string
}

// queries holds the statements of every known table. Table names never come from input.
var queries = func() map[repository.Table]tableQueries {
	m := make(map[repository.Table]tableQueries, len(repository.Tables))
	for _, t := range repository.Tables {
		m[t] = tableQueries{
			get: fmt.Sprintf(`SELECT body FROM %s WHERE key=$1 FOR UPDATE`, t),
			put: fmt.Sprintf(`INSERT INTO %s (key, body, updated_at) VALUES ($1,$2,now())
ON CONFLICT (key) DO UPDATE SET body=EXCLUDED.body, updated_at=now()`, t),
		}
	}
	return m
}()

// KVStore implements repository.Store on one table per key space.
// Transactions run at SERIALIZABLE isolation and rows read are locked FOR UPDATE.
type KVStore struct {
	db         *DB
	maxRetries int
}

// NewKVStore constructs a store over db.
func NewKVStore(db *DB) *KVStore { return &KVStore{db: db, maxRetries: DefaultMaxRetries} }

// InTx runs fn in a serializable transaction, retrying it on serialization failures.
func (s *KVStore) InTx(ctx context.Context, fn func(ctx context.Context, kv repository.KV) error) error {
	for attempt := 0; ; attempt++ {
		err := s.runTx(ctx, fn)
		if err == nil || !isRetryable(err) || attempt >= s.maxRetries {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

func (s *KVStore) runTx(ctx context.Context, fn func(ctx context.Context, kv repository.KV) error) (err error) {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	return fn(ctx, &txKV{tx: tx})
}

type txKV struct{ tx pgx.Tx }

func lookup(t repository.Table) (tableQueries, error) {
	q, ok := queries[t]
	if !ok {
		return tableQueries{}, fmt.Errorf("table %q: %w", t, errs.ErrInvalidArgument)
	}
	return q, nil
}

func (k *txKV) Get(ctx context.Context, t repository.Table, key string) ([]byte, error) {
	q, err := lookup(t)
	if err != nil {
		return nil, err
	}
	var body []byte
	if err := k.tx.QueryRow(ctx, q.get, key).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s: %w", t, key, errs.ErrNotFound)
		}
		return nil, err
	}
	return body, nil
}

func (k *txKV) Put(ctx context.Context, t repository.Table, key string, value []byte) error {
	q, err := lookup(t)
	if err != nil {
		return err
	}
	_, err = k.tx.Exec(ctx, q.put, key, value)
	return err
}

var _ repository.Store = (*KVStore)(nil)
