package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/dragon-arena/internal/errs"
	"github.com/and161185/dragon-arena/internal/repository"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

var serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}

const (
	selAccount = `SELECT body FROM accounts WHERE key=\$1 FOR UPDATE`
	upsDragon  = `INSERT INTO dragons \(key, body, updated_at\) VALUES \(\$1,\$2,now\(\)\)`
)

func TestKVStore_GetPutCommit(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewKVStore(db)

	mock.ExpectBeginTx(serializable)
	mock.ExpectQuery(selAccount).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"body"}).AddRow([]byte(`{"schemaVersion":1}`)))
	mock.ExpectExec(upsDragon).
		WithArgs("3", []byte("payload")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(ctx context.Context, kv repository.KV) error {
		got, err := kv.Get(ctx, repository.Accounts, "alice")
		require.NoError(t, err)
		require.JSONEq(t, `{"schemaVersion":1}`, string(got))
		return kv.Put(ctx, repository.Dragons, "3", []byte("payload"))
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_NotFoundRollsBack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewKVStore(db)

	mock.ExpectBeginTx(serializable)
	mock.ExpectQuery(selAccount).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(ctx context.Context, kv repository.KV) error {
		_, err := kv.Get(ctx, repository.Accounts, "ghost")
		return err
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_RetriesSerializationFailure(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewKVStore(db)

	mock.ExpectBeginTx(serializable)
	mock.ExpectExec(upsDragon).WithArgs("1", []byte("a")).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "40001"})

	mock.ExpectBeginTx(serializable)
	mock.ExpectExec(upsDragon).WithArgs("1", []byte("a")).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	calls := 0
	err := s.InTx(context.Background(), func(ctx context.Context, kv repository.KV) error {
		calls++
		return kv.Put(ctx, repository.Dragons, "1", []byte("a"))
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_GivesUpAfterMaxRetries(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewKVStore(db)
	s.maxRetries = 1

	for range 2 {
		mock.ExpectBeginTx(serializable)
		mock.ExpectQuery(selAccount).WithArgs("a").WillReturnError(&pgconn.PgError{Code: "40P01"})
		mock.ExpectRollback()
	}

	err := s.InTx(context.Background(), func(ctx context.Context, kv repository.KV) error {
		_, err := kv.Get(ctx, repository.Accounts, "a")
		return err
	})
	var pg *pgconn.PgError
	require.True(t, errors.As(err, &pg))
	require.Equal(t, "40P01", pg.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_UnknownTable(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewKVStore(db)

	mock.ExpectBeginTx(serializable)
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(ctx context.Context, kv repository.KV) error {
		return kv.Put(ctx, repository.Table("users; DROP TABLE accounts"), "k", nil)
	})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_BeginError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewKVStore(db)

	boom := errors.New("conn refused")
	mock.ExpectBeginTx(serializable).WillReturnError(boom)

	called := false
	err := s.InTx(context.Background(), func(context.Context, repository.KV) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, boom)
	require.False(t, called)
}
