// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
)

// Table names one independent key space of the store.
type Table string

const (
	Accounts Table = "accounts"
	Dragons  Table = "dragons"
	Clusters Table = "clusters"
	Battles  Table = "battles"
	Meta     Table = "meta"
)

// Tables lists every key space a backend must provide.
var Tables = []Table{Accounts, Dragons, Clusters, Battles, Meta}

// KV is a transaction-scoped view of the key-value store.
type KV interface {
	// Get returns the stored value or errs.ErrNotFound.
	Get(ctx context.Context, t Table, key string) ([]byte, error)
	// Put inserts or replaces a value.
	Put(ctx context.Context, t Table, key string, value []byte) error
}

// Store runs operations atomically.
type Store interface {
	// InTx runs fn in one transaction. Every Put made through kv is committed
	// together when fn returns nil and discarded otherwise. Records read through
	// kv cannot be changed by other transactions until this one ends.
	// Backends may call fn more than once on write conflicts.
	InTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error
}
