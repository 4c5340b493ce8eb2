// Package storage is the persistence adapter of the account registry:
// a durable string key/value sink with no knowledge of what it stores.
//
// # Contract
//
//   - Get of a missing key returns ("", false, nil).
//   - Remove of a missing key is a no-op.
//   - Write failures are returned; callers decide whether they are fatal.
//
// # Backends
//
//   - Memory: process-local map, used by tests and -s memory.
//   - File:   one JSON object file, replaced atomically, guarded by a flock.
//   - SQLite: a key/value table created by embedded goose migrations.
//
// Backends that can commit several writes atomically implement Batcher;
// Apply uses it when available.
package storage

import (
	"context"
	"fmt"
)

// Storage is the minimal key/value contract.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is a Storage that holds resources.
type Backend interface {
	Storage
	Close() error
}

// Op is a single write. Delete removes Key and ignores Value.
type Op struct {
	Key    string
	Value  string
	Delete bool
}

func SetOp(key, value string) Op { return Op{Key: key, Value: value} }
func RemoveOp(key string) Op     { return Op{Key: key, Delete: true} }

// Batcher is implemented by backends that apply several ops atomically.
type Batcher interface {
	Apply(ctx context.Context, ops ...Op) error
}

// Apply writes ops to s, atomically when s is a Batcher and in order
// otherwise. The sequential path stops at the first failure.
func Apply(ctx context.Context, s Storage, ops ...Op) error {
	if b, ok := s.(Batcher); ok {
		return b.Apply(ctx, ops...)
	}
	for _, op := range ops {
		if err := applyOne(ctx, s, op); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ctx context.Context, s Storage, op Op) error {
	if op.Delete {
		return s.Remove(ctx, op.Key)
	}
	return s.Set(ctx, op.Key, op.Value)
}

// Backend kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open constructs the backend named by kind. path is ignored for memory.
func Open(ctx context.Context, kind, path string) (Backend, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile:
		return NewFile(path)
	case KindSQLite, "":
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
