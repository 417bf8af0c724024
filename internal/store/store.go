// Package store holds the durable snapshot boundary: a single named key
// mapping to a serialized blob of the engine's persisted state. Backends
// carry no business logic; the engine decides what goes into the blob.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/musedating/muse-engine/internal/config"
)

// ErrNotFound is returned by Load when no snapshot has been saved yet.
var ErrNotFound = errors.New("store: snapshot not found")

// Store is the durable store adapter the engine writes through on every
// state change and reads once at startup.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
}

// Open builds the Store selected by cfg.Store.Backend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		db, err := OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db, cfg.Store.Key)
	case "mysql":
		db, err := OpenMySQL(cfg.Store.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db, cfg.Store.Key)
	case "redis":
		return NewRedisStore(cfg), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Store.Backend)
	}
}
