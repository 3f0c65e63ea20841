// Package kvstore provides the durable key/value storage the cart store
// persists itself to. Values are opaque JSON payloads; drivers differ only
// in where the bytes live.
package kvstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is byte-value key/value storage. Get returns domain.ErrNotFound
// for missing keys. Delete of a missing key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Open selects a driver by name. dir is only used by the file driver and
// pool only by the postgres driver (it must be non-nil for it).
func Open(driver, dir string, pool *pgxpool.Pool) (Store, error) {
	switch driver {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(dir)
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("postgres storage requires a database pool")
		}
		return NewPostgres(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
