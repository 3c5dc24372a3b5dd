// Package metadata is a small key/value table in the client's SQLite file.
package metadata

import (
	"context"

	"github.com/dmitrijs2005/chyrp/internal/dbx"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key and a non-nil slice for a stored one, even when it is empty.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Factory binds a Repository to a handle, typically a transaction.
type Factory func(db dbx.DBTX) Repository
