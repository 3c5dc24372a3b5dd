// Package storage keeps uploaded media in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Object is a stored blob opened for reading. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Get returns common.ErrorNotFound for a missing key.
	Get(ctx context.Context, key string) (*Object, error)
}

// NewKey returns a fresh object key under the owner's prefix, laid out as
// users/{id}/{yyyy}/{mm}/{dd}/{uuid}.
func NewKey(userID int64, now time.Time) string {
	return fmt.Sprintf("users/%d/%04d/%02d/%02d/%s", userID, now.Year(), int(now.Month()), now.Day(), uuid.New())
}
