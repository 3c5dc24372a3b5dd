// Package revocation keeps the list of access tokens revoked by logout.
// Entries live until the token would have expired anyway.
package revocation

import (
	"context"
	"time"
)

// Store records revoked token ids (jti).
type Store interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
