// Package refreshtokens declares the server-side repository contract for
// refresh token records.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/chyrp/internal/server/models"
)

// Repository records issued refresh tokens by jti so each can be used once.
type Repository interface {
	// Create stores the jti of a refresh token issued to userID.
	Create(ctx context.Context, id string, userID int64, expires time.Time) error

	// Find returns the record for id or common.ErrorNotFound.
	Find(ctx context.Context, id string) (*models.RefreshToken, error)

	// Delete removes id and reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
