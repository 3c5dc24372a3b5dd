package models

import "time"

// RefreshToken is the server-side record of an issued refresh JWT, keyed by
// its jti. Rotating a refresh token deletes its row.
type RefreshToken struct {
	ID        string
	UserID    int64
	Expires   time.Time
	CreatedAt time.Time
}
