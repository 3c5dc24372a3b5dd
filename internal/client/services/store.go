package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
)

var ErrNoSession = errors.New("not signed in")

// SessionStore is the persisted session as seen by services.
type SessionStore interface {
	Save(ctx context.Context, s models.Session) error
	Current(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
	UpdateProfile(ctx context.Context, p models.Profile) error
}

// ExpiryChecker routes authorization failures to the session lifecycle.
type ExpiryChecker interface {
	Check(ctx context.Context, err error) error
	Expire(ctx context.Context)
}

// currentSession loads the session or fails with ErrNoSession.
func currentSession(ctx context.Context, store SessionStore) (*models.Session, error) {
	sess, err := store.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, ErrNoSession
	}
	return sess, nil
}
