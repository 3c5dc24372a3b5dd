// Package session persists the signed-in user's credential and cached
// profile in the client's SQLite file.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/dbx"
)

var ErrNoCredential = errors.New("session has no access token")

var keys = []string{common.AccessTokenKey, common.RefreshTokenKey, common.ProfileKey}

// Store reads and writes the one persisted session. Reads always go to the
// database; nothing is cached in memory.
type Store struct {
	db   *sql.DB
	repo metadata.Factory
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, repo: metadata.NewSQLiteRepository}
}

// Save replaces any prior session in a single transaction.
func (s *Store) Save(ctx context.Context, sess models.Session) error {
	if sess.AccessToken == "" {
		return ErrNoCredential
	}

	var profile []byte
	if sess.Profile != nil {
		b, err := json.Marshal(sess.Profile)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		profile = b
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Delete(ctx, keys...); err != nil {
			return err
		}
		if err := r.Set(ctx, common.AccessTokenKey, []byte(sess.AccessToken)); err != nil {
			return err
		}
		if sess.RefreshToken != "" {
			if err := r.Set(ctx, common.RefreshTokenKey, []byte(sess.RefreshToken)); err != nil {
				return err
			}
		}
		if profile != nil {
			return r.Set(ctx, common.ProfileKey, profile)
		}
		return nil
	})
}

// Current returns the persisted session, or nil when no credential is stored.
func (s *Store) Current(ctx context.Context) (*models.Session, error) {
	return current(ctx, s.repo(s.db))
}

func current(ctx context.Context, r metadata.Repository) (*models.Session, error) {
	token, err := r.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, nil
	}

	refresh, err := r.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{AccessToken: string(token), RefreshToken: string(refresh)}

	raw, err := r.Get(ctx, common.ProfileKey)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var p models.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		sess.Profile = &p
	}

	return sess, nil
}

// Clear removes every session key. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, keys...)
}

// UpdateProfile swaps the cached profile and leaves the credential alone.
// Without a stored credential it does nothing.
func (s *Store) UpdateProfile(ctx context.Context, p models.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		token, err := r.Get(ctx, common.AccessTokenKey)
		if err != nil {
			return err
		}
		if len(token) == 0 {
			return nil
		}
		return r.Set(ctx, common.ProfileKey, b)
	})
}
