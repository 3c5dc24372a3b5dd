// Package services contains server-side business logic. This file implements
// UserService, which handles accounts, login, and issuing, refreshing and
// revoking JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/cryptox"
	"github.com/dmitrijs2005/chyrp/internal/dbx"
	"github.com/dmitrijs2005/chyrp/internal/logging"
	"github.com/dmitrijs2005/chyrp/internal/server/auth"
	"github.com/dmitrijs2005/chyrp/internal/server/config"
	"github.com/dmitrijs2005/chyrp/internal/server/models"
	"github.com/dmitrijs2005/chyrp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chyrp/internal/server/revocation"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        time.Duration
	RefreshExpiresIn time.Duration
}

// NewUser is a registration request.
type NewUser struct {
	Name     string
	UserName string
	Email    string
	Password string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	revoked                      revocation.Store
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	log                          logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, revoked revocation.Store, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		revoked:                      revoked,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		log:                          log.With("module", "users"),
	}
}

// duplicateError names the column behind a unique violation.
func duplicateError(err error) error {
	if strings.Contains(err.Error(), "email") {
		return fail(common.ErrorAlreadyExists, "Email already registered")
	}
	return fail(common.ErrorAlreadyExists, "Username already registered")
}

func (s *UserService) Register(ctx context.Context, in NewUser) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateNewUser(in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUserName(ctx, in.UserName); err == nil {
		return nil, fail(common.ErrorAlreadyExists, "Username already registered")
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := cryptox.HashPassword([]byte(in.Password))
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		Name:         in.Name,
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, duplicateError(err)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "id", user.ID, "username", user.UserName)
	return user, nil
}

// Login checks a username (or email) and password and mints a token pair.
func (s *UserService) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.BurnCompare([]byte(password))
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := cryptox.CheckPassword(user.PasswordHash, []byte(password))
	if err != nil {
		return nil, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return nil, errBadCredentials
	}
	if !user.IsActive {
		return nil, errInactive
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "user logged in", "id", user.ID)
	return pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Each refresh token works once.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, fail(common.ErrorUnauthorized, "Refresh token is missing")
	}

	claims, err := auth.ParseToken(refreshToken, s.jwtSecret, common.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fail(common.ErrRefreshTokenExpired, "Refresh token has expired")
		}
		return nil, fail(common.ErrorUnauthorized, "Invalid refresh token")
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RefreshTokens(tx)

		token, err := repo.Find(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fail(common.ErrorUnauthorized, "Invalid refresh token")
			}
			return fmt.Errorf("error searching refresh token: %w", err)
		}
		if token.Expires.Before(time.Now()) {
			return fail(common.ErrRefreshTokenExpired, "Refresh token has expired")
		}

		deleted, err := repo.Delete(ctx, token.ID)
		if err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if !deleted {
			return fail(common.ErrorUnauthorized, "Invalid refresh token")
		}

		pair, err = s.generateTokenPair(ctx, token.UserID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Authenticate resolves a bearer access token to its active user.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.User, *auth.Claims, error) {
	claims, err := auth.ParseToken(accessToken, s.jwtSecret, common.TokenTypeAccess)
	if err != nil {
		return nil, nil, errCredentials
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error checking revocation: %w", err)
	}
	if revoked {
		return nil, nil, errRevoked
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, errCredentials
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, errCredentials
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.IsActive {
		return nil, nil, errInactive
	}
	return user, claims, nil
}

// Logout revokes the access token until it would have expired anyway.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		s.log.Error(ctx, "revoke failed", "jti", claims.ID, "error", err)
		return fail(common.ErrValidation, "Could not log out")
	}
	s.log.Debug(ctx, "token revoked", "jti", claims.ID, "sub", claims.Subject)
	return nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// Update applies a partial update. Users may only edit their own record.
func (s *UserService) Update(ctx context.Context, actor *models.User, id int64, upd models.UserUpdate) (*models.User, error) {
	if actor.ID != id {
		return nil, errForbidden
	}

	for _, p := range []*string{upd.Name, upd.UserName, upd.Email} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if err := validateUserUpdate(upd); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, errUserNotFound
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, duplicateError(err)
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// generateTokenPair signs both tokens and records the refresh jti through db,
// which may be a transaction.
func (s *UserService) generateTokenPair(ctx context.Context, userID int64, db dbx.DBTX) (*TokenPair, error) {
	accessToken, _, err := auth.GenerateToken(userID, common.TokenTypeAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refreshToken, claims, err := auth.GenerateToken(userID, common.TokenTypeRefresh, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, claims.ID, userID, claims.ExpiresAtTime()); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        s.accessTokenValidityDuration,
		RefreshExpiresIn: s.refreshTokenValidityDuration,
	}, nil
}
