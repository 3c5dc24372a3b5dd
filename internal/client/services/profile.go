package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/logging"
)

// ProfileClient is the part of the API the profile service needs.
type ProfileClient interface {
	Me(ctx context.Context, token string) (models.Profile, error)
	UpdateUser(ctx context.Context, token string, id int64, upd models.ProfileUpdate) (models.Profile, error)
}

type ProfileService struct {
	client ProfileClient
	store  SessionStore
	gate   ExpiryChecker
	log    logging.Logger
}

func NewProfileService(c ProfileClient, store SessionStore, gate ExpiryChecker, log logging.Logger) *ProfileService {
	return &ProfileService{client: c, store: store, gate: gate, log: log.With("module", "profile")}
}

// Current returns the cached profile, fetching it when the session has none.
func (s *ProfileService) Current(ctx context.Context) (models.Profile, error) {
	sess, err := currentSession(ctx, s.store)
	if err != nil {
		return models.Profile{}, err
	}
	if sess.Profile != nil {
		return *sess.Profile, nil
	}

	p, err := s.client.Me(ctx, sess.AccessToken)
	if err != nil {
		return models.Profile{}, s.gate.Check(ctx, err)
	}
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return models.Profile{}, fmt.Errorf("cache profile: %w", err)
	}
	return p, nil
}

// Update sends the edited profile and caches the server's copy.
func (s *ProfileService) Update(ctx context.Context, p models.Profile) (models.Profile, error) {
	if err := ValidateProfile(p); err != nil {
		return models.Profile{}, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	sess, err := currentSession(ctx, s.store)
	if err != nil {
		return models.Profile{}, err
	}

	updated, err := s.client.UpdateUser(ctx, sess.AccessToken, current.ID, models.ProfileUpdate{
		Name:     &p.Name,
		Username: &p.Username,
		Email:    &p.Email,
	})
	if err != nil {
		return models.Profile{}, s.gate.Check(ctx, err)
	}

	if err := s.store.UpdateProfile(ctx, updated); err != nil {
		return models.Profile{}, fmt.Errorf("cache profile: %w", err)
	}
	s.log.Info(ctx, "profile updated", "id", updated.ID)
	return updated, nil
}
