package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chyrp/internal/client/client"
	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/logging"
)

// PostsClient is the read side of the posts API.
type PostsClient interface {
	ListPosts(ctx context.Context, token, username string) ([]models.Post, error)
	GetPost(ctx context.Context, token string, id int64) (models.Post, error)
}

type PostService struct {
	client PostsClient
	store  SessionStore
	gate   ExpiryChecker
	log    logging.Logger
}

func NewPostService(c PostsClient, store SessionStore, gate ExpiryChecker, log logging.Logger) *PostService {
	return &PostService{client: c, store: store, gate: gate, log: log.With("module", "posts")}
}

// List returns the signed-in user's posts. Any error answer from the server
// invalidates the session; a transport failure does not.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	sess, err := currentSession(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if sess.Profile == nil {
		return nil, errors.Join(ErrNoSession, errors.New("profile not loaded"))
	}

	posts, err := s.client.ListPosts(ctx, sess.AccessToken, sess.Profile.Username)
	if err != nil {
		var re *client.RemoteError
		if errors.As(err, &re) {
			s.log.Warn(ctx, "list posts rejected", "status", re.StatusCode)
			s.gate.Expire(ctx)
		}
		return nil, err
	}
	return posts, nil
}

// Get fetches one post. Authorization failures expire the session; any
// other error answer is reported as not found.
func (s *PostService) Get(ctx context.Context, id int64) (models.Post, error) {
	sess, err := currentSession(ctx, s.store)
	if err != nil {
		return models.Post{}, err
	}

	post, err := s.client.GetPost(ctx, sess.AccessToken, id)
	if err == nil {
		return post, nil
	}

	if errors.Is(err, client.ErrUnauthorized) {
		return models.Post{}, s.gate.Check(ctx, err)
	}
	var re *client.RemoteError
	if errors.As(err, &re) {
		return models.Post{}, fmt.Errorf("post %d: %w", id, client.ErrNotFound)
	}
	return models.Post{}, err
}
