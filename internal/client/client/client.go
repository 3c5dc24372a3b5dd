package client

import (
	"context"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
)

// Client is the remote blogging API.
type Client interface {
	// Token exchanges a username (or email) and password for credentials.
	Token(ctx context.Context, username, password string) (models.Tokens, error)
	// Me fetches the profile that owns token.
	Me(ctx context.Context, token string) (models.Profile, error)
	// UpdateUser applies a partial update to user id.
	UpdateUser(ctx context.Context, token string, id int64, upd models.ProfileUpdate) (models.Profile, error)
	// CreateUser registers a new account.
	CreateUser(ctx context.Context, u models.NewUser) (models.Profile, error)
	// Upload stores one file and returns its URL.
	Upload(ctx context.Context, token string, f models.File) (string, error)
	// ListPosts returns the posts of username.
	ListPosts(ctx context.Context, token, username string) ([]models.Post, error)
	// CreatePost publishes a post for username.
	CreatePost(ctx context.Context, token, username string, p models.NewPost) (models.Post, error)
	// GetPost fetches one post by id.
	GetPost(ctx context.Context, token string, id int64) (models.Post, error)
	// Logout revokes token on the server.
	Logout(ctx context.Context, token string) error
}
