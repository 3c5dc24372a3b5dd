package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/logging"
)

// AssetPublisher uploads a batch of files.
type AssetPublisher interface {
	PublishAssets(ctx context.Context, files []models.File, credential string) ([]models.AssetRef, error)
}

// PostCreator issues the create-post call.
type PostCreator interface {
	CreatePost(ctx context.Context, token, username string, p models.NewPost) (models.Post, error)
}

// Publisher turns a draft into a post: validate, upload every file, then
// create the post exactly once.
type Publisher struct {
	assets AssetPublisher
	posts  PostCreator
	store  SessionStore
	gate   ExpiryChecker
	log    logging.Logger
}

func NewPublisher(assets AssetPublisher, posts PostCreator, store SessionStore, gate ExpiryChecker, log logging.Logger) *Publisher {
	return &Publisher{
		assets: assets,
		posts:  posts,
		store:  store,
		gate:   gate,
		log:    log.With("module", "publisher"),
	}
}

// Publish validates draft and, only if valid, uploads its files and creates
// the post for owner. The draft is copied first so the caller may keep
// editing it. Upload and create failures are returned unchanged; an
// authorization failure also expires the session.
func (p *Publisher) Publish(ctx context.Context, draft models.Draft, credential, owner string) (*models.Post, error) {
	d := draft.Clone()

	if err := ValidateDraft(d); err != nil {
		return nil, err
	}

	media, err := p.assets.PublishAssets(ctx, d.Files, credential)
	if err != nil {
		return nil, p.gate.Check(ctx, err)
	}

	post, err := p.posts.CreatePost(ctx, credential, owner, models.NewPost{
		Title:   d.Title,
		Content: d.Content,
		Media:   media,
	})
	if err != nil {
		p.log.Warn(ctx, "create post failed", "owner", owner, "error", err)
		return nil, p.gate.Check(ctx, err)
	}

	p.log.Info(ctx, "post published", "id", post.ID, "media", len(media))
	return &post, nil
}

// PublishCurrent reads the credential and owner from the stored session and
// publishes draft for them.
func (p *Publisher) PublishCurrent(ctx context.Context, draft models.Draft) (*models.Post, error) {
	sess, err := currentSession(ctx, p.store)
	if err != nil {
		return nil, err
	}
	if sess.Profile == nil {
		return nil, errors.Join(ErrNoSession, errors.New("profile not loaded"))
	}
	return p.Publish(ctx, draft, sess.AccessToken, sess.Profile.Username)
}
