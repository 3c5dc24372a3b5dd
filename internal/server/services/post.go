package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/dbx"
	"github.com/dmitrijs2005/chyrp/internal/logging"
	"github.com/dmitrijs2005/chyrp/internal/server/models"
	"github.com/dmitrijs2005/chyrp/internal/server/repositories/repomanager"
)

// Page defaults for ListByUser.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// NewPost is a create-post request. Media keeps the client's order.
type NewPost struct {
	Title   string
	Content string
	Media   []models.Media
}

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, log: log.With("module", "posts")}
}

func (s *PostService) userByName(ctx context.Context, userName string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// Create publishes a post under userName, which must be the actor's own.
func (s *PostService) Create(ctx context.Context, actor *models.User, userName string, in NewPost) (*models.Post, error) {
	owner, err := s.userByName(ctx, userName)
	if err != nil {
		return nil, err
	}
	if owner.ID != actor.ID {
		return nil, errForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := validateNewPost(in); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:  owner.ID,
		Title:   in.Title,
		Content: in.Content,
		Media:   make([]models.Media, len(in.Media)),
	}
	for i, m := range in.Media {
		post.Media[i] = models.Media{Position: i, URL: m.URL, MediaType: m.MediaType}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		post, err = s.repomanager.Posts(tx).Create(ctx, post)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	s.log.Info(ctx, "post created", "id", post.ID, "user", owner.ID, "media", len(post.Media))
	return post, nil
}

// ListByUser returns a page of userName's posts, newest first. A limit of
// zero means DefaultPageLimit.
func (s *PostService) ListByUser(ctx context.Context, userName string, skip, limit int) ([]models.Post, error) {
	if skip < 0 {
		return nil, common.NewValidationError("skip", "skip must not be negative")
	}
	switch {
	case limit < 0:
		return nil, common.NewValidationError("limit", "limit must not be negative")
	case limit == 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}

	owner, err := s.userByName(ctx, userName)
	if err != nil {
		return nil, err
	}

	posts, err := s.repomanager.Posts(s.db).ListByUser(ctx, owner.ID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errPostNotFound
		}
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	return post, nil
}
