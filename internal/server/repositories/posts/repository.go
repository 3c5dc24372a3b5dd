package posts

import (
	"context"

	"github.com/dmitrijs2005/chyrp/internal/server/models"
)

type Repository interface {
	// Create inserts the post and its media; run it inside a transaction.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	// ListByUser returns a page of userID's posts, newest first.
	ListByUser(ctx context.Context, userID int64, skip, limit int) ([]models.Post, error)
}
