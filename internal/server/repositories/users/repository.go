package users

import (
	"context"

	"github.com/dmitrijs2005/chyrp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	// GetByLogin matches either the username or the email address.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
}
