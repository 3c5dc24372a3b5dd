// Package refreshtokens stores the jti of every live refresh token. A row is
// deleted when its token is exchanged, so each token refreshes once.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/dbx"
	"github.com/dmitrijs2005/chyrp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, id string, userID int64, expires time.Time) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, id, userID, expires); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, id string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE id = $1
	`
	t := &models.RefreshToken{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.UserID, &t.Expires, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("select refresh token: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	return n > 0, nil
}
