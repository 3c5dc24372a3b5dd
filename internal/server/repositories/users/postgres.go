// Package users provides the PostgreSQL-backed user repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/dbx"
	"github.com/dmitrijs2005/chyrp/internal/server/models"
)

const uniqueViolation = "23505"

const userColumns = `id, name, username, email, hashed_password, is_active, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.UserName, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// mapWriteError turns a unique violation into common.ErrorAlreadyExists.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (name, username, email, hashed_password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_active, created_at`

	err := r.db.QueryRowContext(ctx, query, user.Name, user.UserName, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, userName))
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 ORDER BY id LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, login))
}

// Update applies the non-nil fields of upd and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	query :=
		`UPDATE users SET
		   name = COALESCE($2, name),
		   username = COALESCE($3, username),
		   email = COALESCE($4, email)
		 WHERE id = $1
		 RETURNING ` + userColumns

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id, upd.Name, upd.UserName, upd.Email).
		Scan(&u.ID, &u.Name, &u.UserName, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return u, nil
}
