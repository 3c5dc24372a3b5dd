// Package posts provides the PostgreSQL-backed post repository. Media rows
// live in post_media and are returned ordered by position.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, createtime`

	if err := r.db.QueryRowContext(ctx, query, post.UserID, post.Title, post.Content).
		Scan(&post.ID, &post.CreateTime); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	mediaQuery :=
		`INSERT INTO post_media (post_id, position, url, media_type)
		 VALUES ($1, $2, $3, $4)`

	for i := range post.Media {
		post.Media[i].Position = i
		m := post.Media[i]
		if _, err := r.db.ExecContext(ctx, mediaQuery, post.ID, m.Position, m.URL, m.MediaType); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}
	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query :=
		`SELECT id, user_id, title, content, createtime
		 FROM posts
		 WHERE id = $1`

	p := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreateTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	media, err := r.media(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.Media = media[p.ID]
	return p, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]models.Post, error) {
	query :=
		`SELECT id, user_id, title, content, createtime
		 FROM posts
		 WHERE user_id = $1
		 ORDER BY createtime DESC, id DESC
		 OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.CreateTime); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		posts = append(posts, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	media, err := r.media(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Media = media[posts[i].ID]
	}
	return posts, nil
}

// media loads the media of the given posts keyed by post id.
func (r *PostgresRepository) media(ctx context.Context, postIDs []int64) (map[int64][]models.Media, error) {
	out := make(map[int64][]models.Media, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(postIDs))
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT post_id, position, url, media_type
		 FROM post_media
		 WHERE post_id IN (` + strings.Join(placeholders, ", ") + `)
		 ORDER BY post_id, position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			m      models.Media
		)
		if err := rows.Scan(&postID, &m.Position, &m.URL, &m.MediaType); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out[postID] = append(out[postID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
