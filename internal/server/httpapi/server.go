// Package httpapi exposes the blogging API over HTTP with echo. Error
// responses are JSON objects of the form {"detail": "..."}.
package httpapi

import (
	"context"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/chyrp/internal/logging"
	"github.com/dmitrijs2005/chyrp/internal/server/auth"
	"github.com/dmitrijs2005/chyrp/internal/server/models"
	"github.com/dmitrijs2005/chyrp/internal/server/services"
	"github.com/dmitrijs2005/chyrp/internal/server/storage"
)

type Users interface {
	Register(ctx context.Context, in services.NewUser) (*models.User, error)
	Login(ctx context.Context, login, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, *auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, actor *models.User, id int64, upd models.UserUpdate) (*models.User, error)
}

type Posts interface {
	Create(ctx context.Context, actor *models.User, userName string, in services.NewPost) (*models.Post, error)
	ListByUser(ctx context.Context, userName string, skip, limit int) ([]models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
}

type Media interface {
	Upload(ctx context.Context, userID int64, contentType string, body io.ReadSeeker, size int64) (string, error)
	Open(ctx context.Context, key string) (*storage.Object, error)
}

type Handler struct {
	users Users
	posts Posts
	media Media
	log   logging.Logger
}

func NewHandler(users Users, posts Posts, media Media, log logging.Logger) *Handler {
	return &Handler{users: users, posts: posts, media: media, log: log.With("module", "http")}
}

// NewServer builds the echo instance with all routes registered.
// maxBody bounds request bodies; zero leaves them unbounded.
func NewServer(h *Handler, maxBody int64) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = h.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: tagRequestID,
	}))
	e.Use(h.requestLogger())
	if maxBody > 0 {
		// Leave room for the multipart envelope around the file.
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", (maxBody+1<<20)/1024)))
	}

	h.Register(e)
	return e
}

func (h *Handler) Register(e *echo.Echo) {
	e.POST("/token", h.Token)
	e.POST("/refresh", h.Refresh)
	e.POST("/users/", h.CreateUser)

	e.POST("/logout", h.Logout, h.RequireUser)
	e.GET("/users/me", h.Me, h.RequireUser)
	e.GET("/users/:id", h.GetUser, h.RequireUser)
	e.PUT("/users/:id", h.UpdateUser, h.RequireUser)
	e.POST("/upload/", h.Upload, h.RequireUser)
	e.GET("/files/*", h.File, h.RequireUser)
	e.GET("/posts/:id", h.GetPost, h.RequireUser)
	e.GET("/:username/posts/", h.ListPosts, h.RequireUser)
	e.POST("/:username/posts/", h.CreatePost, h.RequireUser)
}
