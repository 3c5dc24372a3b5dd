package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/chyrp/internal/server/models"
	"github.com/dmitrijs2005/chyrp/internal/server/services"
)

func (h *Handler) ListPosts(c echo.Context) error {
	var skip, limit int
	if err := echo.QueryParamsBinder(c).
		Int("skip", &skip).
		Int("limit", &limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "skip and limit must be integers")
	}

	posts, err := h.posts.ListByUser(c.Request().Context(), c.Param("username"), skip, limit)
	if err != nil {
		return err
	}

	out := make([]postResponse, len(posts))
	for i := range posts {
		out[i] = toPostResponse(&posts[i])
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreatePost(c echo.Context) error {
	var req postRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	in := services.NewPost{
		Title:   req.Title,
		Content: req.Content,
		Media:   make([]models.Media, len(req.Media)),
	}
	for i, m := range req.Media {
		in.Media[i] = models.Media{URL: m.URL, MediaType: m.MediaType}
	}

	post, err := h.posts.Create(c.Request().Context(), currentUser(c), c.Param("username"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

func (h *Handler) GetPost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	post, err := h.posts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}
