package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Upload stores the multipart field "file" and returns its URL.
func (h *Handler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "File is required")
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	url, err := h.media.Upload(c.Request().Context(), currentUser(c).ID, fh.Header.Get(echo.HeaderContentType), src, fh.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, uploadResponse{FileURL: url})
}

// File streams a stored object back to the caller.
func (h *Handler) File(c echo.Context) error {
	obj, err := h.media.Open(c.Request().Context(), c.Param("*"))
	if err != nil {
		return err
	}
	defer obj.Body.Close()

	if obj.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}
	return c.Stream(http.StatusOK, obj.ContentType, obj.Body)
}
