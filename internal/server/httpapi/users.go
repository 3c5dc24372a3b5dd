package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/chyrp/internal/server/models"
	"github.com/dmitrijs2005/chyrp/internal/server/services"
)

const refreshCookie = "refresh_token"

// Token exchanges form credentials (username or email) for a token pair.
// The refresh token is also set as an HTTP-only cookie.
func (h *Handler) Token(c echo.Context) error {
	pair, err := h.users.Login(c.Request().Context(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return err
	}
	return h.writeTokens(c, pair)
}

// Refresh rotates a refresh token taken from the cookie or the request body.
func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if ck, err := c.Cookie(refreshCookie); err == nil {
		req.RefreshToken = ck.Value
	} else if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}
	}

	pair, err := h.users.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return h.writeTokens(c, pair)
}

func (h *Handler) writeTokens(c echo.Context, pair *services.TokenPair) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(pair.RefreshExpiresIn / time.Second),
	})

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(pair.ExpiresIn / time.Second),
	})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.users.Logout(c.Request().Context(), currentClaims(c)); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{Name: refreshCookie, Path: "/", MaxAge: -1, HttpOnly: true})
	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req userCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.users.Register(c.Request().Context(), services.NewUser{
		Name:     req.Name,
		UserName: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}

func userIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return id, nil
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req userUpdateRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.users.Update(c.Request().Context(), currentUser(c), id, models.UserUpdate{
		Name:     req.Name,
		UserName: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
