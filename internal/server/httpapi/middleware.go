package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/chyrp/internal/common"
	"github.com/dmitrijs2005/chyrp/internal/logging"
	"github.com/dmitrijs2005/chyrp/internal/server/auth"
	"github.com/dmitrijs2005/chyrp/internal/server/models"
	"github.com/dmitrijs2005/chyrp/internal/server/services"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

var errNoCredentials = echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")

// RequireUser resolves the bearer token to an active user and stores both
// the user and the token claims on the context.
func (h *Handler) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		scheme, token, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return errNoCredentials
		}

		user, claims, err := h.users.Authenticate(c.Request().Context(), strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Set(userKey, user)
		c.Set(claimsKey, claims)
		return next(c)
	}
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}

func currentClaims(c echo.Context) *auth.Claims {
	cl, _ := c.Get(claimsKey).(*auth.Claims)
	return cl
}

// tagRequestID puts the X-Request-Id value into the request context, where
// the logger picks it up for every record of the request.
func tagRequestID(c echo.Context, id string) {
	req := c.Request()
	c.SetRequest(req.WithContext(logging.ContextWithRequestID(req.Context(), id)))
}

func (h *Handler) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil && v.Status >= http.StatusInternalServerError {
				h.log.Error(c.Request().Context(), "request failed", append(args, "error", v.Error)...)
				return nil
			}
			h.log.Debug(c.Request().Context(), "request", args...)
			return nil
		},
	})
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrTokenRevoked),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrorAlreadyExists), errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorHandler renders every error as {"detail": ...}.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := http.StatusText(code)

	var (
		he *echo.HTTPError
		f  *services.Failure
		ve *common.ValidationError
	)
	switch {
	case errors.As(err, &he):
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		} else {
			detail = fmt.Sprint(he.Message)
		}
	case errors.As(err, &f):
		code, detail = statusFor(f), f.Detail
	case errors.As(err, &ve):
		code, detail = http.StatusBadRequest, ve.Message
	default:
		if s := statusFor(err); s != http.StatusInternalServerError {
			code, detail = s, http.StatusText(s)
		}
	}

	if code == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Detail: detail})
	}
	if err != nil {
		h.log.Error(c.Request().Context(), "write error response", "error", err)
	}
}
