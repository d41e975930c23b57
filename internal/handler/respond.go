// Package handler is the HTTP boundary. Handlers bind request bodies, call
// the service layer, and render the uniform response envelope; every typed
// failure coming up from below is translated to a status code in exactly
// one place, the error handler.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gurusys/blog-api/internal/apperr"
)

// envelope is the uniform response shape: {success, message?, data?}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// HTTPErrorHandler renders every error escaping a handler. Taxonomy errors
// carry their own status and user-facing message; echo's built-in errors
// (unknown route, bind failures) pass through with their code; anything
// unclassified becomes an opaque 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, envelope{Success: false, Message: fmt.Sprint(he.Message)})
		return
	}
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	_ = c.JSON(status, envelope{Success: false, Message: apperr.Message(err)})
}

// bearerToken pulls the raw bearer credential off the request, for the
// password-reset endpoints that verify their own tokens instead of going
// through the auth gate.
func bearerToken(c echo.Context) (string, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", apperr.Unauthenticated("Missing valid authorization headers")
	}
	return strings.TrimPrefix(auth, "Bearer "), nil
}

const refreshCookieName = "refresh_token"

// setRefreshCookie emits the refresh token as an httpOnly cookie scoped to
// the whole site. SameSite=None because the SPA is served from a different
// origin than the API.
func setRefreshCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// refreshCookie returns the refresh token presented by the client, empty
// when the cookie is absent.
func refreshCookie(c echo.Context) string {
	ck, err := c.Cookie(refreshCookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}
