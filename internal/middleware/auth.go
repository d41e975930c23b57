// Package middleware contains the HTTP middleware: the authentication gate
// for protected routes and the Redis rate limiter guarding credential
// endpoints.
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gurusys/blog-api/internal/apperr"
	"github.com/gurusys/blog-api/internal/model"
	"github.com/gurusys/blog-api/internal/repository"
	"github.com/gurusys/blog-api/internal/token"
)

// sessionKey is the context key the gate stores the SessionContext under.
const sessionKey = "auth.session"

// UserResolver resolves the acting user for a verified token subject.
type UserResolver interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Authenticate returns the middleware gating protected routes. It extracts
// and verifies the bearer access token, resolves the acting user, and
// attaches a SessionContext for downstream handlers. It mutates no stored
// state; failures surface as typed errors for the boundary to render.
func Authenticate(codec *token.Codec, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperr.Unauthenticated("Missing valid authorization headers")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := codec.Verify(raw)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					return apperr.Unauthenticated("Hey champ! Your session expired, please login again.")
				}
				return apperr.Unauthenticated("Invalid Token.")
			}

			sub, present := claims[token.ClaimUserID]
			if !present || sub == nil {
				return apperr.Unauthenticated("")
			}
			userID, ok := token.UserID(claims)
			if !ok {
				return apperr.BadRequest("Invalid ID!")
			}

			// Deliberately not a 404: a valid-looking token for a missing
			// user must not reveal whether the account ever existed.
			u, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.Unauthorized("Sorry, we could not find that user in our records.")
				}
				return apperr.Wrap(apperr.KindInternal, "", err)
			}

			c.Set(sessionKey, model.SessionContext{UserID: userID, User: &u})
			return next(c)
		}
	}
}

// SessionFrom returns the SessionContext attached by Authenticate. ok is
// false on routes the gate did not run for.
func SessionFrom(c echo.Context) (model.SessionContext, bool) {
	sc, ok := c.Get(sessionKey).(model.SessionContext)
	return sc, ok
}
