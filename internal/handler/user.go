package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gurusys/blog-api/internal/apperr"
	"github.com/gurusys/blog-api/internal/config"
	"github.com/gurusys/blog-api/internal/middleware"
	"github.com/gurusys/blog-api/internal/model"
	"github.com/gurusys/blog-api/internal/service"
)

// UserHandler serves the session-lifecycle and profile endpoints under /u.
type UserHandler struct {
	Cfg config.Config
	Svc *service.AuthService
}

func NewUserHandler(cfg config.Config, svc *service.AuthService) *UserHandler {
	return &UserHandler{Cfg: cfg, Svc: svc}
}

type updatePasswordReq struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// SignOut ends the session behind the refresh cookie. Always succeeds:
// calling it twice, or with no cookie at all, is a no-op.
func (h *UserHandler) SignOut(c echo.Context) error {
	raw := refreshCookie(c)
	if raw == "" {
		return c.NoContent(http.StatusNoContent)
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	h.Svc.LogOut(ctx, raw)
	clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// RefreshToken exchanges the refresh cookie for a new access token. The
// cookie itself is untouched; only logins rotate it.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	sess, err := h.Svc.Refresh(ctx, refreshCookie(c))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderAuthorization, sess.AccessToken)
	return respond(c, http.StatusOK, "", userData{sess.User.Profile()})
}

// UpdatePassword changes the password of the authenticated user.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}
	var req updatePasswordReq
	if err := c.Bind(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		return apperr.BadRequest("Current and new passwords are required.")
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperr.BadRequest("Passwords do not match.")
	}
	if len(req.NewPassword) < 6 {
		return apperr.BadRequest("Password must be at least 6 characters long.")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if err := h.Svc.UpdatePassword(ctx, *sc.User, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password updated successfully", nil)
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}
	return respond(c, http.StatusOK, "", userData{sc.User.Profile()})
}

// UpdateProfile patches the user-editable profile fields.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}
	var changes model.Profile
	if err := c.Bind(&changes); err != nil {
		return apperr.BadRequest("Invalid request body.")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	u, err := h.Svc.UpdateProfile(ctx, *sc.User, changes)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Profile updated successfully", userData{u.Profile()})
}

// DeleteAccount removes the authenticated user and their content.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if err := h.Svc.DeleteAccount(ctx, sc.UserID); err != nil {
		return err
	}
	clearRefreshCookie(c)
	return respond(c, http.StatusOK, "We hate to see you go👋😔", nil)
}

// UpdateAvatar accepts a multipart image upload and swaps the user's
// avatar.
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		return apperr.BadRequest("An image file named 'avatar' is required.")
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	defer f.Close()

	// Uploads get a longer leash than the usual 5s db budget.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	url, err := h.Svc.UpdateAvatar(ctx, *sc.User, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Uploaded🎊", map[string]string{"url": url})
}

func (h *UserHandler) reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
