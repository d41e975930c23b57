package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gurusys/blog-api/internal/apperr"
	"github.com/gurusys/blog-api/internal/config"
	"github.com/gurusys/blog-api/internal/model"
	"github.com/gurusys/blog-api/internal/service"
)

// AuthHandler bundles dependencies for the authentication endpoints.
type AuthHandler struct {
	Cfg config.Config
	Svc *service.AuthService
}

func NewAuthHandler(cfg config.Config, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Svc: svc}
}

// ----- DTOs -----

type signUpReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type logInReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
type oauthReq struct {
	AccessToken string `json:"access_token"`
}
type emailReq struct {
	Email string `json:"email"`
}
type verifyCodeReq struct {
	PasswordResetCode string `json:"password_reset_code"`
}
type newPasswordReq struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type userData struct {
	User model.Profile `json:"user"`
}

// SignUp: create the account and open its first session immediately.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request body.")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return apperr.BadRequest("Username, email and password are required.")
	}
	if len(req.Password) < 6 {
		return apperr.BadRequest("Password must be at least 6 characters long.")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	sess, err := h.Svc.SignUp(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}
	h.emitSession(c, sess)
	return respond(c, http.StatusCreated, "Welcome onboard!👋", userData{sess.User.Profile()})
}

// LogIn: password login; the identifier may be an email or a username.
func (h *AuthHandler) LogIn(c echo.Context) error {
	var req logInReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request body.")
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return apperr.BadRequest("Login and password are required.")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	sess, err := h.Svc.LogIn(ctx, req.Login, req.Password)
	if err != nil {
		return err
	}
	h.emitSession(c, sess)
	return respond(c, http.StatusCreated, "Login successful", userData{sess.User.Profile()})
}

// OAuth: exchange a third-party identity token for a session.
func (h *AuthHandler) OAuth(c echo.Context) error {
	var req oauthReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.AccessToken) == "" {
		return apperr.BadRequest("Missing identity token.")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	sess, err := h.Svc.LogInWithOAuth(ctx, strings.TrimSpace(req.AccessToken))
	if err != nil {
		return err
	}
	h.emitSession(c, sess)
	return respond(c, http.StatusCreated, "Welcome onboard!👋", userData{sess.User.Profile()})
}

// ForgotPassword: mint a reset token and queue the code mail. The token
// rides back in the Authorization header; the code only ever travels by
// mail.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return apperr.BadRequest("Email is required.")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	issued, err := h.Svc.ForgotPassword(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderAuthorization, issued.Token)
	return respond(c, http.StatusOK, issued.Message, nil)
}

// ResendResetCode: issue a fresh code for the email bound to the presented
// reset token.
func (h *AuthHandler) ResendResetCode(c echo.Context) error {
	raw, err := bearerToken(c)
	if err != nil {
		return err
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	issued, err := h.Svc.ResendResetCode(ctx, raw)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderAuthorization, issued.Token)
	return respond(c, http.StatusOK, issued.Message, nil)
}

// VerifyResetCode: check the out-of-band code against the reset token and
// hand back the verified token that unlocks ResetPassword.
func (h *AuthHandler) VerifyResetCode(c echo.Context) error {
	raw, err := bearerToken(c)
	if err != nil {
		return err
	}
	var req verifyCodeReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.PasswordResetCode) == "" {
		return apperr.BadRequest("Reset code is required.")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	verified, err := h.Svc.VerifyResetCode(ctx, raw, strings.TrimSpace(req.PasswordResetCode))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderAuthorization, verified)
	return respond(c, http.StatusOK, "You rock! Now, let's create you a new password💪", nil)
}

// ResetPassword: final step of the forgot-password flow; behaves like a
// login on success.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	raw, err := bearerToken(c)
	if err != nil {
		return err
	}
	var req newPasswordReq
	if err := c.Bind(&req); err != nil || req.NewPassword == "" {
		return apperr.BadRequest("New password is required.")
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperr.BadRequest("Passwords do not match.")
	}
	if len(req.NewPassword) < 6 {
		return apperr.BadRequest("Password must be at least 6 characters long.")
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	sess, err := h.Svc.ResetPassword(ctx, raw, req.NewPassword)
	if err != nil {
		return err
	}
	h.emitSession(c, sess)
	return respond(c, http.StatusOK, "Let's go🚀", nil)
}

// emitSession writes the freshly minted credentials onto the response: the
// access token as an Authorization header, the refresh token (when rotated)
// as the session cookie.
func (h *AuthHandler) emitSession(c echo.Context, sess service.Session) {
	c.Response().Header().Set(echo.HeaderAuthorization, sess.AccessToken)
	if sess.RefreshToken != "" {
		setRefreshCookie(c, sess.RefreshToken, h.Cfg.RefreshTTL())
	}
}

func (h *AuthHandler) reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
