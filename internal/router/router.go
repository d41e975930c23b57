// Package router wires HTTP routes to handlers and their middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gurusys/blog-api/internal/handler"
)

// RegisterRoutes registers routes that need neither authentication nor
// rate limiting. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication and user routes. The limiter
// guards the unauthenticated credential endpoints; gate is the access-token
// middleware protecting the per-user surface. The session-cookie endpoints
// (sign-out, refresh) sit outside the gate: their credential is the cookie,
// not a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, gate, limiter echo.MiddlewareFunc) {
	auth := e.Group("/auth", limiter)
	auth.POST("/sign-up", a.SignUp)
	auth.POST("/login", a.LogIn)
	auth.POST("/oauth", a.OAuth)
	auth.POST("/forgot-password", a.ForgotPassword)
	// The reset endpoints carry their own bearer tokens (reset / verified)
	// and are verified inside the flow rather than by the gate.
	auth.POST("/verify-password-reset-code", a.VerifyResetCode)
	auth.GET("/password/resend-code", a.ResendResetCode)
	auth.PUT("/reset-password", a.ResetPassword)

	e.POST("/u/sign-out", u.SignOut)
	e.GET("/u/refresh-token", u.RefreshToken)

	user := e.Group("/u", gate)
	user.PATCH("/update-password", u.UpdatePassword)
	user.GET("/profile", u.GetProfile)
	user.PATCH("/profile", u.UpdateProfile)
	user.DELETE("/profile", u.DeleteAccount)
	user.PATCH("/avatar", u.UpdateAvatar)
}

// RegisterBlogs registers blog and comment routes. Reads are public;
// writes require the gate.
func RegisterBlogs(e *echo.Echo, b *handler.BlogHandler, gate echo.MiddlewareFunc) {
	e.GET("/blogs", b.List)
	e.GET("/blogs/:blog_id", b.Get)
	e.GET("/blogs/:blog_id/comments", b.ListComments)

	e.POST("/blogs", b.Create, gate)
	e.DELETE("/blogs/:blog_id", b.Delete, gate)
	e.POST("/blogs/:blog_id/comments", b.CreateComment, gate)
	e.DELETE("/comments/:id", b.DeleteComment, gate)
}
