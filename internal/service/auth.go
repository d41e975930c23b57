// Package service orchestrates the authentication and account flows:
// which tokens to mint, what to persist, and which typed failure to
// surface. It never touches the transport; handlers render its results.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gurusys/blog-api/internal/apperr"
	"github.com/gurusys/blog-api/internal/config"
	"github.com/gurusys/blog-api/internal/model"
	"github.com/gurusys/blog-api/internal/repository"
	"github.com/gurusys/blog-api/internal/token"
	"github.com/gurusys/blog-api/internal/utils"
)

// Message strings reused across flows. Login failures are intentionally
// identical whether the account or the password was wrong, to avoid
// account enumeration.
const (
	msgInvalidCredentials = "Invalid email or password!"
	msgSessionExpired     = "Hey champ! Your session expired, please login again."
	msgUserNotFound       = "Sorry, we did not find this user in our records."
)

// UserStore is the credential-store capability the flows depend on.
// *repository.UserRepo is the production implementation; tests swap in
// an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, email, username, password string, cost int) (uint64, error)
	CreateOAuth(ctx context.Context, email, username string, provider model.AuthProvider) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetBySession(ctx context.Context, refreshToken string) (model.User, error)
	RotateRefresh(ctx context.Context, userID uint64, token string) error
	ClearSession(ctx context.Context, userID uint64) error
	UpdatePassword(ctx context.Context, userID uint64, hash string) error
	UpdateAvatar(ctx context.Context, userID uint64, url string) error
	UpdateProfile(ctx context.Context, u model.User) error
	Delete(ctx context.Context, userID uint64) error
}

// AuthorContent is the slice of the blog/comment stores the account
// deletion cascade needs.
type AuthorContent interface {
	DeleteByAuthor(ctx context.Context, userID uint64) (int64, error)
}

// Mailer dispatches password-reset codes out of band. Best-effort: flows
// log dispatch failures and continue.
type Mailer interface {
	PasswordResetCode(ctx context.Context, email, code string) error
}

// AvatarStorage is the object-storage capability behind avatar uploads.
type AvatarStorage interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// IdentityVerifier validates a third-party OAuth identity token and returns
// the verified email plus the asserting provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (email string, provider model.AuthProvider, err error)
}

// Session is what a successful credential flow hands back to the HTTP
// boundary: the user plus freshly minted tokens. RefreshToken is empty on
// flows that do not rotate it.
type Session struct {
	User         model.User
	AccessToken  string
	RefreshToken string
}

// AuthService implements every account flow against the injected
// capabilities. All state lives behind UserStore; the service itself is
// stateless and safe for concurrent use.
type AuthService struct {
	cfg      config.Config
	codec    *token.Codec
	users    UserStore
	blogs    AuthorContent
	comments AuthorContent
	avatars  AvatarStorage
	mailer   Mailer
	identity IdentityVerifier
}

func New(cfg config.Config, codec *token.Codec, users UserStore, blogs, comments AuthorContent,
	avatars AvatarStorage, mailer Mailer, identity IdentityVerifier) *AuthService {
	return &AuthService{
		cfg:      cfg,
		codec:    codec,
		users:    users,
		blogs:    blogs,
		comments: comments,
		avatars:  avatars,
		mailer:   mailer,
		identity: identity,
	}
}

// SignUp creates a password-based account and opens its first session.
func (s *AuthService) SignUp(ctx context.Context, email, username, password string) (Session, error) {
	id, err := s.users.Create(ctx, email, username, password, s.cfg.BcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return Session{}, apperr.Duplicate("Email already in use. Please log in, or try again.")
		case errors.Is(err, repository.ErrUsernameExists):
			return Session{}, apperr.Duplicate("Username taken. Try again.")
		}
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	return s.openSession(ctx, u)
}

// LogIn authenticates a password account. The login identifier is resolved
// as an email when it contains '@', as a username otherwise.
func (s *AuthService) LogIn(ctx context.Context, login, password string) (Session, error) {
	var (
		u   model.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.users.GetByEmail(ctx, login)
	} else {
		u, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	return s.openSession(ctx, u)
}

// LogInWithOAuth exchanges a verified third-party identity for a session,
// creating the account on first sight. An email already registered under a
// different provider is rejected to prevent cross-provider takeover.
func (s *AuthService) LogInWithOAuth(ctx context.Context, idToken string) (Session, error) {
	if s.identity == nil {
		return Session{}, apperr.Unavailable("")
	}
	email, provider, err := s.identity.Verify(ctx, idToken)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindAuthentication, "Could not verify your identity, please try again.", err)
	}
	if !provider.Valid() || provider == model.ProviderEmail {
		return Session{}, apperr.BadRequest("Unsupported sign-in provider.")
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Provider != provider {
			return Session{}, apperr.Duplicate(fmt.Sprintf(
				"This email was registered with %s. Please log in that way.", u.Provider))
		}
	case errors.Is(err, repository.ErrNotFound):
		id, cerr := s.users.CreateOAuth(ctx, email, generatedUsername(email), provider)
		if cerr != nil {
			return Session{}, apperr.Wrap(apperr.KindInternal, "", cerr)
		}
		if u, err = s.users.GetByID(ctx, id); err != nil {
			return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
		}
	default:
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	return s.openSession(ctx, u)
}

// Refresh exchanges a refresh-token cookie for a new access token. The
// refresh token itself is not rotated on this path; a token that was
// superseded by a later login no longer resolves and fails the exchange.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, apperr.Unauthenticated(msgSessionExpired)
	}
	u, err := s.users.GetBySession(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, apperr.Unauthenticated(msgSessionExpired)
		}
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	access, err := s.mintAccess(u)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	return Session{User: u, AccessToken: access}, nil
}

// LogOut ends the session bound to the refresh token. It never fails
// visibly: a missing cookie, an unknown token, or even a store error all
// terminate in success so clients can always clear local state.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	u, err := s.users.GetBySession(ctx, refreshToken)
	if err != nil {
		return
	}
	if err := s.users.ClearSession(ctx, u.ID); err != nil {
		log.Printf("logout: clear session for user %d failed: %v", u.ID, err)
	}
}

// openSession mints a fresh access+refresh pair, persists the refresh token
// on the user record (overwriting any previous session) and returns both.
func (s *AuthService) openSession(ctx context.Context, u model.User) (Session, error) {
	access, err := s.mintAccess(u)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	refresh, err := s.codec.Sign(sessionClaims(u), s.cfg.RefreshTTL())
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	if err := s.users.RotateRefresh(ctx, u.ID, refresh); err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	u.RefreshToken = refresh
	return Session{User: u, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) mintAccess(u model.User) (string, error) {
	return s.codec.Sign(sessionClaims(u), s.cfg.AccessTTL())
}

func sessionClaims(u model.User) map[string]any {
	return map[string]any{
		token.ClaimUserID:   u.ID,
		token.ClaimProvider: string(u.Provider),
	}
}

// generatedUsername derives a unique-enough username for accounts created
// through an OAuth provider, e.g. "alice-7f3d2c1a".
func generatedUsername(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	return local + "-" + utils.RandomSuffix()
}
