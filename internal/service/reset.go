package service

import (
	"context"
	"errors"
	"log"

	"github.com/gurusys/blog-api/internal/apperr"
	"github.com/gurusys/blog-api/internal/repository"
	"github.com/gurusys/blog-api/internal/token"
	"github.com/gurusys/blog-api/internal/utils"
)

const (
	msgCodeMismatch = "Oops! That code was not a match, try again."
	msgCodeExpired  = "Sorry, that code expired. Try again."
)

// ResetIssued is the outcome of a forgot-password or resend request: a
// short-lived bearer token binding the flow to one email and one code, plus
// the confirmation message shown to the client. The code itself travels out
// of band (mail), never in the response.
type ResetIssued struct {
	Token   string
	Message string
}

// ForgotPassword starts the reset flow for the account behind email.
// Validity of the issued token is proven entirely by its signature and
// embedded expiry; nothing is persisted server-side.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (ResetIssued, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ResetIssued{}, apperr.NotFound(msgUserNotFound)
		}
		return ResetIssued{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	return s.issueResetCode(ctx, u.Email)
}

// ResendResetCode re-runs code issuance for the email bound to a still
// valid reset token. An expired token cannot be used to mint a fresh code;
// the client restarts from ForgotPassword.
func (s *AuthService) ResendResetCode(ctx context.Context, resetToken string) (ResetIssued, error) {
	claims, err := s.verifyBearer(resetToken)
	if err != nil {
		return ResetIssued{}, err
	}
	email := token.StringClaim(claims, token.ClaimEmail)
	if email == "" {
		return ResetIssued{}, apperr.Unauthorized("")
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ResetIssued{}, apperr.NotFound(msgUserNotFound)
		}
		return ResetIssued{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	return s.issueResetCode(ctx, email)
}

// VerifyResetCode compares the code the client supplied against the one
// embedded in its reset token. On success it mints a fresh "verified"
// bearer token proving code verification occurred, which gates the actual
// password update.
func (s *AuthService) VerifyResetCode(ctx context.Context, resetToken, submitted string) (string, error) {
	claims, err := s.codec.Verify(resetToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return "", apperr.BadRequest(msgCodeExpired)
		}
		return "", apperr.Unauthorized("Invalid Token.")
	}
	email := token.StringClaim(claims, token.ClaimEmail)
	code := token.StringClaim(claims, token.ClaimCode)
	if email == "" || code == "" {
		return "", apperr.Unauthorized("")
	}
	// Both values are short-lived digit strings; a plain compare is fine.
	if submitted == "" || submitted != code {
		return "", apperr.BadRequest(msgCodeMismatch)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.NotFound(msgUserNotFound)
		}
		return "", apperr.Wrap(apperr.KindInternal, "", err)
	}
	verified, err := s.mintAccess(u)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "", err)
	}
	return verified, nil
}

// ResetPassword completes the flow: the verified bearer token names the
// user, the password hash is replaced, and a full session pair is minted
// exactly as in login.
func (s *AuthService) ResetPassword(ctx context.Context, verifiedToken, newPassword string) (Session, error) {
	claims, err := s.verifyBearer(verifiedToken)
	if err != nil {
		return Session{}, err
	}
	userID, ok := token.UserID(claims)
	if !ok {
		return Session{}, apperr.Unauthorized("")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, apperr.NotFound(msgUserNotFound)
		}
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	return s.openSession(ctx, u)
}

func (s *AuthService) issueResetCode(ctx context.Context, email string) (ResetIssued, error) {
	code := utils.RandomCode(6)
	tok, err := s.codec.Sign(map[string]any{
		token.ClaimEmail: email,
		token.ClaimCode:  code,
	}, s.cfg.ResetTTL())
	if err != nil {
		return ResetIssued{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	if s.mailer != nil {
		if err := s.mailer.PasswordResetCode(ctx, email, code); err != nil {
			log.Printf("reset: mail dispatch to %s failed: %v", utils.ObscureEmail(email), err)
		}
	}
	return ResetIssued{
		Token:   tok,
		Message: "A code has been sent to " + utils.ObscureEmail(email),
	}, nil
}

// verifyBearer maps codec failures onto the taxonomy the reset endpoints
// use: expiry keeps the user-facing session message, anything else is a
// generic invalid-token rejection.
func (s *AuthService) verifyBearer(raw string) (map[string]any, error) {
	claims, err := s.codec.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, apperr.Unauthorized(msgSessionExpired)
		}
		return nil, apperr.Unauthorized("Invalid Token.")
	}
	return claims, nil
}
