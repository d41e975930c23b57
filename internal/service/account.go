package service

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/gurusys/blog-api/internal/apperr"
	"github.com/gurusys/blog-api/internal/model"
	"github.com/gurusys/blog-api/internal/repository"
	"github.com/gurusys/blog-api/internal/utils"
)

// UpdatePassword changes the password of an authenticated user after
// re-checking the current one. OAuth-only accounts have no hash and the
// check fails closed.
func (s *AuthService) UpdatePassword(ctx context.Context, u model.User, oldPassword, newPassword string) error {
	if !utils.VerifyPassword(u.PasswordHash, oldPassword) {
		return apperr.BadRequest("Current password is incorrect")
	}
	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	return nil
}

// UpdateProfile applies the user-editable fields and returns the updated
// record.
func (s *AuthService) UpdateProfile(ctx context.Context, u model.User, changes model.Profile) (model.User, error) {
	if changes.Username != "" {
		u.Username = changes.Username
	}
	if changes.Bio != "" {
		u.Bio = changes.Bio
	}
	if changes.AvatarURL != "" {
		u.AvatarURL = changes.AvatarURL
	}
	merge(&u.SocialLinks.Youtube, changes.SocialLinks.Youtube)
	merge(&u.SocialLinks.Instagram, changes.SocialLinks.Instagram)
	merge(&u.SocialLinks.Facebook, changes.SocialLinks.Facebook)
	merge(&u.SocialLinks.Twitter, changes.SocialLinks.Twitter)
	merge(&u.SocialLinks.Github, changes.SocialLinks.Github)
	merge(&u.SocialLinks.Website, changes.SocialLinks.Website)

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return model.User{}, apperr.Duplicate("Username taken. Try again.")
		}
		return model.User{}, apperr.Wrap(apperr.KindInternal, "", err)
	}
	return u, nil
}

// UpdateAvatar uploads a new avatar image and swaps the stored URL. The
// previous image is deleted from storage best-effort once the new one is
// in place.
func (s *AuthService) UpdateAvatar(ctx context.Context, u model.User, r io.Reader, size int64, contentType string) (string, error) {
	if s.avatars == nil {
		return "", apperr.Unavailable("")
	}
	url, err := s.avatars.Upload(ctx, r, size, contentType)
	if err != nil {
		return "", apperr.Wrap(apperr.KindBadGateway, "Failed to upload image. Please try again later.", err)
	}
	if err := s.users.UpdateAvatar(ctx, u.ID, url); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "", err)
	}
	if old := u.AvatarURL; old != "" && old != url {
		if err := s.avatars.Delete(ctx, old); err != nil {
			log.Printf("avatar: delete old image for user %d failed: %v", u.ID, err)
		}
	}
	return url, nil
}

// DeleteAccount removes the user and, once the delete has committed, sweeps
// their blogs and comments. Cleanup failures are logged, never propagated:
// the primary operation already succeeded.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Unable to delete account, try again later.")
		}
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	if s.blogs != nil {
		if _, err := s.blogs.DeleteByAuthor(ctx, userID); err != nil {
			log.Printf("delete account: blog cleanup for user %d failed: %v", userID, err)
		}
	}
	if s.comments != nil {
		if _, err := s.comments.DeleteByAuthor(ctx, userID); err != nil {
			log.Printf("delete account: comment cleanup for user %d failed: %v", userID, err)
		}
	}
	return nil
}

func merge(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
