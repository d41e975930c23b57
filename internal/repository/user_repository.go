package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gurusys/blog-api/internal/model"
	"github.com/gurusys/blog-api/internal/utils"
)

const userColumns = `id,email,username,password_hash,auth_provider,refresh_token,bio,avatar_url,
link_youtube,link_instagram,link_facebook,link_twitter,link_github,link_website,created_at,updated_at`

// UserRepo is the user-record accessor. The refresh_token column is the
// single active session slot; rotating it is one UPDATE, so per-row
// atomicity of the database is the only synchronization relied upon.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a password-based account and returns its ID. The password
// is hashed here and only here; a default avatar is derived from the email.
func (r *UserRepo) Create(ctx context.Context, email, username, password string, cost int) (uint64, error) {
	email = normalize(email)
	username = normalize(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash, auth_provider, avatar_url) VALUES (?,?,?,?,?)",
		email, username, hash, model.ProviderEmail, utils.DefaultAvatarURL(email))
	if err != nil {
		return 0, duplicateKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateOAuth inserts an account backed by a third-party identity provider.
// No password hash is stored; password verification fails closed for these
// records.
func (r *UserRepo) CreateOAuth(ctx context.Context, email, username string, provider model.AuthProvider) (uint64, error) {
	email = normalize(email)
	username = normalize(username)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash, auth_provider, avatar_url) VALUES (?,?,'',?,?)",
		email, username, provider, utils.DefaultAvatarURL(email))
	if err != nil {
		return 0, duplicateKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getWhere(ctx, "email=?", normalize(email))
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getWhere(ctx, "username=?", normalize(username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getWhere(ctx, "id=?", id)
}

// GetBySession resolves the user holding the given refresh token. A token
// that was superseded by a later login no longer matches any row.
func (r *UserRepo) GetBySession(ctx context.Context, refreshToken string) (model.User, error) {
	if refreshToken == "" {
		return model.User{}, ErrNotFound
	}
	return r.getWhere(ctx, "refresh_token=?", refreshToken)
}

// RotateRefresh overwrites the user's refresh token slot. The previous
// token, if any, stops resolving a session from this point on.
func (r *UserRepo) RotateRefresh(ctx context.Context, userID uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=?", token, userID)
	return err
}

// ClearSession empties the user's refresh token slot. Idempotent.
func (r *UserRepo) ClearSession(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token='' WHERE id=?", userID)
	return err
}

// UpdatePassword stores a freshly derived hash for the user. Callers hash;
// this method never re-hashes.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", hash, userID)
	return err
}

// UpdateAvatar stores a new avatar URL for the user.
func (r *UserRepo) UpdateAvatar(ctx context.Context, userID uint64, url string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar_url=? WHERE id=?", url, userID)
	return err
}

// UpdateProfile persists the user-editable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET username=?, bio=?, avatar_url=?,
		link_youtube=?, link_instagram=?, link_facebook=?, link_twitter=?, link_github=?, link_website=?
		WHERE id=?`,
		normalize(u.Username), u.Bio, u.AvatarURL,
		u.SocialLinks.Youtube, u.SocialLinks.Instagram, u.SocialLinks.Facebook,
		u.SocialLinks.Twitter, u.SocialLinks.Github, u.SocialLinks.Website,
		u.ID)
	return duplicateKeyError(err)
}

// Delete removes the user row. Cascading cleanup of authored blogs and
// comments is the service layer's best-effort follow-up, not part of this
// statement.
func (r *UserRepo) Delete(ctx context.Context, userID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) getWhere(ctx context.Context, where string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Provider, &u.RefreshToken,
			&u.Bio, &u.AvatarURL,
			&u.SocialLinks.Youtube, &u.SocialLinks.Instagram, &u.SocialLinks.Facebook,
			&u.SocialLinks.Twitter, &u.SocialLinks.Github, &u.SocialLinks.Website,
			&u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// duplicateKeyError maps MySQL error 1062 onto the matching sentinel by
// inspecting which unique key was violated.
func duplicateKeyError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") && !strings.Contains(msg, "duplicate entry") {
		return err
	}
	if strings.Contains(msg, "username") {
		return ErrUsernameExists
	}
	return ErrEmailExists
}
