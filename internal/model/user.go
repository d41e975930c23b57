package model

import "time"

// AuthProvider identifies how an account authenticates. Password accounts
// use ProviderEmail; the rest map to third-party OAuth identity providers.
type AuthProvider string

const (
	ProviderEmail   AuthProvider = "email"
	ProviderGoogle  AuthProvider = "google"
	ProviderGithub  AuthProvider = "github"
	ProviderTwitter AuthProvider = "twitter"
)

// Valid reports whether p is one of the known providers.
func (p AuthProvider) Valid() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderGithub, ProviderTwitter:
		return true
	}
	return false
}

// User mirrors the 'users' table.
//
// PasswordHash is empty for OAuth-only accounts and is never serialized
// to clients. RefreshToken is the single active session slot: empty means
// no active session, and a new login overwrites whatever was there.
type User struct {
	ID           uint64
	Email        string
	Username     string
	PasswordHash string
	Provider     AuthProvider
	RefreshToken string
	Bio          string
	AvatarURL    string
	SocialLinks  SocialLinks
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SocialLinks groups the optional profile links shown on a user's page.
// Irrelevant to authentication but co-resident on the user record.
type SocialLinks struct {
	Youtube   string `json:"youtube"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Github    string `json:"github"`
	Website   string `json:"website"`
}

// Profile is the client-facing projection of a User. The password hash and
// refresh token never leave the server.
type Profile struct {
	ID          uint64       `json:"id"`
	Email       string       `json:"email"`
	Username    string       `json:"username"`
	Provider    AuthProvider `json:"auth_provider"`
	Bio         string       `json:"bio"`
	AvatarURL   string       `json:"avatar_url"`
	SocialLinks SocialLinks  `json:"social_links"`
	JoinedAt    time.Time    `json:"joined_at"`
}

// Profile returns the serializable view of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Provider:    u.Provider,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		SocialLinks: u.SocialLinks,
		JoinedAt:    u.CreatedAt,
	}
}

// SessionContext is the authenticated identity attached to a request after
// the access token has been verified and the acting user resolved. Handlers
// receive it read-only; producing it is the auth middleware's job.
type SessionContext struct {
	UserID uint64
	User   *User
}
