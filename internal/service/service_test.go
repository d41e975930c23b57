package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gurusys/blog-api/internal/config"
	"github.com/gurusys/blog-api/internal/model"
	"github.com/gurusys/blog-api/internal/repository"
	"github.com/gurusys/blog-api/internal/token"
)

// memStore is an in-memory UserStore sharing the repository's sentinel
// errors, so the flows exercise the same branches as against MySQL.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, users: make(map[uint64]*model.User)}
}

func (m *memStore) Create(_ context.Context, email, username, password string, cost int) (uint64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return 0, err
	}
	return m.insert(email, username, string(hash), model.ProviderEmail)
}

func (m *memStore) CreateOAuth(_ context.Context, email, username string, provider model.AuthProvider) (uint64, error) {
	return m.insert(email, username, "", provider)
}

func (m *memStore) insert(email, username, hash string, provider model.AuthProvider) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
		if u.Username == username {
			return 0, repository.ErrUsernameExists
		}
	}
	id := m.nextID
	m.nextID++
	m.users[id] = &model.User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Provider:     provider,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	return id, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetBySession(_ context.Context, refreshToken string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if refreshToken == "" {
		return model.User{}, repository.ErrNotFound
	}
	for _, u := range m.users {
		if u.RefreshToken == refreshToken {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) RotateRefresh(_ context.Context, userID uint64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (m *memStore) ClearSession(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.RefreshToken = ""
	}
	return nil
}

func (m *memStore) UpdatePassword(_ context.Context, userID uint64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memStore) UpdateAvatar(_ context.Context, userID uint64, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarURL = url
	return nil
}

func (m *memStore) UpdateProfile(_ context.Context, in model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if id != in.ID && u.Username == in.Username {
			return repository.ErrUsernameExists
		}
	}
	u, ok := m.users[in.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Username = in.Username
	u.Bio = in.Bio
	u.AvatarURL = in.AvatarURL
	u.SocialLinks = in.SocialLinks
	return nil
}

func (m *memStore) Delete(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

// recordingMailer captures the codes the flows dispatch.
type recordingMailer struct {
	mu    sync.Mutex
	codes []string
	to    []string
	fail  error
}

func (r *recordingMailer) PasswordResetCode(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.to = append(r.to, email)
	r.codes = append(r.codes, code)
	return nil
}

func (r *recordingMailer) lastCode() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.codes) == 0 {
		return ""
	}
	return r.codes[len(r.codes)-1]
}

// stubIdentity returns a fixed verification result.
type stubIdentity struct {
	email    string
	provider model.AuthProvider
	err      error
}

func (s stubIdentity) Verify(context.Context, string) (string, model.AuthProvider, error) {
	return s.email, s.provider, s.err
}

// countingSweeper counts DeleteByAuthor calls for cascade assertions.
type countingSweeper struct {
	calls int
	err   error
}

func (c *countingSweeper) DeleteByAuthor(context.Context, uint64) (int64, error) {
	c.calls++
	return 1, c.err
}

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		JWTSecret:      "unit-test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 3,
		ResetTTLMin:    15,
		BcryptCost:     bcrypt.MinCost,
	}
}

// fixture wires an AuthService against the in-memory store with a
// steerable clock.
type fixture struct {
	svc    *AuthService
	store  *memStore
	mailer *recordingMailer
	now    time.Time
	clock  *time.Time
}

func newFixture() *fixture {
	start := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	tick := start
	f := &fixture{
		store:  newMemStore(),
		mailer: &recordingMailer{},
		now:    start,
		clock:  &tick,
	}
	cfg := testConfig()
	codec := token.NewWithClock(cfg.JWTSecret, func() time.Time { return *f.clock })
	f.svc = New(cfg, codec, f.store, nil, nil, nil, f.mailer, nil)
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}
