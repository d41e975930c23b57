package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurusys/blog-api/internal/apperr"
	"github.com/gurusys/blog-api/internal/model"
)

func TestSignUpIssuesSession(t *testing.T) {
	f := newFixture()

	sess, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)
	assert.Equal(t, "alice@example.com", sess.User.Email)

	// The refresh token is persisted: it resolves back to the same user.
	u, err := f.store.GetBySession(context.Background(), sess.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, u.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "pw-one")
	require.NoError(t, err)

	_, err = f.svc.SignUp(context.Background(), "alice@example.com", "other", "pw-two")
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
	assert.Equal(t, "Email already in use. Please log in, or try again.", apperr.Message(err))
}

func TestSignUpDuplicateUsername(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "pw-one")
	require.NoError(t, err)

	_, err = f.svc.SignUp(context.Background(), "bob@example.com", "alice", "pw-two")
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
	assert.Equal(t, "Username taken. Try again.", apperr.Message(err))
}

func TestLogInByEmailAndUsername(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "s3cret-pass")
	require.NoError(t, err)

	byEmail, err := f.svc.LogIn(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", byEmail.User.Username)

	byName, err := f.svc.LogIn(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, byEmail.User.ID, byName.User.ID)
}

// Unknown account and wrong password must be indistinguishable to the
// caller, in both kind and message.
func TestLogInFailuresAreUniform(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "s3cret-pass")
	require.NoError(t, err)

	_, errUnknown := f.svc.LogIn(context.Background(), "nobody@example.com", "whatever")
	_, errWrongPw := f.svc.LogIn(context.Background(), "alice@example.com", "not-the-password")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.Equal(t, apperr.Message(errUnknown), apperr.Message(errWrongPw))
	assert.Equal(t, apperr.Status(errUnknown), apperr.Status(errWrongPw))
	assert.Equal(t, "Invalid email or password!", apperr.Message(errUnknown))
}

func TestLogInSupersedesPreviousSession(t *testing.T) {
	f := newFixture()
	first, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "s3cret-pass")
	require.NoError(t, err)

	f.advance(time.Second) // distinct iat so the signed tokens differ
	second, err := f.svc.LogIn(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The earlier refresh token no longer resolves a session.
	_, err = f.svc.Refresh(context.Background(), first.RefreshToken)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
	assert.Equal(t, "Hey champ! Your session expired, please login again.", apperr.Message(err))

	_, err = f.svc.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshMintsAccessOnly(t *testing.T) {
	f := newFixture()
	sess, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "s3cret-pass")
	require.NoError(t, err)

	f.advance(time.Second)
	refreshed, err := f.svc.Refresh(context.Background(), sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, sess.AccessToken, refreshed.AccessToken)
	// No rotation: the same refresh token stays valid afterwards.
	assert.Empty(t, refreshed.RefreshToken)
	_, err = f.svc.Refresh(context.Background(), sess.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshEmptyToken(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Refresh(context.Background(), "")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
}

func TestLogOutIsIdempotent(t *testing.T) {
	f := newFixture()
	sess, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "s3cret-pass")
	require.NoError(t, err)

	f.svc.LogOut(context.Background(), sess.RefreshToken)
	_, err = f.svc.Refresh(context.Background(), sess.RefreshToken)
	assert.Error(t, err)

	// Unknown and empty tokens are accepted silently.
	f.svc.LogOut(context.Background(), sess.RefreshToken)
	f.svc.LogOut(context.Background(), "")
	f.svc.LogOut(context.Background(), "not-a-session")
}

func TestOAuthCreatesAccountOnFirstSight(t *testing.T) {
	f := newFixture()
	f.svc.identity = stubIdentity{email: "carol@example.com", provider: model.ProviderGoogle}

	sess, err := f.svc.LogInWithOAuth(context.Background(), "provider-id-token")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", sess.User.Email)
	assert.Equal(t, model.ProviderGoogle, sess.User.Provider)
	assert.Contains(t, sess.User.Username, "carol-")
	assert.NotEmpty(t, sess.RefreshToken)

	// Second login reuses the account instead of creating another.
	again, err := f.svc.LogInWithOAuth(context.Background(), "provider-id-token")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)
}

func TestOAuthProviderMismatch(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignUp(context.Background(), "alice@example.com", "alice", "s3cret-pass")
	require.NoError(t, err)

	f.svc.identity = stubIdentity{email: "alice@example.com", provider: model.ProviderGithub}
	_, err = f.svc.LogInWithOAuth(context.Background(), "provider-id-token")
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
	assert.Equal(t, "This email was registered with email. Please log in that way.", apperr.Message(err))
}

func TestOAuthVerifierFailure(t *testing.T) {
	f := newFixture()
	f.svc.identity = stubIdentity{err: errors.New("upstream says no")}
	_, err := f.svc.LogInWithOAuth(context.Background(), "bad-token")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
}

func TestOAuthUnavailableWithoutVerifier(t *testing.T) {
	f := newFixture()
	_, err := f.svc.LogInWithOAuth(context.Background(), "provider-id-token")
	assert.True(t, apperr.IsKind(err, apperr.KindUnavailable))
}
