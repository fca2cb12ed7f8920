package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocalProvider(t *testing.T) *auth.LocalProvider {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return auth.NewLocalProvider(db, auth.NewTokenIssuer("test-secret", time.Hour, "crm-test"), zap.NewNop())
}

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "crm")
	now := time.Now().UTC()

	token, issued, err := issuer.Issue("user-1", "ana@example.com", now)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.SessionID)

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, "ana@example.com", parsed.Email)
	assert.Equal(t, issued.SessionID, parsed.SessionID)
	assert.WithinDuration(t, now.Add(time.Hour), parsed.ExpiresAt, time.Second)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour, "crm")

	expired, _, err := issuer.Issue("user-1", "a@example.com", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = issuer.Parse(expired)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)

	foreign, _, err := auth.NewTokenIssuer("other-secret", time.Hour, "crm").Issue("user-1", "a@example.com", time.Now())
	require.NoError(t, err)
	_, err = issuer.Parse(foreign)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	otherIssuer, _, err := auth.NewTokenIssuer("secret", time.Hour, "elsewhere").Issue("user-1", "a@example.com", time.Now())
	require.NoError(t, err)
	_, err = issuer.Parse(otherIssuer)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLocalProvider_SignUpAndSignIn(t *testing.T) {
	p := newLocalProvider(t)
	ctx := context.Background()

	session, err := p.SignUp(ctx, "  Ana@Example.com ", "secreto1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ana@example.com", session.User.Email)
	assert.Equal(t, "ana", session.User.DisplayName)

	_, err = p.SignUp(ctx, "ana@example.com", "secreto2")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	_, err = p.SignUp(ctx, "bea@example.com", "123")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	signedIn, err := p.SignIn(ctx, "ANA@example.com", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, session.User.UserID, signedIn.User.UserID)
	assert.NotEqual(t, session.User.SessionID, signedIn.User.SessionID)

	_, err = p.SignIn(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "nobody@example.com", "secreto1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	users, err := p.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NotNil(t, users[0].LastLoginAt)
}

func TestLocalProvider_SignOutRevokesOnlyThatSession(t *testing.T) {
	p := newLocalProvider(t)
	ctx := context.Background()

	first, err := p.SignUp(ctx, "ana@example.com", "secreto1")
	require.NoError(t, err)
	second, err := p.SignIn(ctx, "ana@example.com", "secreto1")
	require.NoError(t, err)

	user, err := p.Verify(ctx, first.Token)
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx, user))

	_, err = p.Verify(ctx, first.Token)
	assert.ErrorIs(t, err, auth.ErrRevokedToken)

	_, err = p.Verify(ctx, second.Token)
	assert.NoError(t, err)
}

func TestLocalProvider_SignOutRequiresSession(t *testing.T) {
	p := newLocalProvider(t)

	err := p.SignOut(context.Background(), &auth.UserContext{UserID: "user-1"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLocalProvider_PurgeExpiredRevocations(t *testing.T) {
	p := newLocalProvider(t)
	ctx := context.Background()

	require.NoError(t, p.SignOut(ctx, &auth.UserContext{
		UserID:    "user-1",
		SessionID: "old",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, p.SignOut(ctx, &auth.UserContext{
		UserID:    "user-1",
		SessionID: "current",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	purged, err := p.PurgeExpiredRevocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	purged, err = p.PurgeExpiredRevocations(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestLocalProvider_CreateUser(t *testing.T) {
	p := newLocalProvider(t)

	record, err := p.CreateUser(context.Background(), "bea@example.com", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, "bea@example.com", record.Email)
	assert.Nil(t, record.LastLoginAt)
}
