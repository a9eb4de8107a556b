package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasilenko/snapdiary/internal/client/repositories/kv"
	"github.com/avasilenko/snapdiary/internal/common"
)

// failingClient rejects every auth call; used to prove the offline path
// never touches the network.
type failingClient struct {
	fakeClient
}

func (f *failingClient) Login(ctx context.Context, email, pw string) error {
	return errors.New("connection refused")
}

func setupAuth(t *testing.T) (*AuthService, kv.Repository) {
	t.Helper()
	_, _, kvRepo := setupRepos(t)
	return NewAuthService(&fakeClient{}, kvRepo, discardLogger()), kvRepo
}

func TestLogin_CachesOfflineCredentials(t *testing.T) {
	s, kvRepo := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "anna@example.com", "s3cret"))

	for _, key := range []string{kv.KeyAuthUser, kv.KeyAuthSalt, kv.KeyAuthVerifier} {
		val, err := kvRepo.Get(ctx, key)
		require.NoError(t, err)
		assert.NotEmpty(t, val, key)
	}
}

func TestLoginOffline_AcceptsCachedCredentials(t *testing.T) {
	s, _ := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "anna@example.com", "s3cret"))

	assert.NoError(t, s.LoginOffline(ctx, "anna@example.com", "s3cret"))
}

func TestLoginOffline_RejectsWrongPassword(t *testing.T) {
	s, _ := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "anna@example.com", "s3cret"))

	err := s.LoginOffline(ctx, "anna@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginOffline_RejectsWrongUser(t *testing.T) {
	s, _ := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "anna@example.com", "s3cret"))

	err := s.LoginOffline(ctx, "boris@example.com", "s3cret")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginOffline_WithoutPriorOnlineLogin(t *testing.T) {
	s, _ := setupAuth(t)

	err := s.LoginOffline(context.Background(), "anna@example.com", "s3cret")
	assert.ErrorIs(t, err, common.ErrLocalAuthNotAvailable)
}

func TestLogout_DropsCredentialsKeepsData(t *testing.T) {
	entryRepo, _, kvRepo := setupRepos(t)
	s := NewAuthService(&fakeClient{}, kvRepo, discardLogger())
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "anna@example.com", "s3cret"))
	e := entry("keep-me", time.Now().UTC())
	require.NoError(t, entryRepo.Save(ctx, &e))

	require.NoError(t, s.Logout(ctx))

	err := s.LoginOffline(ctx, "anna@example.com", "s3cret")
	assert.ErrorIs(t, err, common.ErrLocalAuthNotAvailable)

	n, err := entryRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "entry cache survives logout")
}

func TestLogin_OnlineFailurePropagates(t *testing.T) {
	_, _, kvRepo := setupRepos(t)
	s := NewAuthService(&failingClient{}, kvRepo, discardLogger())
	ctx := context.Background()

	require.Error(t, s.Login(ctx, "anna@example.com", "s3cret"))

	val, err := kvRepo.Get(ctx, kv.KeyAuthVerifier)
	require.NoError(t, err)
	assert.Nil(t, val, "no verifier cached on failed login")
}
