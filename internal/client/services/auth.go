package services

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/avasilenko/snapdiary/internal/client/client"
	"github.com/avasilenko/snapdiary/internal/client/repositories/kv"
	"github.com/avasilenko/snapdiary/internal/common"
	"github.com/avasilenko/snapdiary/internal/cryptox"
	"github.com/avasilenko/snapdiary/internal/logging"
)

// AuthService handles registration and login, including the offline path:
// after a successful online login it caches a salted argon2id verifier so
// the same credentials can unlock the local cache without a network.
type AuthService struct {
	client client.Client
	kv     kv.Repository
	log    logging.Logger
}

func NewAuthService(c client.Client, kvRepo kv.Repository, log logging.Logger) *AuthService {
	return &AuthService{client: c, kv: kvRepo, log: log}
}

// Register creates a new account on the remote service.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	return s.client.Register(ctx, email, password)
}

// Login authenticates online and, on success, refreshes the locally cached
// offline-login material. The cache refresh is best-effort: a storage
// failure is logged, not surfaced, since the online session is already
// established.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	if err := s.client.Login(ctx, email, password); err != nil {
		return err
	}
	if err := s.cacheOfflineCredentials(ctx, email, password); err != nil {
		s.log.Error(ctx, "failed to cache offline credentials", "error", err)
	}
	return nil
}

func (s *AuthService) cacheOfflineCredentials(ctx context.Context, email, password string) error {
	salt, err := cryptox.NewSalt()
	if err != nil {
		return err
	}
	key := cryptox.DeriveKey([]byte(password), salt)

	if err := s.kv.Set(ctx, kv.KeyAuthUser, []byte(email)); err != nil {
		return fmt.Errorf("storing user: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyAuthSalt, salt); err != nil {
		return fmt.Errorf("storing salt: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyAuthVerifier, cryptox.MakeVerifier(key)); err != nil {
		return fmt.Errorf("storing verifier: %w", err)
	}
	return nil
}

// LoginOffline verifies the credentials against the cached verifier. It
// grants access to the local cache only; no remote session is established.
// Returns ErrLocalAuthNotAvailable when no online login has ever succeeded
// on this device.
func (s *AuthService) LoginOffline(ctx context.Context, email, password string) error {
	user, err := s.kv.Get(ctx, kv.KeyAuthUser)
	if err != nil {
		return err
	}
	salt, err := s.kv.Get(ctx, kv.KeyAuthSalt)
	if err != nil {
		return err
	}
	verifier, err := s.kv.Get(ctx, kv.KeyAuthVerifier)
	if err != nil {
		return err
	}
	if len(user) == 0 || len(salt) == 0 || len(verifier) == 0 {
		return common.ErrLocalAuthNotAvailable
	}

	if string(user) != email {
		return common.ErrUnauthorized
	}
	key := cryptox.DeriveKey([]byte(password), salt)
	if subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), verifier) != 1 {
		return common.ErrUnauthorized
	}
	return nil
}

// Logout drops the cached offline-login material. The entry cache and the
// pending queue are left intact so queued offline work is not lost.
func (s *AuthService) Logout(ctx context.Context) error {
	for _, key := range []string{kv.KeyAuthUser, kv.KeyAuthSalt, kv.KeyAuthVerifier} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
