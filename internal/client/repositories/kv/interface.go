package kv

import "context"

// Well-known keys.
const (
	// KeyLegacyEntries holds the flat JSON snapshot written by the old
	// storage scheme. It is read once, migrated into the entries table,
	// and then deleted.
	KeyLegacyEntries = "photo-diary-entries"

	// KeyLastSyncAt records the last successful reconciliation time.
	KeyLastSyncAt = "last-sync-at"

	// Offline-login material cached after a successful online login.
	KeyAuthUser     = "auth-user"
	KeyAuthSalt     = "auth-salt"
	KeyAuthVerifier = "auth-verifier"
)

// Repository is a small durable key/value store for bookkeeping data that
// does not belong in the entries or pending-actions tables.
type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Absent keys are ignored.
	Delete(ctx context.Context, key string) error
}
