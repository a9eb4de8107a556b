package entries

import (
	"context"

	"github.com/avasilenko/snapdiary/internal/client/models"
)

// Repository persists the last-known-good set of diary entries across
// process restarts. It owns no business logic: ordering, reconciliation
// and queueing live in the sync coordinator.
//
// All operations must be idempotent under retry.
type Repository interface {
	// GetAll returns every cached entry. The order is unspecified; the
	// caller re-sorts.
	GetAll(ctx context.Context) ([]models.DiaryEntry, error)

	// ReplaceAll atomically replaces the whole cache with the given
	// entries. Used after a successful remote fetch, when the server's
	// view becomes authoritative.
	ReplaceAll(ctx context.Context, entries []models.DiaryEntry) error

	// Save upserts a single entry by id.
	Save(ctx context.Context, entry *models.DiaryEntry) error

	// DeleteByID removes a single entry. Deleting an absent id is a no-op,
	// not an error.
	DeleteByID(ctx context.Context, id string) error

	// Count returns the number of cached entries.
	Count(ctx context.Context) (int, error)
}
