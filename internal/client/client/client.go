package client

import (
	"context"

	"github.com/avasilenko/snapdiary/internal/client/models"
)

// Client is the transport-agnostic contract for the remote diary backend.
// All calls are scoped to the authenticated user; any transport, auth or
// server failure is reported as an error that the sync layer treats
// uniformly as "remote unavailable".
type Client interface {
	Close() error

	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error

	// Ping checks backend reachability; the online-status watcher probes it.
	Ping(ctx context.Context) error

	FetchEntries(ctx context.Context) ([]models.DiaryEntry, error)
	CreateEntry(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, error)
	UpdateEntry(ctx context.Context, id string, patch models.EntryPatch) (*models.DiaryEntry, error)
	DeleteEntry(ctx context.Context, id string) error

	// CreateGroupEntry publishes a copy of the entry into a shared group.
	// It is insert-only and independent per group id; a failure here never
	// rolls back the private-scope write attempted in the same fan-out.
	CreateGroupEntry(ctx context.Context, groupID string, entry *models.DiaryEntry) error
}
