package pending

import (
	"context"

	"github.com/avasilenko/snapdiary/internal/client/models"
)

// Repository is the durable queue of mutations awaiting replay against the
// remote service. Insertion order is the replay-order contract: GetAll must
// return actions oldest first, exactly as they were enqueued.
type Repository interface {
	// Add appends an action to the queue and returns the assigned id.
	Add(ctx context.Context, action models.PendingAction) (int64, error)

	// GetAll returns every queued action, oldest first.
	GetAll(ctx context.Context) ([]models.PendingAction, error)

	// Remove dequeues the action with the given id after its remote call
	// succeeded. Removing an absent id is a no-op.
	Remove(ctx context.Context, id int64) error

	// Count returns the queue length; used for the UI badge.
	Count(ctx context.Context) (int, error)
}
