package pending

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avasilenko/snapdiary/internal/client/models"
	"github.com/avasilenko/snapdiary/internal/common"
)

// SQLiteRepository implements Repository over the pending_actions table.
// The AUTOINCREMENT primary key doubles as the replay order, so GetAll
// simply orders by id.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// payload is serialized per action type so that the stored shape matches
// the tagged variant exactly: one payload column, one shape per type.
func marshalPayload(a *models.PendingAction) ([]byte, error) {
	switch a.Type {
	case models.ActionCreate:
		return json.Marshal(a.Create)
	case models.ActionUpdate:
		return json.Marshal(a.Update)
	case models.ActionDelete:
		return json.Marshal(a.Delete)
	default:
		return nil, common.ErrUnknownAction
	}
}

func unmarshalPayload(a *models.PendingAction, data []byte) error {
	switch a.Type {
	case models.ActionCreate:
		a.Create = &models.CreatePayload{}
		return json.Unmarshal(data, a.Create)
	case models.ActionUpdate:
		a.Update = &models.UpdatePayload{}
		return json.Unmarshal(data, a.Update)
	case models.ActionDelete:
		a.Delete = &models.DeletePayload{}
		return json.Unmarshal(data, a.Delete)
	default:
		return common.ErrUnknownAction
	}
}

// Add validates and appends an action, returning the queue-assigned id.
func (r *SQLiteRepository) Add(ctx context.Context, a models.PendingAction) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	payload, err := marshalPayload(&a)
	if err != nil {
		return 0, fmt.Errorf("encoding pending action: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_actions (action_type, payload, created_at) VALUES (?, ?, ?)`,
		string(a.Type), payload, a.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue pending action: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending action id: %w", err)
	}
	return id, nil
}

// GetAll returns the queue oldest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.PendingAction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action_type, payload, created_at FROM pending_actions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending actions: %w", err)
	}
	defer rows.Close()

	var result []models.PendingAction
	for rows.Next() {
		var (
			a         models.PendingAction
			actType   string
			payload   []byte
			createdAt string
		)
		if err := rows.Scan(&a.ID, &actType, &payload, &createdAt); err != nil {
			return nil, err
		}
		a.Type = models.ActionType(actType)
		if err := unmarshalPayload(&a, payload); err != nil {
			return nil, fmt.Errorf("decoding pending action %d: %w", a.ID, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("decoding pending action %d: %w", a.ID, err)
		}
		a.CreatedAt = ts
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Remove dequeues by id. Absent ids are ignored.
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_actions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove pending action: %w", err)
	}
	return nil
}

// Count returns the queue length.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_actions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending actions: %w", err)
	}
	return n, nil
}
