package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avasilenko/snapdiary/internal/client/models"
	"github.com/avasilenko/snapdiary/internal/dbx"
)

// SQLiteRepository implements Repository over a local SQLite database.
// Entries are stored as a JSON blob per row; the date is duplicated into
// its own column for indexing.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanEntries(rows *sql.Rows) ([]models.DiaryEntry, error) {
	var result []models.DiaryEntry
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e models.DiaryEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decoding cached entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAll returns every cached entry in unspecified order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.DiaryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func upsert(ctx context.Context, db dbx.DBTX, e *models.DiaryEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}
	query := `INSERT INTO entries (id, entry_date, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET entry_date = excluded.entry_date, data = excluded.data`
	if _, err := db.ExecContext(ctx, query, e.ID, e.Date.UTC().Format(time.RFC3339Nano), data); err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// Save upserts a single entry by id.
func (r *SQLiteRepository) Save(ctx context.Context, e *models.DiaryEntry) error {
	return upsert(ctx, r.db, e)
}

// ReplaceAll wipes the table and inserts the given entries in one
// transaction, so a crash cannot leave a half-replaced cache behind.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, entries []models.DiaryEntry) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
			return fmt.Errorf("failed to clear entries: %w", err)
		}
		for i := range entries {
			if err := upsert(ctx, tx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteByID removes an entry. Absent ids are ignored.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Count returns the number of cached entries.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}
