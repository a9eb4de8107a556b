package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/avasilenko/snapdiary/internal/client/migrations"
	"github.com/avasilenko/snapdiary/internal/client/repositories/entries"
	"github.com/avasilenko/snapdiary/internal/client/repositories/kv"
	"github.com/avasilenko/snapdiary/internal/client/repositories/pending"
)

// Repositories bundles the local-store repositories sharing one database.
type Repositories struct {
	Entries entries.Repository
	Pending pending.Repository
	KV      kv.Repository
	DB      *sql.DB
}

// RunMigrations applies the embedded goose migrations to the local DB.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local SQLite database at dsn,
// applies migrations and wires the repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Entries: entries.NewSQLiteRepository(db),
		Pending: pending.NewSQLiteRepository(db),
		KV:      kv.NewSQLiteRepository(db),
		DB:      db,
	}, nil
}
