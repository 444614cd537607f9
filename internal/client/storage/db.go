package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ayadas/cozyon-cli/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations brings the local session database up to the current schema
// using the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local session database at dsn
// and migrates it. The returned handle is owned by the caller.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
