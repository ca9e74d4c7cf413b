package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cre8tlystudio/adminctl/internal/client/migrations"
	"github.com/cre8tlystudio/adminctl/internal/client/repositories/metadata"
	"github.com/cre8tlystudio/adminctl/internal/dbx"
	"github.com/cre8tlystudio/adminctl/internal/filex"
	"github.com/pressly/goose/v3"
)

// Repositories is the console's local persistence.
type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
}

func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to migrate state store: %w", err)
	}
	return nil
}

// InitStateStore opens the state database at path, applies migrations and
// returns the repositories over it. The special path ":memory:" keeps
// everything in memory.
func InitStateStore(ctx context.Context, path string) (*Repositories, error) {
	if path != ":memory:" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("error preparing state directory: %w", err)
		}
	}

	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}
