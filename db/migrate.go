package db

import (
	"context"
	"embed"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/uptrace/bun/migrate"
)

//go:embed migrations/*.sql
var sqlMigrations embed.FS

// Migrate applies pending schema migrations and returns a description of the applied group.
func (d *DB) Migrate(ctx context.Context) (string, error) {
	migrations := migrate.NewMigrations()
	files, err := fs.Sub(sqlMigrations, "migrations")
	if err != nil {
		return "", err
	}
	if err := migrations.Discover(files); err != nil {
		return "", errors.Wrap(err, "unable to discover migrations")
	}
	migrator := migrate.NewMigrator(d.db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return "", errors.Wrap(err, "unable to create migration tables")
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return "", errors.Wrap(err, "unable to apply migrations")
	}
	if group.IsZero() {
		return "", nil
	}
	return group.String(), nil
}
