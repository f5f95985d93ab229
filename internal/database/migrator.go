package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/vortrixs/user-api/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// schemaVersionTable is where tern records the applied version.
const schemaVersionTable = "schema_version"

// Migrate applies the embedded migrations up to targetVersion.
// A negative targetVersion means "latest".
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, targetVersion int32) error {
	// A single connection is enough for a one-shot migration run.
	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, schemaVersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	latest := int32(len(m.Migrations))
	if targetVersion < 0 || targetVersion > latest {
		targetVersion = latest
	}

	if err := m.MigrateTo(ctx, targetVersion); err != nil {
		return fmt.Errorf("migrating database schema: %w", err)
	}

	if from == targetVersion {
		logger.Info().Msgf("database schema up to date, version %d", targetVersion)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, targetVersion)
	}
	return nil
}

// MigrationCount reports how many migrations are embedded in the binary.
func MigrationCount() (int, error) {
	entries, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
