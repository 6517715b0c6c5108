package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"socialhub/pkg/logger"
)

const (
	errCtxMigrationInstance = "failed to create migration instance"
	errCtxApplyMigrations   = "failed to apply migrations"

	msgMigrationsApplied = "database migrations applied"
	msgNoMigrations      = "database schema is up to date"
)

// MigrateDSN применяет миграции из sourceURL (например file://migrations/socialhub).
// Отсутствие новых миграций ошибкой не считается.
func MigrateDSN(ctx context.Context, dsn, sourceURL string) error {
	log := logger.Log(ctx).With(zap.String("source", sourceURL))

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		log.Error(ctx, errCtxMigrationInstance, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxMigrationInstance, err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn(ctx, "failed to close migrator", zap.NamedError("source_error", srcErr), zap.NamedError("db_error", dbErr))
		}
	}()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info(ctx, msgNoMigrations)
		return nil
	case err != nil:
		log.Error(ctx, errCtxApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxApplyMigrations, err)
	}

	version, dirty, verErr := m.Version()
	if verErr != nil {
		log.Info(ctx, msgMigrationsApplied)
		return nil
	}
	log.Info(ctx, msgMigrationsApplied, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
