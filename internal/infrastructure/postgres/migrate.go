package postgres

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	"github.com/taskhive/backend/internal/config"
)

// RunMigrations brings the schema up to date on startup. Disabled via
// configuration in environments where migrations run out of band.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", dsn(cfg.Database))
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}

	sourceURL := "file://" + filepath.ToSlash(cfg.Migrations.Path)
	m, err := migrate.NewWithDatabaseInstance(sourceURL, cfg.Database.Name, driver)
	if err != nil {
		return fmt.Errorf("load migrations from %s: %w", cfg.Migrations.Path, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			logger.Info("database schema already current")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("database migrations applied", zap.String("path", cfg.Migrations.Path))
	return nil
}
