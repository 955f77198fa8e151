package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"loan-broker/internal/common/logger"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator applies the embedded schema migrations with goose.
type Migrator struct {
	db      *sql.DB
	logger  logger.Logger
	timeout time.Duration
}

func NewMigrator(db *sql.DB, log logger.Logger) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("nil database provided")
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("configure goose: %w", err)
	}

	return &Migrator{db: db, logger: log, timeout: time.Minute}, nil
}

// Up applies pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.logger.Info("Applying migrations", nil)
	if err := goose.UpContext(runCtx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(runCtx, m.db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	m.logger.Info("Migrations applied", map[string]interface{}{"version": version})
	return nil
}

// Status prints applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// Down rolls back the latest migration, or every migration above targetVersion when it is positive.
func (m *Migrator) Down(ctx context.Context, targetVersion int64) error {
	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if targetVersion > 0 {
		m.logger.Info("Rolling back migrations", map[string]interface{}{"target": targetVersion})
		if err := goose.DownToContext(runCtx, m.db, migrationsDir, targetVersion); err != nil {
			return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
		}
		return nil
	}

	m.logger.Info("Rolling back latest migration", nil)
	if err := goose.DownContext(runCtx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("rollback latest migration: %w", err)
	}
	return nil
}
