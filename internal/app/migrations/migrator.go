package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/logger"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var files embed.FS

// Migrator manages database migrations
type Migrator struct {
	db *db.Database
	fs fs.FS
}

// NewMigrator creates a migrator that applies the embedded scripts for the
// database's dialect.
func NewMigrator(database *db.Database) *Migrator {
	sub, err := fs.Sub(files, path.Join("sql", string(database.Dialect)))
	if err != nil {
		// the embed pattern guarantees both directories exist
		panic(err)
	}
	return &Migrator{db: database, fs: sub}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := m.db.DB.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	query, args, err := m.db.Builder().
		Select("COUNT(*)").
		From("schema_migrations").
		Where("version = ?", version).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := m.db.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

// recordMigration marks a migration as applied inside tx
func (m *Migrator) recordMigration(ctx context.Context, tx *sql.Tx, version string) error {
	query, args, err := m.db.Builder().
		Insert("schema_migrations").
		Columns("version", "applied_at").
		Values(version, time.Now().UTC()).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// Migrate applies every pending script in version order.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	names, err := fs.Glob(m.fs, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := m.migrateFile(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// migrateFile applies one script. The version is the filename prefix
// ("001_init.sql" => "001").
func (m *Migrator) migrateFile(ctx context.Context, name string) error {
	log := logger.FromContext(ctx)
	version := strings.Split(name, "_")[0]

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		log.Debug().Str("migration", name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(m.fs, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = m.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range splitStatements(string(content)) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("error occurred during SQL migration %s: %w", name, err)
			}
		}
		return m.recordMigration(ctx, tx, version)
	})
	if err != nil {
		return err
	}

	log.Info().Str("migration", name).Msg("Migration applied")
	return nil
}

// splitStatements breaks a script into statements. Scripts must not contain
// semicolons inside literals.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
