package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// Dialect identifies the SQL flavour behind a Database.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DBTX is the unit of work handed to repositories. Both *sql.DB and *sql.Tx
// satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Database wraps the connection pool together with its dialect.
type Database struct {
	DB      *sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
}

// NewDatabase opens the database selected by cfg.Database.Driver.
func NewDatabase(cfg *config.Config) (*Database, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return NewSQLiteDB(cfg.GetSQLiteDSN())
	case config.DriverPostgres:
		return NewPostgresDB(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// NewPostgresDB creates a pgx connection pool and exposes it through
// database/sql.
func NewPostgresDB(cfg *config.Config) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetimeDuration(time.Hour)

	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &Database{
		DB:      stdlib.OpenDBFromPool(pool),
		Dialect: DialectPostgres,
		pool:    pool,
	}, nil
}

// NewSQLiteDB opens a sqlite database. In-memory databases are pinned to a
// single connection, since every connection would otherwise get its own
// empty database.
func NewSQLiteDB(dsn string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqlDB.SetMaxOpenConns(1)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
	}

	return &Database{DB: sqlDB, Dialect: DialectSQLite}, nil
}

// Builder returns a squirrel statement builder using the dialect's placeholders.
func (d *Database) Builder() squirrel.StatementBuilderType {
	return NewBuilder(d.Dialect)
}

// NewBuilder returns a squirrel statement builder for dialect.
func NewBuilder(dialect Dialect) squirrel.StatementBuilderType {
	if dialect == DialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// Ping verifies the database is reachable with a trivial query.
func (d *Database) Ping(ctx context.Context) error {
	var one int
	if err := d.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the sql handle and the underlying pool, if any.
func (d *Database) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sql.Tx) error

// WithTransaction runs fn within a transaction. The transaction is committed
// when fn returns nil and rolled back on error or panic.
func (d *Database) WithTransaction(ctx context.Context, fn TransactionFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.FromContext(ctx).Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("%w (rollback error: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
