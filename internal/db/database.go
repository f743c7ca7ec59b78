package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/pkg/logger"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Querier is satisfied by both *sql.DB and *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Database wraps the connection pool together with a query builder for its SQL dialect
type Database struct {
	*sql.DB
	Driver  string
	Builder sq.StatementBuilderType
}

// Open connects to the database selected by cfg.Database.Driver and verifies the connection
func Open(cfg *config.Config) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		sqlDB *sql.DB
		err   error
	)

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		sqlDB, err = sql.Open("sqlite", cfg.GetSQLiteDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// A single connection serializes writers instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)

	case config.DriverPostgres:
		connConfig, err := pgx.ParseConfig(cfg.GetPostgresConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to parse postgres config: %w", err)
		}
		sqlDB = stdlib.OpenDB(*connConfig)
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

		maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
		}
		sqlDB.SetConnMaxLifetime(maxLifetime)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return New(sqlDB, cfg.Database.Driver), nil
}

// New wraps an already opened *sql.DB
func New(sqlDB *sql.DB, driver string) *Database {
	return &Database{
		DB:      sqlDB,
		Driver:  driver,
		Builder: sq.StatementBuilder.PlaceholderFormat(PlaceholderFormat(driver)),
	}
}

// PlaceholderFormat returns the bind-parameter style of a driver
func PlaceholderFormat(driver string) sq.PlaceholderFormat {
	if driver == config.DriverPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// Close closes the connection pool
func (db *Database) Close() error {
	if db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sql.Tx) error

// WithTransaction runs a function within a transaction
func (db *Database) WithTransaction(ctx context.Context, fn TransactionFn) error {
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := db.BeginTx(ctx, nil)
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
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
