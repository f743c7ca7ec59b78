package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/db"
	"github.com/yigit/qpaper/internal/pkg/logger"
)

// AppTables are the tables created by the migrations
var AppTables = []string{questionPapersTable, usersTable, visitorStatsTable}

// HealthRepository answers connectivity checks
type HealthRepository struct {
	db *db.Database
}

// NewHealthRepository creates a new HealthRepository
func NewHealthRepository(database *db.Database) *HealthRepository {
	return &HealthRepository{db: database}
}

// Driver returns the configured database driver name
func (r *HealthRepository) Driver() string {
	return r.db.Driver
}

// Ping verifies the database connection
func (r *HealthRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CountAppTables returns how many of the application tables exist
func (r *HealthRepository) CountAppTables(ctx context.Context) (int, error) {
	var builder squirrel.SelectBuilder
	if r.db.Driver == config.DriverPostgres {
		builder = r.db.Builder.Select("COUNT(*)").
			From("information_schema.tables").
			Where("table_schema = current_schema()").
			Where(squirrel.Eq{"table_name": AppTables})
	} else {
		builder = r.db.Builder.Select("COUNT(*)").
			From("sqlite_master").
			Where(squirrel.Eq{"type": "table", "name": AppTables})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build table count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("driver", r.db.Driver).Msg("Error counting application tables")
		return 0, fmt.Errorf("failed to count tables: %w", err)
	}
	return count, nil
}
