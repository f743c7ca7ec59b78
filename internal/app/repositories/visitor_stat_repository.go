package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/db"
	"github.com/yigit/qpaper/internal/pkg/logger"
)

const visitorStatsTable = "visitor_stats"

// VisitorStatRepository appends and aggregates public listing views
type VisitorStatRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewVisitorStatRepository creates a new VisitorStatRepository
func NewVisitorStatRepository(database *db.Database) *VisitorStatRepository {
	return &VisitorStatRepository{
		db: database,
		sb: database.Builder,
	}
}

// Record appends one view.
// Times are stored in UTC so range comparisons agree on every driver.
func (r *VisitorStatRepository) Record(ctx context.Context, stat *models.VisitorStat) error {
	query, args, err := r.sb.Insert(visitorStatsTable).
		Columns("visited_at", "visitor_id").
		Values(stat.VisitedAt.UTC(), stat.VisitorID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build record visit query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error().Err(err).Str("visitorID", stat.VisitorID).Msg("Error recording visit")
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// CountTotal returns the number of recorded views
func (r *VisitorStatRepository) CountTotal(ctx context.Context) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From(visitorStatsTable), "total")
}

// CountDistinct returns the number of distinct visitor identifiers
func (r *VisitorStatRepository) CountDistinct(ctx context.Context) (int64, error) {
	return r.count(ctx, r.sb.Select("COUNT(DISTINCT visitor_id)").From(visitorStatsTable), "distinct")
}

// CountBetween returns the number of views with start <= visited_at < end
func (r *VisitorStatRepository) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	query := r.sb.Select("COUNT(*)").
		From(visitorStatsTable).
		Where(squirrel.GtOrEq{"visited_at": start.UTC()}).
		Where(squirrel.Lt{"visited_at": end.UTC()})
	return r.count(ctx, query, "range")
}

func (r *VisitorStatRepository) count(ctx context.Context, builder squirrel.SelectBuilder, kind string) (int64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s visit count query: %w", kind, err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("count", kind).Msg("Error counting visits")
		return 0, fmt.Errorf("failed to count %s visits: %w", kind, err)
	}
	return count, nil
}
