package services

import (
	"context"
	"fmt"

	"github.com/yigit/qpaper/internal/app/repositories"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/pkg/logger"
)

// HealthService reports database connectivity
type HealthService struct {
	repo         *repositories.HealthRepository
	databaseName string
}

// NewHealthService creates a new HealthService; databaseName is shown in the status message
func NewHealthService(repo *repositories.HealthRepository, databaseName string) *HealthService {
	return &HealthService{repo: repo, databaseName: databaseName}
}

// Check pings the database and counts the application tables.
// The returned message is meant for clients in both the success and the failure case.
func (s *HealthService) Check(ctx context.Context) (string, error) {
	engine := engineName(s.repo.Driver())

	if err := s.repo.Ping(ctx); err != nil {
		logger.Error().Err(err).Str("driver", s.repo.Driver()).Msg("Database ping failed")
		return fmt.Sprintf("Failed to connect to %s: Check logs for details.", engine), fmt.Errorf("ping failed: %w", err)
	}

	count, err := s.repo.CountAppTables(ctx)
	if err != nil {
		return fmt.Sprintf("Failed to query %s: Check logs for details.", engine), fmt.Errorf("count tables failed: %w", err)
	}

	return fmt.Sprintf("Connected to %s. Found %d tables in '%s' database.", engine, count, s.databaseName), nil
}

func engineName(driver string) string {
	if driver == config.DriverPostgres {
		return "PostgreSQL"
	}
	return "SQLite"
}
