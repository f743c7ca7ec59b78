package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/app/repositories"
	"github.com/yigit/qpaper/internal/pkg/helpers"
)

// VisitorCookieName is the cookie holding the anonymous visitor identifier
const VisitorCookieName = "visitor_id"

// VisitorCookieMaxAge is how long an issued visitor identifier is kept by the browser
const VisitorCookieMaxAge = 30 * 24 * time.Hour

const dashboardDays = 7

// VisitorService records public listing views and summarizes them
type VisitorService struct {
	repo *repositories.VisitorStatRepository
	now  func() time.Time
}

// NewVisitorService creates a new VisitorService using the wall clock
func NewVisitorService(repo *repositories.VisitorStatRepository) *VisitorService {
	return NewVisitorServiceWithClock(repo, time.Now)
}

// NewVisitorServiceWithClock creates a VisitorService with an explicit clock
func NewVisitorServiceWithClock(repo *repositories.VisitorStatRepository, now func() time.Time) *VisitorService {
	return &VisitorService{repo: repo, now: now}
}

// RecordVisit appends a view for the identifier from the cookie, minting one when the cookie
// is absent or does not hold a UUID. It reports the identifier used and whether it was newly minted.
func (s *VisitorService) RecordVisit(ctx context.Context, cookieValue string) (string, bool, error) {
	visitorID, minted := "", false
	if id, err := uuid.Parse(strings.TrimSpace(cookieValue)); err == nil {
		visitorID = id.String()
	} else {
		// Tampered or foreign cookie values are replaced rather than stored
		visitorID = uuid.NewString()
		minted = true
	}

	if err := s.repo.Record(ctx, &models.VisitorStat{VisitorID: visitorID, VisitedAt: s.now()}); err != nil {
		return visitorID, minted, fmt.Errorf("error recording visit: %w", err)
	}
	return visitorID, minted, nil
}

// Summary returns total views, distinct visitors and the views of each of the last seven local days, oldest first
func (s *VisitorService) Summary(ctx context.Context) (*models.VisitorSummary, error) {
	total, err := s.repo.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting visits: %w", err)
	}

	unique, err := s.repo.CountDistinct(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting visitors: %w", err)
	}

	days := helpers.LastNDays(s.now(), dashboardDays)
	daily := make([]models.DailyVisits, 0, len(days))
	for _, day := range days {
		count, err := s.repo.CountBetween(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("error counting visits for %s: %w", day.Format("2006-01-02"), err)
		}
		daily = append(daily, models.DailyVisits{Date: day, Count: count})
	}

	return &models.VisitorSummary{
		TotalVisits:    total,
		UniqueVisitors: unique,
		LastSevenDays:  daily,
	}, nil
}
