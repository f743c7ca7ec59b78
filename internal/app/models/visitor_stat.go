package models

import "time"

// VisitorStat is one anonymous view of the public listing
type VisitorStat struct {
	ID        int64     `json:"id" db:"id"`
	VisitedAt time.Time `json:"visited_at" db:"visited_at"`
	VisitorID string    `json:"visitor_id" db:"visitor_id"`
}

// DailyVisits is the number of views on one calendar day
type DailyVisits struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// VisitorSummary aggregates the visitor log for the admin dashboard
type VisitorSummary struct {
	TotalVisits    int64         `json:"total_visits"`
	UniqueVisitors int64         `json:"unique_visitors"`
	LastSevenDays  []DailyVisits `json:"last_seven_days"`
}
