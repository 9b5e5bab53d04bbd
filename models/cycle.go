// api/models/cycle.go
package models

import "time"

// CycleRecord is one monitoring cycle written to ClickHouse for
// after-the-fact analysis of how the scraper is behaving.
type CycleRecord struct {
	CycleID       string    `json:"cycleId"`
	TriggeredBy   string    `json:"triggeredBy"` // "api" or "scheduler"
	StartedAt     time.Time `json:"startedAt"`
	DurationMs    int64     `json:"durationMs"`
	RecordsFound  int       `json:"recordsFound"`
	RecordsStored int       `json:"recordsStored"`
	Status        string    `json:"status"` // "ok" or "error"
	Error         string    `json:"error,omitempty"`
}

// TriggerResponse is returned by POST /api/trigger. A cycle that ran but
// found nothing still reports success with zero counts.
type TriggerResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RecordsFound  int    `json:"records_found"`
	RecordsStored int    `json:"records_stored"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// DateRange bounds the stored history; both ends are null when the store
// is empty.
type DateRange struct {
	Oldest *string `json:"oldest"`
	Newest *string `json:"newest"`
}

type StatsResponse struct {
	TotalPurchases int64     `json:"total_purchases"`
	UniqueProducts int       `json:"unique_products"`
	DateRange      DateRange `json:"date_range"`
}
