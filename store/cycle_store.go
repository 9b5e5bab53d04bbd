// api/store/cycle_store.go
package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/database"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/utils"
)

// CycleStore persists monitoring-cycle telemetry in ClickHouse and serves
// the aggregate cycle statistics endpoints.
type CycleStore struct {
	DB *database.ClickHouseClient
}

type CycleCountByTime struct {
	Time   time.Time `json:"time"`
	Status *string   `json:"status,omitempty"`
	Count  uint64    `json:"count"`
}

func NewCycleStore(chClient *database.ClickHouseClient) *CycleStore {
	return &CycleStore{
		DB: chClient,
	}
}

func (s *CycleStore) RecordCycle(ctx context.Context, rec models.CycleRecord) error {
	// Column names and order must exactly match the monitoring_cycles
	// table schema.
	err := s.DB.Conn.Exec(ctx, `
		INSERT INTO monitoring_cycles (
			cycle_id, triggered_by, started_at, duration_ms, records_found, records_stored, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.CycleID,
		rec.TriggeredBy,
		rec.StartedAt,
		rec.DurationMs,
		rec.RecordsFound,
		rec.RecordsStored,
		rec.Status,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cycle record: %w", err)
	}
	return nil
}

func (s *CycleStore) GetCycleCountsOverTime(ctx context.Context, interval string, start, end time.Time, statusFilter string) ([]CycleCountByTime, error) {
	var args []interface{}
	args = append(args, start, end)

	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	// Dynamically build SELECT, GROUP BY, and WHERE clauses
	selectCols := fmt.Sprintf("toStartOf%s(started_at) as time_bucket, count() as total_cycles", interval)
	groupByCols := "time_bucket"
	whereClause := "WHERE started_at >= ? AND started_at <= ?"
	orderByCols := "time_bucket ASC"
	isFilteringByStatus := statusFilter != ""

	if isFilteringByStatus {
		selectCols += ", status"
		groupByCols += ", status"
		whereClause += " AND status = ?"
		args = append(args, statusFilter)
		orderByCols += ", status ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM monitoring_cycles
		%s
		GROUP BY %s
		ORDER BY %s
	`, selectCols, whereClause, groupByCols, orderByCols)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycle counts over time: %w", err)
	}
	defer rows.Close()

	var results []CycleCountByTime
	for rows.Next() {
		var (
			timeBucket time.Time
			count      uint64
			statusDB   string
			current    CycleCountByTime
		)

		if isFilteringByStatus {
			if err := rows.Scan(&timeBucket, &count, &statusDB); err != nil {
				return nil, fmt.Errorf("failed to scan cycle count row (with status filter): %w", err)
			}
			current.Status = &statusDB
		} else {
			if err := rows.Scan(&timeBucket, &count); err != nil {
				return nil, fmt.Errorf("failed to scan cycle count row: %w", err)
			}
		}

		current.Time = timeBucket
		current.Count = count
		results = append(results, current)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during cycle counts query: %w", err)
	}

	return results, nil
}

func (s *CycleStore) GetAverageCycleDuration(ctx context.Context, statusFilter string, start, end time.Time) (float64, error) {
	query := `SELECT avg(duration_ms) FROM monitoring_cycles WHERE started_at >= ? AND started_at <= ?`
	args := []interface{}{start, end}

	if statusFilter != "" {
		query += ` AND status = ?`
		args = append(args, statusFilter)
	}

	var avgDuration float64
	err := s.DB.Conn.QueryRow(ctx, query, args...).Scan(&avgDuration)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return 0.0, nil
		}
		return 0.0, fmt.Errorf("failed to query average cycle duration: %w", err)
	}

	// ClickHouse avg() yields NaN over zero rows, which JSON marshalling
	// rejects; report 0.0 instead.
	if math.IsNaN(avgDuration) {
		return 0.0, nil
	}

	return avgDuration, nil
}
