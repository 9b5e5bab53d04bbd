// api/monitor/service.go
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/metrics"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

// ErrProductURLNotSet is returned when a cycle is triggered without a
// configured product page to monitor.
var ErrProductURLNotSet = errors.New("PRODUCT_URL is not configured")

// Extractor is the render-and-intercept capability the pipeline needs.
type Extractor interface {
	FetchPurchases(ctx context.Context, url string) ([]models.RawEvent, error)
}

// PurchaseWriter is the idempotent write path into the durable store.
type PurchaseWriter interface {
	InsertIfAbsent(ctx context.Context, rec models.PurchaseRecord) (bool, error)
}

// CycleRecorder persists per-cycle telemetry. May be nil; telemetry is
// best-effort and never fails a cycle.
type CycleRecorder interface {
	RecordCycle(ctx context.Context, rec models.CycleRecord) error
}

// CycleResult summarizes one monitoring cycle. RecordsFound counts raw
// events returned by the extractor; RecordsStored counts new inserts
// after window filtering and dedup.
type CycleResult struct {
	RecordsFound  int
	RecordsStored int
}

// Service runs monitoring cycles: one browser session, one extraction,
// one filter/store pass. A mutex serializes cycles so the manual trigger
// and the scheduler never overlap, which keeps the dedup
// check-then-insert effectively race-free.
type Service struct {
	extractor     Extractor
	purchases     PurchaseWriter
	cycles        CycleRecorder
	productURL    string
	windowMinutes int

	mu sync.Mutex
}

func NewService(extractor Extractor, purchases PurchaseWriter, cycles CycleRecorder, productURL string, windowMinutes int) *Service {
	if windowMinutes <= 0 {
		windowMinutes = 60
	}
	return &Service{
		extractor:     extractor,
		purchases:     purchases,
		cycles:        cycles,
		productURL:    productURL,
		windowMinutes: windowMinutes,
	}
}

// RunCycle executes one extract -> filter -> store pass. A cycle that
// finds nothing is a success with zero counts; only a store failure (or
// cancellation) is returned as an error.
func (s *Service) RunCycle(ctx context.Context, triggeredBy string) (CycleResult, error) {
	if s.productURL == "" {
		return CycleResult{}, ErrProductURLNotSet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	res, err := s.runLocked(ctx)
	s.report(triggeredBy, started, res, err)
	return res, err
}

func (s *Service) runLocked(ctx context.Context) (CycleResult, error) {
	var res CycleResult

	events, err := s.extractor.FetchPurchases(ctx, s.productURL)
	if err != nil {
		return res, fmt.Errorf("extraction aborted: %w", err)
	}
	res.RecordsFound = len(events)
	if len(events) == 0 {
		return res, nil
	}

	for _, rec := range FilterWindow(events, time.Now(), s.windowMinutes) {
		inserted, err := s.purchases.InsertIfAbsent(ctx, rec)
		if err != nil {
			return res, fmt.Errorf("failed to store purchase: %w", err)
		}
		if inserted {
			res.RecordsStored++
		}
	}
	return res, nil
}

// report writes cycle telemetry to ClickHouse and bumps the prometheus
// counters. Telemetry uses a fresh context: the cycle's own context may
// already be cancelled by the time we get here.
func (s *Service) report(triggeredBy string, started time.Time, res CycleResult, runErr error) {
	duration := time.Since(started)
	status := "ok"
	errMsg := ""
	if runErr != nil {
		status = "error"
		errMsg = runErr.Error()
	}

	metrics.ObserveCycle(triggeredBy, status, res.RecordsFound, res.RecordsStored, duration)

	if s.cycles == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.cycles.RecordCycle(ctx, models.CycleRecord{
		CycleID:       uuid.New().String(),
		TriggeredBy:   triggeredBy,
		StartedAt:     started,
		DurationMs:    duration.Milliseconds(),
		RecordsFound:  res.RecordsFound,
		RecordsStored: res.RecordsStored,
		Status:        status,
		Error:         errMsg,
	})
	if err != nil {
		log.Printf("monitor: failed to record cycle telemetry: %v", err)
	}
}
