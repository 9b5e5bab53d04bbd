package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

type fakeExtractor struct {
	events []models.RawEvent
	err    error
	calls  int
}

func (f *fakeExtractor) FetchPurchases(_ context.Context, _ string) ([]models.RawEvent, error) {
	f.calls++
	return f.events, f.err
}

// fakeStore mimics the dedup write path with an in-memory map keyed by
// the natural key.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]models.PurchaseRecord
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]models.PurchaseRecord)}
}

func (f *fakeStore) InsertIfAbsent(_ context.Context, rec models.PurchaseRecord) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s|%s", rec.ProductID, rec.CustomerLocation, rec.PurchaseDate, rec.PurchaseTime)
	if _, exists := f.records[key]; exists {
		return false, nil
	}
	f.records[key] = rec
	return true, nil
}

type fakeRecorder struct {
	cycles []models.CycleRecord
}

func (f *fakeRecorder) RecordCycle(_ context.Context, rec models.CycleRecord) error {
	f.cycles = append(f.cycles, rec)
	return nil
}

func TestRunCycleStoresWithinWindow(t *testing.T) {
	extractor := &fakeExtractor{events: []models.RawEvent{
		{ProductName: "Kurta", ProductShortID: "P1", Title: "Someone from Pune", TimeCta: "5 minutes ago"},
		{ProductName: "Saree", ProductShortID: "P2", Title: "Someone from Delhi", TimeCta: "2 hours ago"},
	}}
	st := newFakeStore()
	rec := &fakeRecorder{}
	svc := NewService(extractor, st, rec, "https://shop.example/product", 60)

	res, err := svc.RunCycle(context.Background(), "api")
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if res.RecordsFound != 2 {
		t.Errorf("RecordsFound = %d, want 2", res.RecordsFound)
	}
	if res.RecordsStored != 1 {
		t.Errorf("RecordsStored = %d, want 1 (hour-based label must be dropped)", res.RecordsStored)
	}

	if len(rec.cycles) != 1 {
		t.Fatalf("recorded %d cycle records, want 1", len(rec.cycles))
	}
	cycle := rec.cycles[0]
	if cycle.Status != "ok" || cycle.RecordsFound != 2 || cycle.RecordsStored != 1 {
		t.Errorf("cycle telemetry = %+v", cycle)
	}
	if cycle.TriggeredBy != "api" {
		t.Errorf("cycle.TriggeredBy = %q, want %q", cycle.TriggeredBy, "api")
	}
	if cycle.CycleID == "" {
		t.Error("cycle.CycleID is empty")
	}
}

func TestRunCycleIdempotent(t *testing.T) {
	extractor := &fakeExtractor{events: []models.RawEvent{
		{ProductShortID: "P1", Title: "Someone from Pune", TimeCta: "5 minutes ago"},
		{ProductShortID: "P2", Title: "Someone from Delhi", TimeCta: "10 minutes ago"},
	}}
	st := newFakeStore()
	svc := NewService(extractor, st, nil, "https://shop.example/product", 60)

	first, err := svc.RunCycle(context.Background(), "api")
	if err != nil {
		t.Fatalf("first RunCycle() error = %v", err)
	}
	if first.RecordsStored != 2 {
		t.Fatalf("first cycle stored %d, want 2", first.RecordsStored)
	}

	// Same batch inside the same minute maps to the same natural keys.
	second, err := svc.RunCycle(context.Background(), "api")
	if err != nil {
		t.Fatalf("second RunCycle() error = %v", err)
	}
	if second.RecordsFound != 2 {
		t.Errorf("second cycle found %d, want 2", second.RecordsFound)
	}
	if second.RecordsStored != 0 {
		t.Errorf("second cycle stored %d, want 0", second.RecordsStored)
	}
	if len(st.records) != 2 {
		t.Errorf("store holds %d records, want 2", len(st.records))
	}
}

func TestRunCycleEmptyExtraction(t *testing.T) {
	extractor := &fakeExtractor{}
	st := newFakeStore()
	rec := &fakeRecorder{}
	svc := NewService(extractor, st, rec, "https://shop.example/product", 60)

	res, err := svc.RunCycle(context.Background(), "scheduler")
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if res.RecordsFound != 0 || res.RecordsStored != 0 {
		t.Errorf("result = %+v, want zero counts", res)
	}
	if len(st.records) != 0 {
		t.Errorf("store holds %d records, want 0", len(st.records))
	}
	if len(rec.cycles) != 1 || rec.cycles[0].Status != "ok" {
		t.Errorf("empty cycle must still be recorded as ok, got %+v", rec.cycles)
	}
}

func TestRunCycleStoreFailure(t *testing.T) {
	extractor := &fakeExtractor{events: []models.RawEvent{
		{ProductShortID: "P1", TimeCta: "5 minutes ago"},
	}}
	st := newFakeStore()
	st.err = errors.New("connection reset")
	rec := &fakeRecorder{}
	svc := NewService(extractor, st, rec, "https://shop.example/product", 60)

	_, err := svc.RunCycle(context.Background(), "api")
	if err == nil {
		t.Fatal("RunCycle() error = nil, want store failure")
	}
	if len(rec.cycles) != 1 || rec.cycles[0].Status != "error" {
		t.Errorf("failed cycle telemetry = %+v, want status error", rec.cycles)
	}
}

func TestRunCycleNoProductURL(t *testing.T) {
	svc := NewService(&fakeExtractor{}, newFakeStore(), nil, "", 60)

	_, err := svc.RunCycle(context.Background(), "api")
	if !errors.Is(err, ErrProductURLNotSet) {
		t.Errorf("RunCycle() error = %v, want ErrProductURLNotSet", err)
	}
}
