package monitor

import (
	"testing"
	"time"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

func TestFilterWindowNormalizes(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)
	events := []models.RawEvent{
		{ProductName: "Cotton Kurta", ProductShortID: "P123", Title: "Someone from Pune", TimeCta: "12 minutes ago"},
	}

	got := FilterWindow(events, now, 60)
	if len(got) != 1 {
		t.Fatalf("FilterWindow() returned %d records, want 1", len(got))
	}
	rec := got[0]
	if rec.PurchaseDate != "2024-01-01" {
		t.Errorf("PurchaseDate = %q, want %q", rec.PurchaseDate, "2024-01-01")
	}
	if rec.PurchaseTime != "09:48" {
		t.Errorf("PurchaseTime = %q, want %q", rec.PurchaseTime, "09:48")
	}
	if rec.ProductID != "P123" {
		t.Errorf("ProductID = %q, want %q", rec.ProductID, "P123")
	}
	if rec.CustomerLocation != "Someone from Pune" {
		t.Errorf("CustomerLocation = %q, want %q", rec.CustomerLocation, "Someone from Pune")
	}
	if !rec.CreatedAt.IsZero() {
		t.Errorf("CreatedAt = %v, want zero (stamped by the store writer)", rec.CreatedAt)
	}
}

func TestFilterWindowBoundary(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := []models.RawEvent{
		{ProductShortID: "at-threshold", TimeCta: "60 minutes ago"},
		{ProductShortID: "over-threshold", TimeCta: "61 minutes ago"},
		{ProductShortID: "under-threshold", TimeCta: "59 minutes ago"},
	}

	got := FilterWindow(events, now, 60)
	if len(got) != 2 {
		t.Fatalf("FilterWindow() returned %d records, want 2", len(got))
	}
	if got[0].ProductID != "at-threshold" {
		t.Errorf("threshold-equal event excluded; boundary must be inclusive")
	}
	if got[1].ProductID != "under-threshold" {
		t.Errorf("got[1].ProductID = %q, want %q", got[1].ProductID, "under-threshold")
	}
}

func TestFilterWindowDropsNonMinuteLabels(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := []models.RawEvent{
		{ProductShortID: "hours", TimeCta: "2 hours ago"},
		{ProductShortID: "now", TimeCta: "just now"},
		{ProductShortID: "empty", TimeCta: ""},
	}

	if got := FilterWindow(events, now, 60); len(got) != 0 {
		t.Errorf("FilterWindow() returned %d records, want 0", len(got))
	}
}

func TestFilterWindowCrossesMidnight(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 10, 0, 0, time.UTC)
	events := []models.RawEvent{
		{ProductShortID: "P1", TimeCta: "30 minutes ago"},
	}

	got := FilterWindow(events, now, 60)
	if len(got) != 1 {
		t.Fatalf("FilterWindow() returned %d records, want 1", len(got))
	}
	if got[0].PurchaseDate != "2024-01-01" || got[0].PurchaseTime != "23:40" {
		t.Errorf("normalized to %s %s, want 2024-01-01 23:40", got[0].PurchaseDate, got[0].PurchaseTime)
	}
}
