package scraper

import (
	"encoding/json"
	"testing"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

const samplePayload = `{
	"code": 200,
	"data": {
		"widgets": [
			{"title": "BANNER", "entities": []},
			{
				"title": "RECENT PURCHASE",
				"entities": [
					{"product_name": "Cotton Kurta", "product_short_id": "P123", "title": "Someone from Pune", "time_cta": "12 minutes ago"},
					{"product_name": "Silk Saree", "product_short_id": "P456", "title": "Someone from Delhi", "time_cta": "2 hours ago"}
				]
			}
		]
	}
}`

func TestRecentPurchases(t *testing.T) {
	var payload models.PagePayload
	if err := json.Unmarshal([]byte(samplePayload), &payload); err != nil {
		t.Fatalf("unmarshal sample payload: %v", err)
	}
	if payload.Code != 200 {
		t.Fatalf("payload code = %d, want 200", payload.Code)
	}

	events := recentPurchases(payload)
	if len(events) != 2 {
		t.Fatalf("recentPurchases() returned %d events, want 2", len(events))
	}
	if events[0].ProductShortID != "P123" {
		t.Errorf("events[0].ProductShortID = %q, want %q", events[0].ProductShortID, "P123")
	}
	if events[0].Title != "Someone from Pune" {
		t.Errorf("events[0].Title = %q, want %q", events[0].Title, "Someone from Pune")
	}
	if events[1].TimeCta != "2 hours ago" {
		t.Errorf("events[1].TimeCta = %q, want %q", events[1].TimeCta, "2 hours ago")
	}
}

func TestRecentPurchasesNoWidget(t *testing.T) {
	var payload models.PagePayload
	payload.Code = 200
	payload.Data.Widgets = []models.PageWidget{
		{Title: "BANNER"},
		{Title: "recent purchase"}, // title match is exact, not case-folded
	}

	if events := recentPurchases(payload); events != nil {
		t.Errorf("recentPurchases() = %v, want nil", events)
	}
}

func TestPayloadCaptureKeepsLast(t *testing.T) {
	capture := newPayloadCapture()

	if _, ok := capture.get(); ok {
		t.Fatal("get() on fresh capture reported a payload")
	}

	first := models.PagePayload{Code: 200}
	first.Data.Widgets = []models.PageWidget{{Title: "RECENT PURCHASE", Entities: []models.RawEvent{{ProductShortID: "old"}}}}
	second := models.PagePayload{Code: 200}
	second.Data.Widgets = []models.PageWidget{{Title: "RECENT PURCHASE", Entities: []models.RawEvent{{ProductShortID: "new"}}}}

	capture.set(first)
	capture.set(second)

	payload, ok := capture.get()
	if !ok {
		t.Fatal("get() reported no payload after set")
	}
	events := recentPurchases(payload)
	if len(events) != 1 || events[0].ProductShortID != "new" {
		t.Errorf("capture kept %+v, want the last accepted payload", events)
	}
}
