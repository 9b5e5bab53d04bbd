// api/monitor/filter.go
package monitor

import (
	"time"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/scraper"
)

// FilterWindow normalizes raw events into purchase candidates. An event
// is kept only when its relative-time label parses as minutes and the
// value is at most maxMinutes (the boundary is inclusive). The purchase
// timestamp is now minus the parsed minutes, with sub-minute precision
// discarded. CreatedAt is left zero; the store writer stamps it on insert.
func FilterWindow(events []models.RawEvent, now time.Time, maxMinutes int) []models.PurchaseRecord {
	var out []models.PurchaseRecord
	for _, ev := range events {
		minutes, ok := scraper.ParseMinutesAgo(ev.TimeCta)
		if !ok || minutes > maxMinutes {
			continue
		}
		ts := now.Add(-time.Duration(minutes) * time.Minute)
		out = append(out, models.PurchaseRecord{
			ProductName:      ev.ProductName,
			ProductID:        ev.ProductShortID,
			CustomerLocation: ev.Title,
			PurchaseDate:     ts.Format("2006-01-02"),
			PurchaseTime:     ts.Format("15:04"),
		})
	}
	return out
}
