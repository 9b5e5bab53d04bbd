// api/export/csv.go
package export

import (
	"strings"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

const csvHeader = "Product Name,Product ID,Customer,Date,Time"

// CSV renders the purchase history in the export format downstream
// consumers ingest: fixed five-column order, every field quoted whether
// it needs it or not. encoding/csv quotes only on demand, which would
// change the emitted bytes, so the lines are built by hand.
func CSV(purchases []models.PurchaseRecord) string {
	if len(purchases) == 0 {
		return csvHeader + "\n"
	}

	lines := make([]string, 0, len(purchases)+1)
	lines = append(lines, csvHeader)
	for _, p := range purchases {
		lines = append(lines, strings.Join([]string{
			quote(p.ProductName),
			quote(p.ProductID),
			quote(p.CustomerLocation),
			quote(p.PurchaseDate),
			quote(p.PurchaseTime),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// quote wraps s in double quotes, doubling any embedded quotes per CSV
// convention.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
