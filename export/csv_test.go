package export

import (
	"strings"
	"testing"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

func TestCSVEmptyStore(t *testing.T) {
	got := CSV(nil)
	if got != "Product Name,Product ID,Customer,Date,Time\n" {
		t.Errorf("CSV(nil) = %q, want header row only", got)
	}
}

func TestCSVFormatsRows(t *testing.T) {
	purchases := []models.PurchaseRecord{
		{ProductName: "Silk Saree", ProductID: "P456", CustomerLocation: "Someone from Delhi", PurchaseDate: "2024-01-02", PurchaseTime: "11:30"},
		{ProductName: "Cotton Kurta", ProductID: "P123", CustomerLocation: "Someone from Pune", PurchaseDate: "2024-01-01", PurchaseTime: "09:48"},
	}

	got := CSV(purchases)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV produced %d lines, want 3", len(lines))
	}
	if lines[0] != "Product Name,Product ID,Customer,Date,Time" {
		t.Errorf("header = %q", lines[0])
	}
	// Row order follows the input (store sorts date desc, time desc).
	if lines[1] != `"Silk Saree","P456","Someone from Delhi","2024-01-02","11:30"` {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != `"Cotton Kurta","P123","Someone from Pune","2024-01-01","09:48"` {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestCSVQuotesEveryField(t *testing.T) {
	purchases := []models.PurchaseRecord{
		{ProductName: `Mug "Deluxe"`, ProductID: "", CustomerLocation: "Someone, somewhere", PurchaseDate: "2024-01-01", PurchaseTime: "10:00"},
	}

	got := CSV(purchases)
	want := `"Mug ""Deluxe""","","Someone, somewhere","2024-01-01","10:00"`
	lines := strings.Split(got, "\n")
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}
