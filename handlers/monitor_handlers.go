// api/handlers/monitor_handlers.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/export"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/monitor"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/store"
)

// PurchaseReader is the read-only view of the purchase store the
// reporting endpoints need.
type PurchaseReader interface {
	All(ctx context.Context) ([]models.PurchaseRecord, error)
	Count(ctx context.Context) (int64, error)
	DistinctProducts(ctx context.Context) (int, error)
	DateRange(ctx context.Context) (*string, *string, error)
}

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type MonitorHandlers struct {
	Service   *monitor.Service
	Purchases PurchaseReader
	Cycles    *store.CycleStore
	DB        Pinger
}

func NewMonitorHandlers(service *monitor.Service, purchases PurchaseReader, cycles *store.CycleStore, db Pinger) *MonitorHandlers {
	return &MonitorHandlers{
		Service:   service,
		Purchases: purchases,
		Cycles:    cycles,
		DB:        db,
	}
}

func (h *MonitorHandlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	if err := h.DB.Ping(ctx); err != nil {
		log.Printf("Health check: database ping failed: %v", err)
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Database:  dbStatus,
		Timestamp: time.Now(),
	})
}

// Trigger runs one monitoring cycle synchronously and reports the counts.
func (h *MonitorHandlers) Trigger(c *gin.Context) {
	res, err := h.Service.RunCycle(c.Request.Context(), "api")
	if err != nil {
		if errors.Is(err, monitor.ErrProductURLNotSet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "PRODUCT_URL environment variable not set"})
			return
		}
		log.Printf("Error during monitoring cycle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error during monitoring", "details": err.Error()})
		return
	}

	message := "Monitoring completed successfully"
	if res.RecordsFound == 0 {
		message = "No purchases found"
	}

	c.JSON(http.StatusOK, models.TriggerResponse{
		Success:       true,
		Message:       message,
		RecordsFound:  res.RecordsFound,
		RecordsStored: res.RecordsStored,
	})
}

func (h *MonitorHandlers) ListPurchases(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	purchases, err := h.Purchases.All(ctx)
	if err != nil {
		log.Printf("Error listing purchases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve purchases"})
		return
	}
	if purchases == nil {
		purchases = []models.PurchaseRecord{}
	}

	c.JSON(http.StatusOK, purchases)
}

// ExportCSV streams the full history as a CSV attachment. An empty store
// yields the header row only.
func (h *MonitorHandlers) ExportCSV(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	purchases, err := h.Purchases.All(ctx)
	if err != nil {
		log.Printf("Error exporting purchases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=purchases.csv")
	c.Data(http.StatusOK, "text/csv", []byte(export.CSV(purchases)))
}

func (h *MonitorHandlers) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	total, err := h.Purchases.Count(ctx)
	if err != nil {
		log.Printf("Error counting purchases: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}

	uniqueProducts, err := h.Purchases.DistinctProducts(ctx)
	if err != nil {
		log.Printf("Error counting distinct products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}

	oldest, newest, err := h.Purchases.DateRange(ctx)
	if err != nil {
		log.Printf("Error querying purchase date range: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, models.StatsResponse{
		TotalPurchases: total,
		UniqueProducts: uniqueProducts,
		DateRange:      models.DateRange{Oldest: oldest, Newest: newest},
	})
}

func (h *MonitorHandlers) GetCycleCountsOverTime(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	statusFilter := c.Query("status") // "" means all cycles

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.Cycles.GetCycleCountsOverTime(ctx, interval, start, end, statusFilter)
	if err != nil {
		log.Printf("Error getting cycle counts over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cycle statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *MonitorHandlers) GetAverageCycleDuration(c *gin.Context) {
	statusFilter := c.Query("status")

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	avgDuration, err := h.Cycles.GetAverageCycleDuration(ctx, statusFilter, start, end)
	if err != nil {
		log.Printf("Error getting average cycle duration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve average cycle duration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            statusFilter,
		"startDate":         start.Format(time.RFC3339),
		"endDate":           end.Format(time.RFC3339),
		"averageDurationMs": avgDuration,
	})
}

// parseTimeRange reads the optional start/end query parameters,
// defaulting to the last 7 days. On a malformed timestamp it writes a 400
// response and returns ok=false.
func parseTimeRange(c *gin.Context) (start, end time.Time, ok bool) {
	var err error

	startParam := c.Query("start")
	if startParam != "" {
		start, err = time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	} else {
		start = time.Now().UTC().Add(-7 * 24 * time.Hour)
	}

	endParam := c.Query("end")
	if endParam != "" {
		end, err = time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	} else {
		end = time.Now().UTC()
	}

	return start, end, true
}
