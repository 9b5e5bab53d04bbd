// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/database"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/handlers"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/middleware"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/monitor"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/scraper"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize MongoDB (purchase history) ---
	mongoClient, err := database.NewMongoDB()
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB database: %v", err)
	}
	defer mongoClient.Close()

	// --- Initialize PostgreSQL Database (for users) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (cycle telemetry) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	purchaseStore := store.NewPurchaseStore(mongoClient)
	cycleStore := store.NewCycleStore(chClient)

	// --- Initialize Monitoring Pipeline ---
	productURL := os.Getenv("PRODUCT_URL")
	windowMinutes := envInt("INTERVAL_MINUTES", 60)
	service := monitor.NewService(scraper.NewScraper(), purchaseStore, cycleStore, productURL, windowMinutes)

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	monitorHandlers := handlers.NewMonitorHandlers(service, purchaseStore, cycleStore, mongoClient)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/", monitorHandlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Authentication Endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)
		// Protected Routes (require a valid JWT token or the API key)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/trigger", monitorHandlers.Trigger)
			protected.GET("/purchases", monitorHandlers.ListPurchases)
			protected.GET("/export", monitorHandlers.ExportCSV)
			protected.GET("/stats", monitorHandlers.GetStats)

			cycleGroup := protected.Group("/stats")
			{
				cycleGroup.GET("/cycle-counts", monitorHandlers.GetCycleCountsOverTime)
				cycleGroup.GET("/average-cycle-duration", monitorHandlers.GetAverageCycleDuration)
			}
		}
	}

	// --- Optional interval scheduler ---
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if every := envInt("MONITOR_INTERVAL_MINUTES", 0); every > 0 {
		sched := monitor.NewScheduler(service, time.Duration(every)*time.Minute)
		go sched.Run(schedulerCtx)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s value %q, using %d", name, v, fallback)
		return fallback
	}
	return n
}
