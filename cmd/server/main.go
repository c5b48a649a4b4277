/*
main.go - HTTP server entry point

PURPOSE:
  Initializes and starts the UC Entitlement Engine API server. Handles
  configuration, rate loading, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load settings from the environment, then parse command-line flags
  2. Initialize SQLite store
  3. Load the rate book and LHA schedule (files or compiled-in defaults)
  4. Seed the LHA schedule into the database for audit
  5. Create API handler, configure router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: UC_PORT or 8080)
  -db      SQLite database path (default: UC_DATABASE_PATH or uc.db)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  All UC_* variables from config.Settings, notably:
  UC_RATES_FILE    YAML rate book; compiled-in 2026-27 rates when unset
  UC_LHA_FILE      YAML LHA schedule; compiled-in sample BRMAs when unset
  UC_SECRET_KEY    Enables the token endpoint and admin routes
  Flags override environment values.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/uc.db"

  # Run with operator-supplied rates
  UC_RATES_FILE=./rates/2026-27.yaml ./server

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - config/config.go: Settings and environment variables
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claimkit/uc-engine/api"
	"github.com/claimkit/uc-engine/config"
	"github.com/claimkit/uc-engine/engine"
	"github.com/claimkit/uc-engine/rates"
	"github.com/claimkit/uc-engine/store/sqlite"
)

func main() {
	// Environment first, flags on top
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	port := flag.Int("port", settings.Port, "HTTP server port")
	dbPath := flag.String("db", settings.DatabasePath, "SQLite database path")
	flag.Parse()
	settings.Port = *port
	settings.DatabasePath = *dbPath

	if settings.Debug {
		log.Printf("Settings: addr=%s db=%s rates=%q lha=%q auth=%v",
			settings.Addr(), settings.DatabasePath, settings.RatesFile, settings.LHAFile, settings.AuthEnabled())
	}

	// Initialize store
	store, err := sqlite.New(settings.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Rate book and LHA schedule
	rateTable, err := loadRateTable(settings.RatesFile)
	if err != nil {
		log.Fatalf("Failed to load rate book: %v", err)
	}
	lhaTable, err := loadLHATable(settings.LHAFile)
	if err != nil {
		log.Fatalf("Failed to load LHA schedule: %v", err)
	}

	// Mirror the schedule into the database
	if err := store.SeedLHARates(context.Background(), lhaRecords(lhaTable.Schedules())); err != nil {
		log.Printf("Warning: Failed to seed LHA rates: %v", err)
	}

	// Initialize handler and router
	handler := api.NewHandler(store, settings, rateTable, lhaTable)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         settings.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 %s starting on http://localhost:%d", settings.AppName, settings.Port)
		log.Printf("📊 API available at http://localhost:%d/api (tax year %s, %d BRMAs)",
			settings.Port, rateTable.TaxYear(), lhaTable.Len())
		if !settings.AuthEnabled() {
			log.Printf("⚠️  UC_SECRET_KEY not set, token and admin endpoints are disabled")
		}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func loadRateTable(path string) (*engine.RateTable, error) {
	if path == "" {
		return rates.Default(), nil
	}
	return rates.LoadRateTable(path)
}

func loadLHATable(path string) (*rates.LHATable, error) {
	if path == "" {
		return rates.DefaultLHA(), nil
	}
	return rates.LoadLHATable(path)
}

func lhaRecords(schedules []rates.BRMASchedule) []sqlite.LHARateRecord {
	records := make([]sqlite.LHARateRecord, len(schedules))
	for i, s := range schedules {
		records[i] = sqlite.LHARateRecord{
			BRMACode:       s.BRMACode,
			BRMAName:       s.BRMAName,
			LocalAuthority: s.LocalAuthority,
			EffectiveFrom:  s.EffectiveFrom,
			Studio:         s.Studio,
			OneBed:         s.OneBed,
			TwoBed:         s.TwoBed,
			ThreeBed:       s.ThreeBed,
			FourBed:        s.FourBed,
		}
	}
	return records
}
