/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the SIGI incapacity management server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment)
  2. Initialize structured logger
  3. Initialize SQLite store
  4. Wire engine, mailer, chart client, and reporter
  5. Start the report scheduler (when enabled)
  6. Start server with graceful shutdown

CONFIGURATION:
  All settings come from the environment (see config/config.go). The -db
  and -port flags override DB_PATH and PORT for local runs.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the report scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/sigi.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sigi/incapacity-engine/api"
	"github.com/sigi/incapacity-engine/chart"
	"github.com/sigi/incapacity-engine/config"
	"github.com/sigi/incapacity-engine/dispatch"
	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/mail"
	"github.com/sigi/incapacity-engine/store/sqlite"
)

func main() {
	// Flags override the environment for local runs
	port := flag.Int("port", 0, "HTTP server port (overrides PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Wire dependencies
	engine := incapacity.NewEngine(store)
	mailer := mail.NewSMTP(mail.Config{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		FromName:  cfg.Mail.FromName,
		FromEmail: cfg.Mail.FromEmail,
	}, logger)
	charts := chart.NewClient(cfg.Chart.BaseURL)
	reporter := dispatch.NewReporter(store, store, mailer, charts, logger, dispatch.DefaultWorkers)

	handler := api.NewHandler(engine, store, reporter, mailer, logger)
	router := api.NewRouter(handler)

	// Report scheduler
	scheduler := api.NewReportScheduler(reporter, logger)
	scheduler.Enabled = cfg.Scheduler.Enabled
	scheduler.CheckInterval = cfg.Scheduler.Interval
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("db", cfg.DBPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
