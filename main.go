package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"listing-insights/config"
	"listing-insights/models"
	"listing-insights/server"
	"listing-insights/services"
	"listing-insights/storage"
	"listing-insights/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.DebugLog)

	logger.Info("=== Listing Insights API starting ===")
	logger.Info("Config: csv=%s | addr=%s | ttl=%dms | rebuild timeout=%dms",
		cfg.ListingsCSVPath, cfg.HTTPAddr, cfg.CacheTTLMs, cfg.RebuildTimeoutMs)

	source := storage.NewFileSource(cfg.ListingsCSVPath, cfg.ReadRetries, logger)

	pool := utils.NewWorkerPool(runtime.NumCPU())
	parser := services.NewParser(logger)
	cleaner := services.NewCleaner(logger, pool)
	enricher := services.NewEnricher(logger)
	aggregator := services.NewAggregator(logger)

	cache := services.NewCacheManager(source, parser, cleaner, enricher,
		time.Duration(cfg.CacheTTLMs)*time.Millisecond,
		time.Duration(cfg.RebuildTimeoutMs)*time.Millisecond,
		logger)
	engine := services.NewEngine(cache, aggregator, logger)

	// Warm the cache so the first request does not pay for the rebuild, and
	// run the optional exports off the same generation.
	listings, err := cache.Get(context.Background())
	if err != nil {
		logger.Error("Initial data load failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d cleaned listings", len(listings))

	runExports(cfg, logger, listings)

	handler := server.NewHandler(engine, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	case sig := <-stop:
		logger.Info("Received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// runExports materializes the enriched set to the configured sinks. Export
// failures are logged, not fatal: the API can serve without them.
func runExports(cfg *config.Config, logger *utils.Logger, listings []*models.Listing) {
	if cfg.CSVExportPath != "" {
		writer, err := storage.NewCSVWriter(cfg.CSVExportPath)
		if err != nil {
			logger.Error("CSV export setup failed: %v", err)
		} else if err := writer.Write(listings); err != nil {
			logger.Error("CSV export failed: %v", err)
		} else {
			logger.Info("Enriched listings exported to %s", cfg.CSVExportPath)
		}
	}

	if cfg.ExportPostgres {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("PostgreSQL connect failed: %v", err)
			return
		}
		defer pgWriter.Close()
		if err := pgWriter.Write(listings); err != nil {
			logger.Error("PostgreSQL export failed: %v", err)
		} else {
			logger.Info("Enriched listings stored in PostgreSQL (table: listings)")
		}
	}
}
