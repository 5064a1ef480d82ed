package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chainledger/ledger-indexer/internal/adapter"
	"github.com/chainledger/ledger-indexer/internal/attestation"
	"github.com/chainledger/ledger-indexer/internal/config"
	"github.com/chainledger/ledger-indexer/internal/logger"
	"github.com/chainledger/ledger-indexer/internal/metrics"
	"github.com/chainledger/ledger-indexer/internal/reconciler"
	"github.com/chainledger/ledger-indexer/internal/registry"
	"github.com/chainledger/ledger-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadReconcilerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "reconciler",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Reconciler")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Load the intermediary address registry
	intermediaryRegistry := registry.NewIntermediaryRegistry(nil)
	if cfg.IntermediaryPath != "" {
		intermediaryRegistry, err = registry.LoadIntermediaries(cfg.IntermediaryPath)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load intermediary registry", zap.Error(err), zap.String("path", cfg.IntermediaryPath))
		}
	}

	// Initialize adapters and collaborators
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	m := metrics.NewDefault()
	httpClient := adapter.NewHTTPClient(cfg.Attestation.HTTPTimeout)
	attestationClient := attestation.NewClient(cfg.Attestation.BaseURL, cfg.Attestation.APIKey, httpClient)

	// Initialize reconciliation driver
	resolver := reconciler.NewResolver(dataStore, attestationClient, intermediaryRegistry, jsonAdapter, clock)
	driverConfig := &reconciler.Config{
		Interval:       cfg.Reconciler.Interval,
		ChunkSize:      cfg.Reconciler.ChunkSize,
		MaxConcurrency: cfg.Reconciler.MaxConcurrency,
	}
	driver := reconciler.NewReconciler(driverConfig, dataStore, resolver, clock, m)

	logger.InfoCtx(ctx, "Initialized reconciliation driver",
		zap.Duration("interval", cfg.Reconciler.Interval),
		zap.Int("chunk_size", cfg.Reconciler.ChunkSize),
		zap.Int("max_concurrency", cfg.Reconciler.MaxConcurrency),
	)

	// Start the driver in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := driver.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the driver
	cancel()

	// Give the driver time to shut down gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := driver.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.InfoCtx(shutdownCtx, "Reconciler stopped")
}
