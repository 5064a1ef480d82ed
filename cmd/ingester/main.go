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
	"github.com/chainledger/ledger-indexer/internal/config"
	"github.com/chainledger/ledger-indexer/internal/ingest"
	"github.com/chainledger/ledger-indexer/internal/ledger"
	"github.com/chainledger/ledger-indexer/internal/logger"
	"github.com/chainledger/ledger-indexer/internal/metrics"
	"github.com/chainledger/ledger-indexer/internal/registry"
	"github.com/chainledger/ledger-indexer/internal/store"
	"github.com/chainledger/ledger-indexer/internal/stream"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIngesterConfig(*configFile, *envPath)
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
			"service": "ingester",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Ingester")

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

	// Run schema migrations
	if err := store.AutoMigrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to migrate database schema", zap.Error(err))
	}

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Load the intermediary address registry
	intermediaryRegistry := registry.NewIntermediaryRegistry(nil)
	if cfg.IntermediaryPath != "" {
		intermediaryRegistry, err = registry.LoadIntermediaries(cfg.IntermediaryPath)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load intermediary registry", zap.Error(err), zap.String("path", cfg.IntermediaryPath))
		}
	} else {
		logger.WarnCtx(ctx, "No intermediary registry configured, all transfers resolve as direct")
	}

	// Initialize adapters and services
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	m := metrics.NewDefault()
	ledgerService := ledger.NewService(dataStore, jsonAdapter)
	streamEngine := stream.NewEngine(dataStore, jsonAdapter, clock)

	// Initialize event ingester
	ingesterConfig := ingest.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConsumerName:   cfg.NATS.ConsumerName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
		AckWaitTimeout: cfg.NATS.AckWait,
		MaxDeliver:     cfg.NATS.MaxDeliver,
	}
	eventIngester, err := ingest.NewIngester(
		ingesterConfig,
		adapter.NewNatsJetStream(),
		ledgerService,
		streamEngine,
		dataStore,
		intermediaryRegistry,
		jsonAdapter,
		m,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize ingester", zap.Error(err))
	}
	defer eventIngester.Close()

	logger.InfoCtx(ctx, "Initialized event ingester",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
	)

	// Start the ingester in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := eventIngester.Run(ctx); err != nil {
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

	// Cancel context to stop the ingester
	cancel()

	logger.Info("Ingester stopped")
}
