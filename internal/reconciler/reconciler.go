package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/chainledger/ledger-indexer/internal/adapter"
	"github.com/chainledger/ledger-indexer/internal/logger"
	"github.com/chainledger/ledger-indexer/internal/metrics"
	"github.com/chainledger/ledger-indexer/internal/store"
)

// Config holds configuration for the reconciliation driver
type Config struct {
	Interval       time.Duration // Time between cycle starts
	ChunkSize      int           // Pending items pulled per cycle
	MaxConcurrency int           // Concurrent resolver calls; keep low for rate-limited attestation sources
}

// Reconciler drives the periodic resolution of pending reconciliation items.
// Cycles fire on a fixed interval; a cycle still running when the next is due
// is skipped, never queued. Items failing resolution stay pending and are
// retried indefinitely; queue depth and item age are exported so unbounded
// growth is visible.
//
//go:generate mockgen -source=reconciler.go -destination=../mocks/reconciler.go -package=mocks -mock_names=Reconciler=MockReconciler
type Reconciler interface {
	// Start begins the driver's main loop
	// This is a blocking call that runs until the context is canceled
	Start(ctx context.Context) error

	// Stop stops the driver's main loop. An in-progress cycle is not waited
	// for; its items stay pending until the completion check removes them,
	// so abandoning it is safe
	Stop(ctx context.Context) error

	// Name returns the driver's name for logging and identification
	Name() string
}

type reconciler struct {
	config       *Config
	store        store.Store
	resolver     Resolver
	clock        adapter.Clock
	metrics      *metrics.Metrics
	running      atomic.Bool
	cycleRunning atomic.Bool
	stopChan     chan struct{}
	stoppedCh    chan struct{}
}

// NewReconciler creates a new reconciliation driver
func NewReconciler(config *Config, st store.Store, resolver Resolver, clock adapter.Clock, m *metrics.Metrics) Reconciler {
	return &reconciler{
		config:    config,
		store:     st,
		resolver:  resolver,
		clock:     clock,
		metrics:   m,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the driver's name
func (r *reconciler) Name() string {
	return "reconciliation-driver"
}

// Start begins the driver's main loop - fires a cycle every interval
func (r *reconciler) Start(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return fmt.Errorf("reconciler already running")
	}
	defer func() {
		r.running.Store(false)
		close(r.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting reconciliation driver",
		zap.Duration("interval", r.config.Interval),
		zap.Int("chunk_size", r.config.ChunkSize),
		zap.Int("max_concurrency", r.config.MaxConcurrency),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Reconciliation driver stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-r.stopChan:
			logger.InfoCtx(ctx, "Reconciliation driver stop requested")
			return nil
		case <-r.clock.After(r.config.Interval):
			// Cycles fire on the interval regardless of how long the previous
			// one took; an overlapping cycle is skipped, not queued
			if !r.cycleRunning.CompareAndSwap(false, true) {
				logger.WarnCtx(ctx, "Previous reconciliation cycle still running, skipping this interval")
				continue
			}
			go func() {
				defer r.cycleRunning.Store(false)
				if err := r.runCycle(ctx); err != nil {
					if !errors.Is(err, context.Canceled) {
						logger.ErrorCtx(ctx, err)
					}
				}
			}()
		}
	}
}

// Stop gracefully stops the driver with timeout support
func (r *reconciler) Stop(ctx context.Context) error {
	if !r.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping reconciliation driver")

	// Signal stop to the main loop
	close(r.stopChan)

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-r.stoppedCh:
		logger.InfoCtx(ctx, "Reconciliation driver stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Reconciliation driver stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runCycle runs a single reconciliation cycle
func (r *reconciler) runCycle(ctx context.Context) error {
	cycleID := ulid.Make().String()
	startTime := r.clock.Now()
	logger.InfoCtx(ctx, "Starting reconciliation cycle", zap.String("cycle_id", cycleID))

	depth, err := r.store.CountPendingReconciliations(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending reconciliations: %w", err)
	}
	r.metrics.PendingReconciliations.Set(float64(depth))

	items, err := r.store.GetPendingReconciliations(ctx, r.config.ChunkSize)
	if err != nil {
		return fmt.Errorf("failed to get pending reconciliations: %w", err)
	}

	if len(items) == 0 {
		logger.DebugCtx(ctx, "No pending reconciliations", zap.String("cycle_id", cycleID))
		r.metrics.ReconciliationCycles.Inc()
		return nil
	}

	logger.InfoCtx(ctx, "Found pending reconciliations",
		zap.String("cycle_id", cycleID),
		zap.Int("count", len(items)),
		zap.Int64("queue_depth", depth),
	)

	var resolvedCount, requeuedCount atomic.Int32

	pool := pond.NewPool(
		r.config.MaxConcurrency,
		pond.WithQueueSize(r.config.ChunkSize),
		pond.WithContext(ctx),
	)

	for _, item := range items {
		pool.Submit(func() {
			age := r.clock.Since(item.EnqueuedAt)

			resolved, err := r.resolver.Resolve(ctx, item)
			if err != nil {
				// Per-item failure: the item stays pending and is retried next
				// cycle, with no retry cap
				logger.WarnCtx(ctx, "Failed to resolve pending reconciliation",
					zap.String("cycle_id", cycleID),
					zap.String("event_id", item.EventID),
					zap.Duration("item_age", age),
					zap.Error(err),
				)
				requeuedCount.Add(1)
				return
			}

			if resolved {
				resolvedCount.Add(1)
				return
			}

			logger.InfoCtx(ctx, "Pending reconciliation held for next cycle",
				zap.String("cycle_id", cycleID),
				zap.String("event_id", item.EventID),
				zap.Duration("item_age", age),
			)
			requeuedCount.Add(1)
		})
	}

	pool.StopAndWait()

	r.metrics.ReconciliationCycles.Inc()
	r.metrics.ItemsResolved.Add(float64(resolvedCount.Load()))
	r.metrics.ItemsRequeued.Add(float64(requeuedCount.Load()))

	logger.InfoCtx(ctx, "Reconciliation cycle completed",
		zap.String("cycle_id", cycleID),
		zap.Duration("duration", r.clock.Since(startTime)),
		zap.Int("total", len(items)),
		zap.Int32("resolved", resolvedCount.Load()),
		zap.Int32("requeued", requeuedCount.Load()),
	)

	return nil
}
