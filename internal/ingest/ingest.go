package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/chainledger/ledger-indexer/internal/adapter"
	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/ledger"
	"github.com/chainledger/ledger-indexer/internal/logger"
	"github.com/chainledger/ledger-indexer/internal/metrics"
	"github.com/chainledger/ledger-indexer/internal/registry"
	"github.com/chainledger/ledger-indexer/internal/store"
	"github.com/chainledger/ledger-indexer/internal/store/schema"
	"github.com/chainledger/ledger-indexer/internal/stream"
)

// Config holds the configuration for the event ingester
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Ingester consumes normalized ledger events from JetStream and applies them
// to the balance ledger and stream engine. Delivery is at-least-once; the
// event store's dedup-by-event-id makes redelivery harmless.
type Ingester interface {
	// Run starts the event ingester
	Run(ctx context.Context) error
	// Close closes the ingester and cleans up resources
	Close()
}

type ingester struct {
	nc       adapter.NatsConn
	js       adapter.JetStream
	ledger   ledger.Service
	streams  stream.Engine
	store    store.Store
	registry registry.IntermediaryRegistry
	json     adapter.JSON
	metrics  *metrics.Metrics
	config   Config
}

// NewIngester creates a new event ingester
func NewIngester(
	cfg Config,
	natsJS adapter.NatsJetStream,
	ledgerService ledger.Service,
	streamEngine stream.Engine,
	st store.Store,
	reg registry.IntermediaryRegistry,
	jsonAdapter adapter.JSON,
	m *metrics.Metrics,
) (Ingester, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &ingester{
		nc:       nc,
		js:       js,
		ledger:   ledgerService,
		streams:  streamEngine,
		store:    st,
		registry: reg,
		json:     jsonAdapter,
		metrics:  m,
		config:   cfg,
	}, nil
}

// Run starts the event ingester
func (i *ingester) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting event ingester",
		zap.String("stream", i.config.StreamName),
		zap.String("consumer", i.config.ConsumerName),
	)

	subject := "ledger.events.>"

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       i.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       i.config.AckWaitTimeout,
		MaxDeliver:    i.config.MaxDeliver,
		FilterSubject: subject,
	}

	consumer, err := i.js.CreateOrUpdateConsumer(ctx, i.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	// Messages are handled sequentially: ingestion is single-writer per
	// partition, so the merge path needs no locking
	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.InfoCtx(ctx, "Started consuming messages")

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down event ingester")
			return ctx.Err()
		case msg := <-msgChan:
			i.handleMessage(ctx, msg)
		}
	}
}

// handleMessage processes a single NATS message
func (i *ingester) handleMessage(ctx context.Context, msg adapter.Message) {
	metadata, _ := msg.Metadata()

	var event domain.LedgerEvent
	if err := i.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to unmarshal event: %w", err))
		i.metrics.MalformedEvents.Inc()
		// Terminate message for unparseable data
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to terminate message: %w", err))
		}
		return
	}

	if !event.Valid() {
		logger.WarnCtx(ctx, "Dropping malformed event",
			zap.String("event_id", event.EventID()),
			zap.String("chain", string(event.Chain)),
			zap.String("event_type", string(event.EventType)),
		)
		i.metrics.MalformedEvents.Inc()
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to terminate message: %w", err))
		}
		return
	}

	var deliveryCount uint64
	if metadata != nil {
		deliveryCount = metadata.NumDelivered
	}
	logger.DebugCtx(ctx, "Received event",
		zap.String("event_id", event.EventID()),
		zap.String("chain", string(event.Chain)),
		zap.String("event_type", string(event.EventType)),
		zap.Uint64("delivery_count", deliveryCount),
	)

	if err := i.processEvent(ctx, &event); err != nil {
		if errors.Is(err, domain.ErrMalformedEvent) {
			i.metrics.MalformedEvents.Inc()
			if err := msg.Term(); err != nil {
				logger.ErrorCtx(ctx, fmt.Errorf("failed to terminate message: %w", err))
			}
			return
		}

		logger.ErrorCtx(ctx, fmt.Errorf("failed to process event %s: %w", event.EventID(), err))
		// NAK to retry; the dedup on event id keeps redelivery safe
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to NAK message: %w", err))
		}
		return
	}

	i.metrics.EventsIngested.WithLabelValues(string(event.Chain), string(event.EventType)).Inc()

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to ACK message: %w", err))
	}
}

// processEvent dispatches the event to the owning service. The event type set
// is closed; every member is matched explicitly.
func (i *ingester) processEvent(ctx context.Context, event *domain.LedgerEvent) error {
	switch event.EventType {
	case domain.EventTypeTransfer:
		applied, err := i.ledger.Apply(ctx, event)
		if err != nil {
			return err
		}
		needsAttribution := applied
		if !applied {
			// Redelivery: the merge was deduped, but the first delivery may
			// have been NAKed between committing the event row and scheduling
			// attribution. The stored event's resolution state, not the merge
			// outcome, decides whether scheduling is still owed.
			stored, err := i.store.GetLedgerEvent(ctx, event.EventID())
			if err != nil {
				return err
			}
			needsAttribution = stored != nil && !stored.Resolved()
		}
		if needsAttribution {
			if err := i.scheduleReconciliation(ctx, event); err != nil {
				return err
			}
		}

	case domain.EventTypeMint, domain.EventTypeBurn, domain.EventTypeOwnershipChange:
		if _, err := i.ledger.Apply(ctx, event); err != nil {
			return err
		}

	case domain.EventTypeStreamFlowUpdate, domain.EventTypeStreamFlowExtension:
		if _, err := i.streams.Apply(ctx, event); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown event type %s", domain.ErrMalformedEvent, event.EventType)
	}

	i.advanceBlockCursor(ctx, event)
	return nil
}

// scheduleReconciliation decides how a transfer gets its origin attribution.
// Transfers from a recognized intermediary wait for an off-chain attestation
// in the durable queue; anything else is a direct wallet transfer whose
// sender is its own origin, resolved on the spot.
func (i *ingester) scheduleReconciliation(ctx context.Context, event *domain.LedgerEvent) error {
	counterparty := domain.NormalizeAddress(*event.FromAddress)

	if !i.registry.IsIntermediary(event.Chain, counterparty) {
		err := i.store.EnrichLedgerEvent(ctx, event.EventID(), store.EventEnrichment{
			OriginAddress: counterparty,
			UpdatedAt:     event.Timestamp,
		})
		if err != nil {
			return fmt.Errorf("failed to resolve direct transfer %s: %w", event.EventID(), err)
		}
		return nil
	}

	payload, err := i.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal pending payload: %w", err)
	}

	item := &schema.PendingReconciliation{
		EventID:        event.EventID(),
		Chain:          event.Chain,
		TokenAddress:   event.TokenAddress,
		EventTimestamp: event.Timestamp,
		Payload:        datatypes.JSON(payload),
	}

	// Losing a queue entry means the transfer is never attributed, so the
	// enqueue is supervised with its own retry before the message is NAKed
	operation := func() error {
		return i.store.EnqueuePendingReconciliation(ctx, item)
	}
	notify := func(err error, next time.Duration) {
		logger.WarnCtx(ctx, "Retrying reconciliation enqueue",
			zap.String("event_id", event.EventID()),
			zap.Duration("next_attempt_in", next),
			zap.Error(err),
		)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 15 * time.Second

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		i.metrics.EnqueueFailures.Inc()
		return fmt.Errorf("failed to enqueue reconciliation for %s: %w", event.EventID(), err)
	}

	return nil
}

// advanceBlockCursor records the highest block seen per chain, best effort
func (i *ingester) advanceBlockCursor(ctx context.Context, event *domain.LedgerEvent) {
	current, err := i.store.GetBlockCursor(ctx, string(event.Chain))
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read block cursor", zap.Error(err))
		return
	}
	if event.BlockNumber <= current {
		return
	}
	if err := i.store.SetBlockCursor(ctx, string(event.Chain), event.BlockNumber); err != nil {
		logger.WarnCtx(ctx, "Failed to advance block cursor",
			zap.String("chain", string(event.Chain)),
			zap.Uint64("block_number", event.BlockNumber),
			zap.Error(err),
		)
	}
}

// Close closes the ingester and cleans up resources
func (i *ingester) Close() {
	if i.nc == nil {
		return
	}

	i.nc.Close()
}
