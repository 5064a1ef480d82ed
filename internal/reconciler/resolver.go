package reconciler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chainledger/ledger-indexer/internal/adapter"
	"github.com/chainledger/ledger-indexer/internal/attestation"
	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/logger"
	"github.com/chainledger/ledger-indexer/internal/registry"
	"github.com/chainledger/ledger-indexer/internal/store"
	"github.com/chainledger/ledger-indexer/internal/store/schema"
	"github.com/chainledger/ledger-indexer/internal/types"
)

// Resolver attempts to resolve a single pending reconciliation item.
//
//go:generate mockgen -source=resolver.go -destination=../mocks/resolver.go -package=mocks -mock_names=Resolver=MockResolver
type Resolver interface {
	// Resolve returns resolved=true when the item has been completed and
	// removed from the queue. A false return with nil error means the item is
	// held for the next cycle; an error means the attempt failed and the item
	// stays pending.
	Resolve(ctx context.Context, item *schema.PendingReconciliation) (bool, error)
}

type resolver struct {
	store        store.Store
	attestations attestation.Client
	registry     registry.IntermediaryRegistry
	json         adapter.JSON
	clock        adapter.Clock
}

// NewResolver creates a new reconciliation resolver
func NewResolver(st store.Store, attestations attestation.Client, reg registry.IntermediaryRegistry, jsonAdapter adapter.JSON, clock adapter.Clock) Resolver {
	return &resolver{
		store:        st,
		attestations: attestations,
		registry:     reg,
		json:         jsonAdapter,
		clock:        clock,
	}
}

// Resolve processes one pending item. Removal from the queue is driven solely
// by the completion predicate on the stored event, never by this method's own
// success signal: a crash between enrichment and removal is healed on the next
// cycle when the predicate already holds.
func (r *resolver) Resolve(ctx context.Context, item *schema.PendingReconciliation) (bool, error) {
	event, err := r.store.GetLedgerEvent(ctx, item.EventID)
	if err != nil {
		return false, err
	}
	if event == nil {
		return false, fmt.Errorf("pending reconciliation %s has no stored event", item.EventID)
	}

	// Already enriched by a previous attempt that crashed before removal
	if event.Resolved() {
		return true, r.complete(ctx, item)
	}

	var payload domain.LedgerEvent
	if err := r.json.Unmarshal([]byte(item.Payload), &payload); err != nil {
		return false, fmt.Errorf("failed to decode pending payload %s: %w", item.EventID, err)
	}
	if types.StringNilOrEmpty(payload.FromAddress) {
		return false, fmt.Errorf("pending reconciliation %s has no counterparty", item.EventID)
	}
	counterparty := domain.NormalizeAddress(*payload.FromAddress)

	record, err := r.attestations.GetAttestation(ctx, payload.TxHash)
	if err != nil {
		// Transient lookup failure: hold the item, retry next cycle
		return false, err
	}

	switch {
	case record != nil:
		// Attested payment: reassign the counterparty to the attested payer
		// and stamp the provider metadata
		enrichment := store.EventEnrichment{
			OriginAddress: domain.NormalizeAddress(record.PayerAddress),
			ProviderID:    &record.ProviderID,
			PaymentMethod: &record.PaymentMethod,
			ReferenceHash: &record.ReferenceHash,
			UpdatedAt:     r.clock.Now(),
		}
		if err := r.store.EnrichLedgerEvent(ctx, item.EventID, enrichment); err != nil {
			return false, err
		}
		logger.InfoCtx(ctx, "Resolved reconciliation via attestation",
			zap.String("event_id", item.EventID),
			zap.String("provider_id", record.ProviderID),
		)

	case r.registry.IsIntermediary(payload.Chain, counterparty):
		// A recognized intermediary with no attestation yet: the attestation
		// source lags the chain, hold for the next cycle
		return false, nil

	default:
		// Unrecognized counterparty: a direct wallet transfer needing no
		// attestation, the sender is its own origin
		enrichment := store.EventEnrichment{
			OriginAddress: counterparty,
			UpdatedAt:     r.clock.Now(),
		}
		if err := r.store.EnrichLedgerEvent(ctx, item.EventID, enrichment); err != nil {
			return false, err
		}
		logger.InfoCtx(ctx, "Resolved reconciliation as direct wallet transfer",
			zap.String("event_id", item.EventID),
			zap.String("origin_address", counterparty),
		)
	}

	// Independent completion check: only the stored event's state decides
	// whether the queue entry goes away
	event, err = r.store.GetLedgerEvent(ctx, item.EventID)
	if err != nil {
		return false, err
	}
	if event == nil || !event.Resolved() {
		return false, nil
	}

	return true, r.complete(ctx, item)
}

func (r *resolver) complete(ctx context.Context, item *schema.PendingReconciliation) error {
	if err := r.store.DeletePendingReconciliation(ctx, item.EventID); err != nil {
		return fmt.Errorf("failed to remove completed reconciliation %s: %w", item.EventID, err)
	}
	return nil
}
