package store

import (
	"context"
	"time"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/store/schema"
	"github.com/chainledger/ledger-indexer/internal/types"
)

// BalanceDelta is a signed change to one balance record, derived from a
// single ledger event
type BalanceDelta struct {
	Key    domain.BalanceKey
	Amount *types.BigInt
}

// ApplyBalanceEventInput carries a ledger event together with the balance
// mutations it implies. ClearOwnership is set for burns of custody-tracked
// tokens; the custody record is removed in the same transaction.
type ApplyBalanceEventInput struct {
	Event          *schema.LedgerEvent
	Deltas         []BalanceDelta
	ClearOwnership *domain.OwnershipKey
}

// EventEnrichment is the bounded set of fields reconciliation may add to an
// otherwise immutable ledger event
type EventEnrichment struct {
	OriginAddress string
	ProviderID    *string
	PaymentMethod *string
	ReferenceHash *string
	UpdatedAt     time.Time
}

// ListOptions carries pagination and traversal direction for range scans.
// Offset is applied after ordering and costs O(offset) in the storage engine.
type ListOptions struct {
	Limit   int
	Offset  int
	Reverse bool
}

// BalanceOrder selects the ordering of balance listings
type BalanceOrder string

const (
	// BalanceOrderAccount orders by account within the token
	BalanceOrderAccount BalanceOrder = "account"
	// BalanceOrderAmount orders by balance magnitude ("top holders")
	BalanceOrderAmount BalanceOrder = "amount"
)

// BalanceFilter scopes a balance range scan
type BalanceFilter struct {
	Chain        domain.Chain
	TokenAddress string
	Account      *string
	Order        BalanceOrder
	ListOptions
}

// EventFilter scopes a ledger event range scan. Time and height bounds are
// inclusive-exclusive.
type EventFilter struct {
	Chain        domain.Chain
	TokenAddress string
	Account      *string
	FromTime     *time.Time
	ToTime       *time.Time
	FromHeight   *uint64
	ToHeight     *uint64
	ListOptions
}

// PendingFilter scopes a pending reconciliation listing
type PendingFilter struct {
	Chain        domain.Chain
	TokenAddress string
	ListOptions
}

// Store defines the interface for database operations. All merge operations
// are atomic per key: read-old, compute, write-new execute as one
// transaction so a multi-writer deployment stays correct.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// ApplyBalanceEvent records a ledger event and merges its balance deltas
	// in a single transaction. The event row is deduplicated by event id; a
	// duplicate skips the merge entirely and returns inserted=false, which
	// makes delta application idempotent under at-least-once delivery.
	ApplyBalanceEvent(ctx context.Context, input ApplyBalanceEventInput) (bool, error)

	// ApplyOwnershipSnapshot records the event and applies the snapshot under
	// last-writer-wins-by-height: the stored record is replaced iff the
	// incoming height is strictly greater. Returns applied=false for stale
	// snapshots and duplicate events.
	ApplyOwnershipSnapshot(ctx context.Context, event *schema.LedgerEvent, key domain.OwnershipKey, owner string, height uint64) (bool, error)

	// ApplyStreamFlowUpdate records the event and accumulates the stream's
	// static balance and flow rate deltas, moving the checkpoint timestamp
	ApplyStreamFlowUpdate(ctx context.Context, event *schema.LedgerEvent, key domain.StreamKey, staticDelta, flowRateDelta *types.BigInt, timestamp time.Time) (bool, error)

	// ApplyStreamDepositReplace records the event and replaces (not sums) the
	// stream's deposit with the extension event's value
	ApplyStreamDepositReplace(ctx context.Context, event *schema.LedgerEvent, key domain.StreamKey, deposit *types.BigInt, timestamp time.Time) (bool, error)

	// GetBalance returns the balance record for a key, or nil when absent
	// (callers treat absent as zero)
	GetBalance(ctx context.Context, key domain.BalanceKey) (*schema.Balance, error)

	// ListBalances range-scans balance records under the filter's ordering
	ListBalances(ctx context.Context, filter BalanceFilter) ([]*schema.Balance, error)

	// GetOwnership returns the custody record for a key, or nil when absent
	GetOwnership(ctx context.Context, key domain.OwnershipKey) (*schema.Ownership, error)

	// GetStreamBalance returns the stream checkpoint for a key, or nil when absent
	GetStreamBalance(ctx context.Context, key domain.StreamKey) (*schema.StreamBalance, error)

	// GetLedgerEvent returns the event with the given event id, or nil
	GetLedgerEvent(ctx context.Context, eventID string) (*schema.LedgerEvent, error)

	// ListLedgerEvents range-scans events ordered by
	// (chain, token, timestamp, log_index); the log index is the mandatory
	// tie-breaker within a block
	ListLedgerEvents(ctx context.Context, filter EventFilter) ([]*schema.LedgerEvent, error)

	// EnrichLedgerEvent writes the bounded enrichment fields onto an event
	EnrichLedgerEvent(ctx context.Context, eventID string, enrichment EventEnrichment) error

	// EnqueuePendingReconciliation upserts a pending item by business key.
	// An existing entry is replaced in place iff the incoming payload carries
	// a later event timestamp; no duplicate entries are ever created.
	EnqueuePendingReconciliation(ctx context.Context, item *schema.PendingReconciliation) error

	// GetPendingReconciliations returns up to limit pending items, oldest
	// enqueued first
	GetPendingReconciliations(ctx context.Context, limit int) ([]*schema.PendingReconciliation, error)

	// ListPendingReconciliations range-scans pending items for the query surface
	ListPendingReconciliations(ctx context.Context, filter PendingFilter) ([]*schema.PendingReconciliation, error)

	// CountPendingReconciliations returns the queue depth
	CountPendingReconciliations(ctx context.Context) (int64, error)

	// DeletePendingReconciliation removes a pending item by business key
	DeletePendingReconciliation(ctx context.Context, eventID string) error

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
}
