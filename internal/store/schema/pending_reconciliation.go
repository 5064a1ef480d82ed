package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/chainledger/ledger-indexer/internal/domain"
)

// PendingReconciliation represents the pending_reconciliations table - the
// durable queue of unresolved items. The business key is the event id; an
// enqueue for an existing key replaces the payload in place when the new
// item carries a later event timestamp, so the queue never holds duplicates.
type PendingReconciliation struct {
	// EventID is the business key (primary key, one entry per event)
	EventID string `gorm:"column:event_id;primaryKey;type:text"`
	// Chain identifies the blockchain network, for scoped listings
	Chain domain.Chain `gorm:"column:chain;not null;type:text;index:idx_pending_reconciliations_scope,priority:1"`
	// TokenAddress is the token contract address, for scoped listings
	TokenAddress string `gorm:"column:token_address;not null;type:text;index:idx_pending_reconciliations_scope,priority:2"`
	// EventTimestamp is the block timestamp of the payload event; the
	// conflict-replace rule keeps the later-timestamped payload
	EventTimestamp time.Time `gorm:"column:event_timestamp;not null;type:timestamptz"`
	// EnqueuedAt is when the item first entered the queue
	EnqueuedAt time.Time `gorm:"column:enqueued_at;not null;default:now();type:timestamptz;index:idx_pending_reconciliations_enqueued"`
	// Payload is the unresolved normalized event
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// UpdatedAt is the timestamp when this entry was last replaced
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the PendingReconciliation model
func (PendingReconciliation) TableName() string {
	return "pending_reconciliations"
}
