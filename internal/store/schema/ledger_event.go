package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/types"
)

// LedgerEvent represents the ledger_events table - immutable facts keyed by
// the derived event id (tx hash + intra-block index). Rows are never mutated
// after insert except for the bounded enrichment fields written during
// reconciliation.
type LedgerEvent struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// EventID is the globally unique identifier "<tx_hash>:<log_index>"
	EventID string `gorm:"column:event_id;not null;type:text;uniqueIndex:idx_ledger_events_event_id"`
	// Chain identifies the blockchain network
	Chain domain.Chain `gorm:"column:chain;not null;type:text;index:idx_ledger_events_scan,priority:1"`
	// TokenAddress is the token contract address
	TokenAddress string `gorm:"column:token_address;not null;type:text;index:idx_ledger_events_scan,priority:2"`
	// EventType identifies the normalized event type
	EventType domain.EventType `gorm:"column:event_type;not null;type:text"`
	// FromAddress is the sender's address (nil for mint events)
	FromAddress *string `gorm:"column:from_address;type:text"`
	// ToAddress is the recipient's address (nil for burn events)
	ToAddress *string `gorm:"column:to_address;type:text"`
	// Account is the stream account or ownership subject, when applicable
	Account *string `gorm:"column:account;type:text"`
	// Amount is the transferred quantity (nil for non-amount events)
	Amount *types.BigInt `gorm:"column:amount;type:numeric(78,0)"`
	// TxHash is the transaction hash that produced this event
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// BlockNumber is the block height of the event
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint;index:idx_ledger_events_scan,priority:4"`
	// LogIndex is the intra-block ordering index, the mandatory tie-breaker
	// for events sharing a timestamp or height
	LogIndex uint64 `gorm:"column:log_index;not null;type:bigint;index:idx_ledger_events_scan,priority:5"`
	// Timestamp is the block timestamp of the event
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz;index:idx_ledger_events_scan,priority:3"`
	// Raw contains the normalized event payload as received
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`

	// Enrichment fields written during reconciliation. OriginAddress set means
	// the event is resolved.
	// OriginAddress is the attested payer, or the counterparty itself for
	// direct wallet transfers
	OriginAddress *string `gorm:"column:origin_address;type:text"`
	// ProviderID identifies the attesting payment provider
	ProviderID *string `gorm:"column:provider_id;type:text"`
	// PaymentMethod is the attested payment method
	PaymentMethod *string `gorm:"column:payment_method;type:text"`
	// ReferenceHash is the attestation reference hash
	ReferenceHash *string `gorm:"column:reference_hash;type:text"`

	// CreatedAt is the timestamp when this event was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is revised when enrichment fields are written
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// Resolved reports whether the event carries its origin attribution
func (e *LedgerEvent) Resolved() bool {
	return e.OriginAddress != nil && *e.OriginAddress != ""
}

// TableName specifies the table name for the LedgerEvent model
func (LedgerEvent) TableName() string {
	return "ledger_events"
}
