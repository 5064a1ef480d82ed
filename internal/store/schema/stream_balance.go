package schema

import (
	"time"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/types"
)

// StreamBalance represents the stream_balances table - checkpoint state for
// continuously-flowing balances. StaticBalance and FlowRate are cumulative
// sums of all flow-update deltas observed for the key; Deposit is replaced by
// the latest extension event. The real-time figure is derived lazily at read
// time, never recomputed in the background.
type StreamBalance struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Chain identifies the blockchain network
	Chain domain.Chain `gorm:"column:chain;not null;type:text;uniqueIndex:idx_stream_balances_key,priority:1"`
	// StreamID identifies the flow agreement
	StreamID string `gorm:"column:stream_id;not null;type:text;uniqueIndex:idx_stream_balances_key,priority:2"`
	// Account is the blockchain address party to the stream
	Account string `gorm:"column:account;not null;type:text;uniqueIndex:idx_stream_balances_key,priority:3"`
	// StaticBalance is the accumulated balance at the last checkpoint
	StaticBalance types.BigInt `gorm:"column:static_balance;not null;type:numeric(78,0)"`
	// Deposit is the collateral tied to the currently active flow agreement
	Deposit types.BigInt `gorm:"column:deposit;not null;type:numeric(78,0)"`
	// FlowRate is the accumulated signed flow rate in units per second
	FlowRate types.BigInt `gorm:"column:flow_rate;not null;type:numeric(78,0)"`
	// LastUpdateAt is the checkpoint timestamp the real-time figure is derived from
	LastUpdateAt time.Time `gorm:"column:last_update_at;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the StreamBalance model
func (StreamBalance) TableName() string {
	return "stream_balances"
}
