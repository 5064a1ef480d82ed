package schema

import (
	"time"

	"github.com/chainledger/ledger-indexer/internal/domain"
)

// Ownership represents the ownerships table - snapshot-mode custody records.
// An incoming snapshot replaces the stored one iff its height is strictly
// greater; stale snapshots are silently ignored. A burn clears the record.
type Ownership struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Chain identifies the blockchain network
	Chain domain.Chain `gorm:"column:chain;not null;type:text;uniqueIndex:idx_ownerships_key,priority:1"`
	// TokenAddress is the token contract address
	TokenAddress string `gorm:"column:token_address;not null;type:text;uniqueIndex:idx_ownerships_key,priority:2"`
	// TokenNumber identifies the token within the contract
	TokenNumber string `gorm:"column:token_number;not null;type:text;uniqueIndex:idx_ownerships_key,priority:3"`
	// Owner is the current custodian address
	Owner string `gorm:"column:owner;not null;type:text;index:idx_ownerships_owner"`
	// Height is the block height the snapshot was taken at
	Height uint64 `gorm:"column:height;not null;type:bigint"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Ownership model
func (Ownership) TableName() string {
	return "ownerships"
}
