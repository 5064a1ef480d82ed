package schema

import (
	"time"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/types"
)

// Balance represents the balances table - current-balance records per
// (chain, token, account). A row with amount == 0 must not exist; zero rows
// are pruned in the same transaction that produced them.
type Balance struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Chain identifies the blockchain network
	Chain domain.Chain `gorm:"column:chain;not null;type:text;uniqueIndex:idx_balances_chain_token_account,priority:1"`
	// TokenAddress is the token contract address
	TokenAddress string `gorm:"column:token_address;not null;type:text;uniqueIndex:idx_balances_chain_token_account,priority:2"`
	// Account is the blockchain address holding the balance
	Account string `gorm:"column:account;not null;type:text;uniqueIndex:idx_balances_chain_token_account,priority:3"`
	// Amount is the accumulated signed balance (up to 78 digits)
	Amount types.BigInt `gorm:"column:amount;not null;type:numeric(78,0);index:idx_balances_amount"`
	// LastHeight is the block height of the last event merged into this record
	LastHeight uint64 `gorm:"column:last_height;not null;type:bigint"`
	// LastTimestamp is the block timestamp of the last event merged into this record
	LastTimestamp time.Time `gorm:"column:last_timestamp;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this balance was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this balance was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}
