package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/store/schema"
	"github.com/chainledger/ledger-indexer/internal/types"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// AutoMigrate creates or updates the database schema for all ledger tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Balance{},
		&schema.Ownership{},
		&schema.StreamBalance{},
		&schema.LedgerEvent{},
		&schema.PendingReconciliation{},
		&schema.KeyValueStore{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// insertEventOnce inserts the event row, deduplicated by event id.
// Returns false when the event was already recorded.
func insertEventOnce(tx *gorm.DB, event *schema.LedgerEvent) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(event)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert ledger event: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ApplyBalanceEvent records a ledger event, merges its balance deltas and
// optionally clears a custody record, all in a single transaction
func (s *pgStore) ApplyBalanceEvent(ctx context.Context, input ApplyBalanceEventInput) (bool, error) {
	var inserted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := insertEventOnce(tx, input.Event)
		if err != nil {
			return err
		}
		if !ok {
			// Already indexed; merging the deltas again would double-count
			return nil
		}
		inserted = true

		for _, delta := range input.Deltas {
			if err := mergeBalanceDelta(tx, input.Event, delta); err != nil {
				return err
			}
		}

		if input.ClearOwnership != nil {
			if err := tx.
				Where("chain = ? AND token_address = ? AND token_number = ?",
					input.ClearOwnership.Chain, input.ClearOwnership.TokenAddress, input.ClearOwnership.TokenNumber).
				Delete(&schema.Ownership{}).Error; err != nil {
				return fmt.Errorf("failed to clear ownership: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// mergeBalanceDelta accumulates a signed delta into the balance record and
// prunes the row if it landed exactly on zero
func mergeBalanceDelta(tx *gorm.DB, event *schema.LedgerEvent, delta BalanceDelta) error {
	if delta.Amount == nil {
		return fmt.Errorf("balance delta for %s has no amount", delta.Key.Account)
	}

	balance := schema.Balance{
		Chain:         delta.Key.Chain,
		TokenAddress:  delta.Key.TokenAddress,
		Account:       delta.Key.Account,
		Amount:        *delta.Amount.Copy(),
		LastHeight:    event.BlockNumber,
		LastTimestamp: event.Timestamp,
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "chain"}, {Name: "token_address"}, {Name: "account"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount":         gorm.Expr("balances.amount + EXCLUDED.amount"),
			"last_height":    gorm.Expr("GREATEST(balances.last_height, EXCLUDED.last_height)"),
			"last_timestamp": gorm.Expr("GREATEST(balances.last_timestamp, EXCLUDED.last_timestamp)"),
			"updated_at":     gorm.Expr("now()"),
		}),
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(&balance).Error; err != nil {
		return fmt.Errorf("failed to merge balance delta: %w", err)
	}

	// Zero rows must not survive the transaction that produced them
	if err := tx.
		Where("chain = ? AND token_address = ? AND account = ? AND amount = 0",
			delta.Key.Chain, delta.Key.TokenAddress, delta.Key.Account).
		Delete(&schema.Balance{}).Error; err != nil {
		return fmt.Errorf("failed to prune zero balance: %w", err)
	}

	return nil
}

// ApplyOwnershipSnapshot records the event and applies the custody snapshot
// under last-writer-wins-by-height
func (s *pgStore) ApplyOwnershipSnapshot(ctx context.Context, event *schema.LedgerEvent, key domain.OwnershipKey, owner string, height uint64) (bool, error) {
	var applied bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := insertEventOnce(tx, event)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		ownership := schema.Ownership{
			Chain:        key.Chain,
			TokenAddress: key.TokenAddress,
			TokenNumber:  key.TokenNumber,
			Owner:        owner,
			Height:       height,
		}

		// The WHERE guard turns stale snapshots into no-ops: the update fires
		// only when the incoming height is strictly greater
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "chain"}, {Name: "token_address"}, {Name: "token_number"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"owner":      gorm.Expr("EXCLUDED.owner"),
				"height":     gorm.Expr("EXCLUDED.height"),
				"updated_at": gorm.Expr("now()"),
			}),
			Where: clause.Where{
				Exprs: []clause.Expression{gorm.Expr("ownerships.height < EXCLUDED.height")},
			},
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&ownership)
		if res.Error != nil {
			return fmt.Errorf("failed to apply ownership snapshot: %w", res.Error)
		}

		applied = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// ApplyStreamFlowUpdate records the event and accumulates the stream's static
// balance and flow rate deltas, moving the checkpoint to the event timestamp
func (s *pgStore) ApplyStreamFlowUpdate(ctx context.Context, event *schema.LedgerEvent, key domain.StreamKey, staticDelta, flowRateDelta *types.BigInt, timestamp time.Time) (bool, error) {
	if staticDelta == nil || flowRateDelta == nil {
		return false, fmt.Errorf("stream flow update for %s has no deltas", key.StreamID)
	}

	var inserted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := insertEventOnce(tx, event)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		inserted = true

		streamBalance := schema.StreamBalance{
			Chain:         key.Chain,
			StreamID:      key.StreamID,
			Account:       key.Account,
			StaticBalance: *staticDelta.Copy(),
			Deposit:       *types.NewBigInt(0),
			FlowRate:      *flowRateDelta.Copy(),
			LastUpdateAt:  timestamp,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "chain"}, {Name: "stream_id"}, {Name: "account"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"static_balance": gorm.Expr("stream_balances.static_balance + EXCLUDED.static_balance"),
				"flow_rate":      gorm.Expr("stream_balances.flow_rate + EXCLUDED.flow_rate"),
				"last_update_at": gorm.Expr("EXCLUDED.last_update_at"),
				"updated_at":     gorm.Expr("now()"),
			}),
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&streamBalance).Error; err != nil {
			return fmt.Errorf("failed to apply stream flow update: %w", err)
		}

		// A fully wound-down stream leaves no record behind
		if err := tx.
			Where("chain = ? AND stream_id = ? AND account = ? AND static_balance = 0 AND flow_rate = 0",
				key.Chain, key.StreamID, key.Account).
			Delete(&schema.StreamBalance{}).Error; err != nil {
			return fmt.Errorf("failed to prune settled stream: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// ApplyStreamDepositReplace records the event and replaces the stream's
// deposit with the extension event's value. The checkpoint timestamp is left
// untouched on existing records since no flow state changed.
func (s *pgStore) ApplyStreamDepositReplace(ctx context.Context, event *schema.LedgerEvent, key domain.StreamKey, deposit *types.BigInt, timestamp time.Time) (bool, error) {
	if deposit == nil {
		return false, fmt.Errorf("stream deposit replace for %s has no amount", key.StreamID)
	}

	var inserted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := insertEventOnce(tx, event)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		inserted = true

		streamBalance := schema.StreamBalance{
			Chain:         key.Chain,
			StreamID:      key.StreamID,
			Account:       key.Account,
			StaticBalance: *types.NewBigInt(0),
			Deposit:       *deposit.Copy(),
			FlowRate:      *types.NewBigInt(0),
			LastUpdateAt:  timestamp,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "chain"}, {Name: "stream_id"}, {Name: "account"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"deposit":    gorm.Expr("EXCLUDED.deposit"),
				"updated_at": gorm.Expr("now()"),
			}),
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&streamBalance).Error; err != nil {
			return fmt.Errorf("failed to replace stream deposit: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// GetBalance retrieves the balance record for a key, or nil when absent
func (s *pgStore) GetBalance(ctx context.Context, key domain.BalanceKey) (*schema.Balance, error) {
	var balance schema.Balance
	err := s.db.WithContext(ctx).
		Where("chain = ? AND token_address = ? AND account = ?",
			key.Chain, key.TokenAddress, key.Account).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

// ListBalances range-scans balance records under the filter's ordering
func (s *pgStore) ListBalances(ctx context.Context, filter BalanceFilter) ([]*schema.Balance, error) {
	query := s.db.WithContext(ctx).
		Where("chain = ? AND token_address = ?", filter.Chain, filter.TokenAddress)

	if filter.Account != nil {
		query = query.Where("account = ?", *filter.Account)
	}

	orderColumn := "account"
	if filter.Order == BalanceOrderAmount {
		orderColumn = "amount"
	}
	query = query.Order(orderClause(orderColumn, filter.Reverse))
	if orderColumn == "amount" {
		// Deterministic ordering for equal amounts
		query = query.Order(orderClause("account", filter.Reverse))
	}

	query = applyListOptions(query, filter.ListOptions)

	var balances []*schema.Balance
	if err := query.Find(&balances).Error; err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return balances, nil
}

// GetOwnership retrieves the custody record for a key, or nil when absent
func (s *pgStore) GetOwnership(ctx context.Context, key domain.OwnershipKey) (*schema.Ownership, error) {
	var ownership schema.Ownership
	err := s.db.WithContext(ctx).
		Where("chain = ? AND token_address = ? AND token_number = ?",
			key.Chain, key.TokenAddress, key.TokenNumber).
		First(&ownership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ownership: %w", err)
	}
	return &ownership, nil
}

// GetStreamBalance retrieves the stream checkpoint for a key, or nil when absent
func (s *pgStore) GetStreamBalance(ctx context.Context, key domain.StreamKey) (*schema.StreamBalance, error) {
	var streamBalance schema.StreamBalance
	err := s.db.WithContext(ctx).
		Where("chain = ? AND stream_id = ? AND account = ?",
			key.Chain, key.StreamID, key.Account).
		First(&streamBalance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stream balance: %w", err)
	}
	return &streamBalance, nil
}

// GetLedgerEvent retrieves the event with the given event id, or nil
func (s *pgStore) GetLedgerEvent(ctx context.Context, eventID string) (*schema.LedgerEvent, error) {
	var event schema.LedgerEvent
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger event: %w", err)
	}
	return &event, nil
}

// ListLedgerEvents range-scans events ordered by timestamp with the log index
// as the intra-block tie-breaker
func (s *pgStore) ListLedgerEvents(ctx context.Context, filter EventFilter) ([]*schema.LedgerEvent, error) {
	query := s.db.WithContext(ctx).
		Where("chain = ? AND token_address = ?", filter.Chain, filter.TokenAddress)

	if filter.Account != nil {
		query = query.Where("(from_address = ? OR to_address = ? OR account = ?)",
			*filter.Account, *filter.Account, *filter.Account)
	}
	if filter.FromTime != nil {
		query = query.Where("timestamp >= ?", *filter.FromTime)
	}
	if filter.ToTime != nil {
		query = query.Where("timestamp < ?", *filter.ToTime)
	}
	if filter.FromHeight != nil {
		query = query.Where("block_number >= ?", *filter.FromHeight)
	}
	if filter.ToHeight != nil {
		query = query.Where("block_number < ?", *filter.ToHeight)
	}

	query = query.
		Order(orderClause("timestamp", filter.Reverse)).
		Order(orderClause("log_index", filter.Reverse))
	query = applyListOptions(query, filter.ListOptions)

	var events []*schema.LedgerEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}
	return events, nil
}

// EnrichLedgerEvent writes the bounded enrichment fields onto an event
func (s *pgStore) EnrichLedgerEvent(ctx context.Context, eventID string, enrichment EventEnrichment) error {
	if enrichment.OriginAddress == "" {
		return fmt.Errorf("enrichment for event %s has no origin address", eventID)
	}

	updates := map[string]interface{}{
		"origin_address": enrichment.OriginAddress,
		"updated_at":     enrichment.UpdatedAt,
	}
	if enrichment.ProviderID != nil {
		updates["provider_id"] = *enrichment.ProviderID
	}
	if enrichment.PaymentMethod != nil {
		updates["payment_method"] = *enrichment.PaymentMethod
	}
	if enrichment.ReferenceHash != nil {
		updates["reference_hash"] = *enrichment.ReferenceHash
	}

	res := s.db.WithContext(ctx).
		Model(&schema.LedgerEvent{}).
		Where("event_id = ?", eventID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to enrich ledger event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ledger event not found: %s", eventID)
	}
	return nil
}

// EnqueuePendingReconciliation upserts a pending item by business key. An
// existing entry is replaced in place only when the incoming payload carries a
// later event timestamp.
func (s *pgStore) EnqueuePendingReconciliation(ctx context.Context, item *schema.PendingReconciliation) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"chain":           gorm.Expr("EXCLUDED.chain"),
			"token_address":   gorm.Expr("EXCLUDED.token_address"),
			"event_timestamp": gorm.Expr("EXCLUDED.event_timestamp"),
			"payload":         gorm.Expr("EXCLUDED.payload"),
			"updated_at":      gorm.Expr("now()"),
		}),
		Where: clause.Where{
			Exprs: []clause.Expression{gorm.Expr("pending_reconciliations.event_timestamp < EXCLUDED.event_timestamp")},
		},
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(item).Error
	if err != nil {
		return fmt.Errorf("failed to enqueue pending reconciliation: %w", err)
	}
	return nil
}

// GetPendingReconciliations returns up to limit pending items, oldest
// enqueued first
func (s *pgStore) GetPendingReconciliations(ctx context.Context, limit int) ([]*schema.PendingReconciliation, error) {
	query := s.db.WithContext(ctx).Order("enqueued_at ASC, event_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []*schema.PendingReconciliation
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get pending reconciliations: %w", err)
	}
	return items, nil
}

// ListPendingReconciliations range-scans pending items for the query surface
func (s *pgStore) ListPendingReconciliations(ctx context.Context, filter PendingFilter) ([]*schema.PendingReconciliation, error) {
	query := s.db.WithContext(ctx)
	if filter.Chain != "" {
		query = query.Where("chain = ?", filter.Chain)
	}
	if filter.TokenAddress != "" {
		query = query.Where("token_address = ?", filter.TokenAddress)
	}

	query = query.
		Order(orderClause("enqueued_at", filter.Reverse)).
		Order(orderClause("event_id", filter.Reverse))
	query = applyListOptions(query, filter.ListOptions)

	var items []*schema.PendingReconciliation
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending reconciliations: %w", err)
	}
	return items, nil
}

// CountPendingReconciliations returns the queue depth
func (s *pgStore) CountPendingReconciliations(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.PendingReconciliation{}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending reconciliations: %w", err)
	}
	return count, nil
}

// DeletePendingReconciliation removes a pending item by business key
func (s *pgStore) DeletePendingReconciliation(ctx context.Context, eventID string) error {
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&schema.PendingReconciliation{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete pending reconciliation: %w", err)
	}
	return nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	key := fmt.Sprintf("block_cursor:%s", chain)

	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	key := fmt.Sprintf("block_cursor:%s", chain)
	value := strconv.FormatUint(blockNumber, 10)

	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}

func orderClause(column string, reverse bool) string {
	if reverse {
		return column + " DESC"
	}
	return column + " ASC"
}

func applyListOptions(query *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	return query
}
