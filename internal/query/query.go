package query

import (
	"context"
	"time"

	"github.com/chainledger/ledger-indexer/internal/adapter"
	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/store"
	"github.com/chainledger/ledger-indexer/internal/store/schema"
	"github.com/chainledger/ledger-indexer/internal/stream"
)

// DefaultLimit applies when a caller omits the page size
const DefaultLimit = 20

// BalancesRequest scopes a balance listing
type BalancesRequest struct {
	Chain         domain.Chain
	TokenAddress  string
	Account       *string
	OrderByAmount bool
	Limit         int
	Skip          int
	Reverse       bool
}

// EventsRequest scopes a ledger event listing. Range bounds are
// inclusive-exclusive; omitted bounds default to [0, now).
type EventsRequest struct {
	Chain        domain.Chain
	TokenAddress string
	Account      *string
	FromTime     *time.Time
	ToTime       *time.Time
	FromHeight   *uint64
	ToHeight     *uint64
	Limit        int
	Skip         int
	Reverse      bool
}

// PendingRequest scopes a pending reconciliation listing
type PendingRequest struct {
	Chain        domain.Chain
	TokenAddress string
	Limit        int
	Skip         int
	Reverse      bool
}

// Service is the read-only query surface over the materialized ledger state
//
//go:generate mockgen -source=query.go -destination=../mocks/query.go -package=mocks -mock_names=Service=MockQueryService
type Service interface {
	// ListBalances returns current-balance records for a (chain, token) scope
	ListBalances(ctx context.Context, req BalancesRequest) ([]*schema.Balance, error)

	// GetStreamBalance returns the lazily derived real-time stream balance,
	// or nil when no stream checkpoint exists
	GetStreamBalance(ctx context.Context, key domain.StreamKey) (*stream.BalanceView, error)

	// ListEvents returns ledger events in deterministic
	// (timestamp, intra-block index) order
	ListEvents(ctx context.Context, req EventsRequest) ([]*schema.LedgerEvent, error)

	// ListPendingReconciliations returns the unresolved queue entries
	ListPendingReconciliations(ctx context.Context, req PendingRequest) ([]*schema.PendingReconciliation, error)
}

type service struct {
	store   store.Store
	streams stream.Engine
	clock   adapter.Clock
}

// NewService creates a new query service
func NewService(dataStore store.Store, streamEngine stream.Engine, clock adapter.Clock) Service {
	return &service{
		store:   dataStore,
		streams: streamEngine,
		clock:   clock,
	}
}

func (s *service) ListBalances(ctx context.Context, req BalancesRequest) ([]*schema.Balance, error) {
	filter := store.BalanceFilter{
		Chain:        req.Chain,
		TokenAddress: req.TokenAddress,
		Account:      normalizedAccount(req.Account),
		Order:        store.BalanceOrderAccount,
		ListOptions: store.ListOptions{
			Limit:   limitOrDefault(req.Limit),
			Offset:  req.Skip,
			Reverse: req.Reverse,
		},
	}
	if req.OrderByAmount {
		filter.Order = store.BalanceOrderAmount
	}
	return s.store.ListBalances(ctx, filter)
}

func (s *service) GetStreamBalance(ctx context.Context, key domain.StreamKey) (*stream.BalanceView, error) {
	return s.streams.RealTimeBalance(ctx, key)
}

func (s *service) ListEvents(ctx context.Context, req EventsRequest) ([]*schema.LedgerEvent, error) {
	fromTime := req.FromTime
	toTime := req.ToTime
	if fromTime == nil {
		epoch := time.Unix(0, 0).UTC()
		fromTime = &epoch
	}
	if toTime == nil {
		now := s.clock.Now()
		toTime = &now
	}

	filter := store.EventFilter{
		Chain:        req.Chain,
		TokenAddress: req.TokenAddress,
		Account:      normalizedAccount(req.Account),
		FromTime:     fromTime,
		ToTime:       toTime,
		FromHeight:   req.FromHeight,
		ToHeight:     req.ToHeight,
		ListOptions: store.ListOptions{
			Limit:   limitOrDefault(req.Limit),
			Offset:  req.Skip,
			Reverse: req.Reverse,
		},
	}
	return s.store.ListLedgerEvents(ctx, filter)
}

func (s *service) ListPendingReconciliations(ctx context.Context, req PendingRequest) ([]*schema.PendingReconciliation, error) {
	filter := store.PendingFilter{
		Chain:        req.Chain,
		TokenAddress: req.TokenAddress,
		ListOptions: store.ListOptions{
			Limit:   limitOrDefault(req.Limit),
			Offset:  req.Skip,
			Reverse: req.Reverse,
		},
	}
	return s.store.ListPendingReconciliations(ctx, filter)
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func normalizedAccount(account *string) *string {
	if account == nil || *account == "" {
		return nil
	}
	normalized := domain.NormalizeAddress(*account)
	return &normalized
}
