package ledger

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/chainledger/ledger-indexer/internal/adapter"
	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/store"
	"github.com/chainledger/ledger-indexer/internal/store/schema"
)

// Service materializes balance-affecting ledger events into current-balance
// and custody records. Transfers, mints and burns merge signed deltas in
// accumulate mode; ownership changes merge authoritative snapshots in
// last-writer-wins-by-height mode.
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Service=MockLedgerService
type Service interface {
	// Apply persists the event and merges its balance effects. Returns
	// applied=false when the event was already indexed or the snapshot was
	// stale; malformed events return domain.ErrMalformedEvent.
	Apply(ctx context.Context, event *domain.LedgerEvent) (bool, error)
}

type service struct {
	store store.Store
	json  adapter.JSON
}

// NewService creates a new balance ledger service
func NewService(dataStore store.Store, jsonAdapter adapter.JSON) Service {
	return &service{
		store: dataStore,
		json:  jsonAdapter,
	}
}

func (s *service) Apply(ctx context.Context, event *domain.LedgerEvent) (bool, error) {
	if !event.Valid() {
		return false, fmt.Errorf("%w: %s", domain.ErrMalformedEvent, event.EventID())
	}

	row, err := s.buildEventRow(event)
	if err != nil {
		return false, err
	}

	switch event.EventType {
	case domain.EventTypeTransfer:
		return s.store.ApplyBalanceEvent(ctx, store.ApplyBalanceEventInput{
			Event: row,
			Deltas: []store.BalanceDelta{
				{Key: balanceKey(event, *event.FromAddress), Amount: event.Amount.Negated()},
				{Key: balanceKey(event, *event.ToAddress), Amount: event.Amount.Copy()},
			},
		})

	case domain.EventTypeMint:
		return s.store.ApplyBalanceEvent(ctx, store.ApplyBalanceEventInput{
			Event: row,
			Deltas: []store.BalanceDelta{
				{Key: balanceKey(event, *event.ToAddress), Amount: event.Amount.Copy()},
			},
		})

	case domain.EventTypeBurn:
		input := store.ApplyBalanceEventInput{
			Event: row,
			Deltas: []store.BalanceDelta{
				{Key: balanceKey(event, *event.FromAddress), Amount: event.Amount.Negated()},
			},
		}
		// A burn of a custody-tracked token clears its ownership record
		if event.TokenNumber != nil && *event.TokenNumber != "" {
			input.ClearOwnership = &domain.OwnershipKey{
				Chain:        event.Chain,
				TokenAddress: event.TokenAddress,
				TokenNumber:  *event.TokenNumber,
			}
		}
		return s.store.ApplyBalanceEvent(ctx, input)

	case domain.EventTypeOwnershipChange:
		key := domain.OwnershipKey{
			Chain:        event.Chain,
			TokenAddress: event.TokenAddress,
			TokenNumber:  *event.TokenNumber,
		}
		return s.store.ApplyOwnershipSnapshot(ctx, row, key, domain.NormalizeAddress(*event.Owner), event.BlockNumber)

	default:
		return false, fmt.Errorf("unsupported event type for balance ledger: %s", event.EventType)
	}
}

// buildEventRow converts a normalized event into its immutable storage row,
// keeping the full payload alongside the indexed columns
func (s *service) buildEventRow(event *domain.LedgerEvent) (*schema.LedgerEvent, error) {
	raw, err := s.json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	row := &schema.LedgerEvent{
		EventID:      event.EventID(),
		Chain:        event.Chain,
		TokenAddress: event.TokenAddress,
		EventType:    event.EventType,
		FromAddress:  normalizedPtr(event.FromAddress),
		ToAddress:    normalizedPtr(event.ToAddress),
		Amount:       event.Amount,
		TxHash:       event.TxHash,
		BlockNumber:  event.BlockNumber,
		LogIndex:     event.LogIndex,
		Timestamp:    event.Timestamp,
		Raw:          datatypes.JSON(raw),
	}

	// The account column carries the event's subject: the ownership subject
	// for custody snapshots, the stream account otherwise
	if event.EventType == domain.EventTypeOwnershipChange {
		row.Account = normalizedPtr(event.Owner)
	} else {
		row.Account = normalizedPtr(event.Account)
	}

	return row, nil
}

func balanceKey(event *domain.LedgerEvent, account string) domain.BalanceKey {
	return domain.BalanceKey{
		Chain:        event.Chain,
		TokenAddress: event.TokenAddress,
		Account:      domain.NormalizeAddress(account),
	}
}

func normalizedPtr(address *string) *string {
	if address == nil || *address == "" {
		return address
	}
	normalized := domain.NormalizeAddress(*address)
	return &normalized
}
