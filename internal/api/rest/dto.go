package rest

import (
	"time"

	"github.com/chainledger/ledger-indexer/internal/store/schema"
	"github.com/chainledger/ledger-indexer/internal/stream"
	"github.com/chainledger/ledger-indexer/internal/types"
)

// BalanceDTO is the API representation of a current-balance record
type BalanceDTO struct {
	Chain         string        `json:"chain"`
	TokenAddress  string        `json:"token_address"`
	Account       string        `json:"account"`
	Amount        *types.BigInt `json:"amount"`
	LastHeight    uint64        `json:"last_height"`
	LastTimestamp time.Time     `json:"last_timestamp"`
}

// StreamBalanceDTO is the API representation of a derived stream balance
type StreamBalanceDTO struct {
	Chain         string        `json:"chain"`
	StreamID      string        `json:"stream_id"`
	Account       string        `json:"account"`
	StaticBalance *types.BigInt `json:"static_balance"`
	Deposit       *types.BigInt `json:"deposit"`
	FlowRate      *types.BigInt `json:"flow_rate"`
	RealTime      *types.BigInt `json:"real_time_balance"`
	LastUpdateAt  time.Time     `json:"last_update_at"`
	ComputedAt    time.Time     `json:"computed_at"`
}

// EventDTO is the API representation of a ledger event
type EventDTO struct {
	EventID       string        `json:"event_id"`
	Chain         string        `json:"chain"`
	TokenAddress  string        `json:"token_address"`
	EventType     string        `json:"event_type"`
	FromAddress   *string       `json:"from_address,omitempty"`
	ToAddress     *string       `json:"to_address,omitempty"`
	Account       *string       `json:"account,omitempty"`
	Amount        *types.BigInt `json:"amount,omitempty"`
	TxHash        string        `json:"tx_hash"`
	BlockNumber   uint64        `json:"block_number"`
	LogIndex      uint64        `json:"log_index"`
	Timestamp     time.Time     `json:"timestamp"`
	OriginAddress *string       `json:"origin_address,omitempty"`
	ProviderID    *string       `json:"provider_id,omitempty"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	ReferenceHash *string       `json:"reference_hash,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PendingReconciliationDTO is the API representation of a queue entry
type PendingReconciliationDTO struct {
	EventID        string    `json:"event_id"`
	Chain          string    `json:"chain"`
	TokenAddress   string    `json:"token_address"`
	EventTimestamp time.Time `json:"event_timestamp"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

// ListResponse is the standard envelope for listing endpoints
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func toBalanceDTO(b *schema.Balance) BalanceDTO {
	return BalanceDTO{
		Chain:         string(b.Chain),
		TokenAddress:  b.TokenAddress,
		Account:       b.Account,
		Amount:        b.Amount.Copy(),
		LastHeight:    b.LastHeight,
		LastTimestamp: b.LastTimestamp,
	}
}

func toStreamBalanceDTO(v *stream.BalanceView) StreamBalanceDTO {
	return StreamBalanceDTO{
		Chain:         string(v.Key.Chain),
		StreamID:      v.Key.StreamID,
		Account:       v.Key.Account,
		StaticBalance: v.StaticBalance,
		Deposit:       v.Deposit,
		FlowRate:      v.FlowRate,
		RealTime:      v.RealTime,
		LastUpdateAt:  v.LastUpdateAt,
		ComputedAt:    v.ComputedAt,
	}
}

func toEventDTO(e *schema.LedgerEvent) EventDTO {
	return EventDTO{
		EventID:       e.EventID,
		Chain:         string(e.Chain),
		TokenAddress:  e.TokenAddress,
		EventType:     string(e.EventType),
		FromAddress:   e.FromAddress,
		ToAddress:     e.ToAddress,
		Account:       e.Account,
		Amount:        e.Amount,
		TxHash:        e.TxHash,
		BlockNumber:   e.BlockNumber,
		LogIndex:      e.LogIndex,
		Timestamp:     e.Timestamp,
		OriginAddress: e.OriginAddress,
		ProviderID:    e.ProviderID,
		PaymentMethod: e.PaymentMethod,
		ReferenceHash: e.ReferenceHash,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toPendingDTO(p *schema.PendingReconciliation) PendingReconciliationDTO {
	return PendingReconciliationDTO{
		EventID:        p.EventID,
		Chain:          string(p.Chain),
		TokenAddress:   p.TokenAddress,
		EventTimestamp: p.EventTimestamp,
		EnqueuedAt:     p.EnqueuedAt,
	}
}
