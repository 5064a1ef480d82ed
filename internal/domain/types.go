package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainledger/ledger-indexer/internal/types"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
	ChainPolygonMainnet  Chain = "eip155:137"
	ChainTezosMainnet    Chain = "tezos:mainnet"
	ChainTezosGhostnet   Chain = "tezos:ghostnet"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	switch chain {
	case ChainEthereumMainnet, ChainEthereumSepolia, ChainPolygonMainnet,
		ChainTezosMainnet, ChainTezosGhostnet:
		return true
	}
	return false
}

// EventType represents the type of normalized ledger event.
// The set is closed: every consumer must switch over all values and treat
// anything else as malformed.
type EventType string

const (
	EventTypeTransfer            EventType = "transfer"
	EventTypeMint                EventType = "mint"
	EventTypeBurn                EventType = "burn"
	EventTypeStreamFlowUpdate    EventType = "stream_flow_update"
	EventTypeStreamFlowExtension EventType = "stream_flow_extension"
	EventTypeOwnershipChange     EventType = "ownership_change"
)

// LedgerEvent represents a normalized ledger event as published by the
// chain-specific event emitters. It is the standard format consumed from NATS.
type LedgerEvent struct {
	Chain        Chain         `json:"chain"`                   // e.g., "eip155:1", "tezos:mainnet"
	TokenAddress string        `json:"token_address"`           // token contract address
	EventType    EventType     `json:"event_type"`              // transfer, mint, burn, stream_flow_update, stream_flow_extension, ownership_change
	FromAddress  *string       `json:"from_address,omitempty"`  // sender address (empty for mint)
	ToAddress    *string       `json:"to_address,omitempty"`    // recipient address (empty for burn)
	Account      *string       `json:"account,omitempty"`       // stream account or ownership subject
	Owner        *string       `json:"owner,omitempty"`         // new owner (ownership_change only)
	TokenNumber  *string       `json:"token_number,omitempty"`  // token number for ownership records
	Amount       *types.BigInt `json:"amount,omitempty"`        // transfer/mint/burn amount
	FlowRate     *types.BigInt `json:"flow_rate,omitempty"`     // signed flow rate delta (stream_flow_update)
	Deposit      *types.BigInt `json:"deposit,omitempty"`       // replacement deposit (stream_flow_extension)
	StreamID     *string       `json:"stream_id,omitempty"`     // stream identifier
	TxHash       string        `json:"tx_hash"`                 // transaction hash
	BlockNumber  uint64        `json:"block_number"`            // block height
	LogIndex     uint64        `json:"log_index"`               // intra-block ordering index
	Timestamp    time.Time     `json:"timestamp"`               // block timestamp
}

// EventID derives the globally unique event identifier from the transaction
// hash and the intra-block index.
func (e *LedgerEvent) EventID() string {
	return fmt.Sprintf("%s:%d", e.TxHash, e.LogIndex)
}

// Valid checks structural validity of the event. Malformed events are dropped
// at the ingestion boundary and never written.
func (e *LedgerEvent) Valid() bool {
	if !IsValidChain(e.Chain) || e.TokenAddress == "" || e.TxHash == "" {
		return false
	}

	switch e.EventType {
	case EventTypeTransfer:
		if e.Amount == nil || e.Amount.Sign() <= 0 {
			return false
		}
		if !validAddress(e.FromAddress) || !validAddress(e.ToAddress) {
			return false
		}
	case EventTypeMint:
		if e.Amount == nil || e.Amount.Sign() <= 0 {
			return false
		}
		if !validAddress(e.ToAddress) {
			return false
		}
		// A mint may carry the zero address as sender; anything else is malformed
		if e.FromAddress != nil && *e.FromAddress != "" && *e.FromAddress != ZeroAddress {
			return false
		}
	case EventTypeBurn:
		if e.Amount == nil || e.Amount.Sign() <= 0 {
			return false
		}
		if !validAddress(e.FromAddress) {
			return false
		}
		if e.ToAddress != nil && *e.ToAddress != "" && *e.ToAddress != ZeroAddress {
			return false
		}
	case EventTypeStreamFlowUpdate:
		// Flow rate deltas are signed; zero is valid (checkpoint without change)
		if e.FlowRate == nil || e.StreamID == nil || *e.StreamID == "" {
			return false
		}
		if !validAddress(e.Account) {
			return false
		}
	case EventTypeStreamFlowExtension:
		if e.Deposit == nil || e.Deposit.Sign() < 0 {
			return false
		}
		if e.StreamID == nil || *e.StreamID == "" || !validAddress(e.Account) {
			return false
		}
	case EventTypeOwnershipChange:
		if e.TokenNumber == nil || *e.TokenNumber == "" {
			return false
		}
		if !validAddress(e.Owner) {
			return false
		}
	default:
		return false
	}

	return true
}

// BalanceKey identifies a current-balance record
type BalanceKey struct {
	Chain        Chain
	TokenAddress string
	Account      string
}

// StreamKey identifies a stream-balance record
type StreamKey struct {
	Chain    Chain
	StreamID string
	Account  string
}

// OwnershipKey identifies a snapshot-mode ownership record
type OwnershipKey struct {
	Chain        Chain
	TokenAddress string
	TokenNumber  string
}

// Attestation is the off-chain record returned by the attestation lookup
// collaborator for a given transaction hash.
type Attestation struct {
	PayerAddress  string    `json:"payer_address"`
	ProviderID    string    `json:"provider_id"`
	PaymentMethod string    `json:"payment_method"`
	ReferenceHash string    `json:"reference_hash"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AddressToChainFamily reports whether an address is EVM-shaped
func AddressToChainFamily(address string) string {
	if strings.HasPrefix(address, "0x") {
		return "evm"
	}
	return "tezos"
}

// NormalizeAddresses normalizes a list of addresses to the format used by the blockchain
func NormalizeAddresses(addresses []string) []string {
	for i, address := range addresses {
		addresses[i] = NormalizeAddress(address)
	}
	return addresses
}

// NormalizeAddress normalizes an address to the format used by the blockchain
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).String()
	}
	return address
}

func validAddress(address *string) bool {
	if address == nil || *address == "" || *address == ZeroAddress {
		return false
	}
	if strings.HasPrefix(*address, "0x") {
		return types.IsEthereumAddress(*address)
	}
	return types.IsTezosAddress(*address)
}
