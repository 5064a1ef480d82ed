package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/types"
)

const (
	evmToken = "0x1111111111111111111111111111111111111111"
	evmFrom  = "0x2222222222222222222222222222222222222222"
	evmTo    = "0x3333333333333333333333333333333333333333"
)

func strPtr(s string) *string {
	return &s
}

func baseTransfer() domain.LedgerEvent {
	return domain.LedgerEvent{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: evmToken,
		EventType:    domain.EventTypeTransfer,
		FromAddress:  strPtr(evmFrom),
		ToAddress:    strPtr(evmTo),
		Amount:       types.NewBigInt(1),
		TxHash:       "0xabc",
		BlockNumber:  1,
		LogIndex:     0,
	}
}

func TestEventID(t *testing.T) {
	event := baseTransfer()
	event.TxHash = "0xdeadbeef"
	event.LogIndex = 17
	assert.Equal(t, "0xdeadbeef:17", event.EventID())
}

func TestIsValidChain(t *testing.T) {
	assert.True(t, domain.IsValidChain(domain.ChainEthereumMainnet))
	assert.True(t, domain.IsValidChain(domain.ChainTezosMainnet))
	assert.True(t, domain.IsValidChain(domain.ChainPolygonMainnet))
	assert.False(t, domain.IsValidChain(domain.Chain("eip155:56")))
	assert.False(t, domain.IsValidChain(domain.Chain("")))
}

func TestValid_Transfer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *domain.LedgerEvent)
		want   bool
	}{
		{"well formed", func(e *domain.LedgerEvent) {}, true},
		{"zero amount", func(e *domain.LedgerEvent) { e.Amount = types.NewBigInt(0) }, false},
		{"negative amount", func(e *domain.LedgerEvent) { e.Amount = types.NewBigInt(-1) }, false},
		{"nil amount", func(e *domain.LedgerEvent) { e.Amount = nil }, false},
		{"no sender", func(e *domain.LedgerEvent) { e.FromAddress = nil }, false},
		{"no recipient", func(e *domain.LedgerEvent) { e.ToAddress = nil }, false},
		{"zero-address sender", func(e *domain.LedgerEvent) { e.FromAddress = strPtr(domain.ZeroAddress) }, false},
		{"bad hex address", func(e *domain.LedgerEvent) { e.FromAddress = strPtr("0xnothex") }, false},
		{"no tx hash", func(e *domain.LedgerEvent) { e.TxHash = "" }, false},
		{"no token address", func(e *domain.LedgerEvent) { e.TokenAddress = "" }, false},
		{"unknown chain", func(e *domain.LedgerEvent) { e.Chain = domain.Chain("eip155:56") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := baseTransfer()
			tt.mutate(&event)
			assert.Equal(t, tt.want, event.Valid())
		})
	}
}

func TestValid_Mint(t *testing.T) {
	event := baseTransfer()
	event.EventType = domain.EventTypeMint
	event.FromAddress = nil
	assert.True(t, event.Valid())

	// The zero address is an acceptable mint sender
	event.FromAddress = strPtr(domain.ZeroAddress)
	assert.True(t, event.Valid())

	// A real sender address on a mint is malformed
	event.FromAddress = strPtr(evmFrom)
	assert.False(t, event.Valid())

	event.FromAddress = nil
	event.ToAddress = nil
	assert.False(t, event.Valid())
}

func TestValid_Burn(t *testing.T) {
	event := baseTransfer()
	event.EventType = domain.EventTypeBurn
	event.ToAddress = nil
	assert.True(t, event.Valid())

	event.ToAddress = strPtr(domain.ZeroAddress)
	assert.True(t, event.Valid())

	event.ToAddress = strPtr(evmTo)
	assert.False(t, event.Valid())

	event.ToAddress = nil
	event.FromAddress = nil
	assert.False(t, event.Valid())
}

func TestValid_StreamFlowUpdate(t *testing.T) {
	event := domain.LedgerEvent{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: evmToken,
		EventType:    domain.EventTypeStreamFlowUpdate,
		Account:      strPtr(evmFrom),
		StreamID:     strPtr("stream-1"),
		FlowRate:     types.NewBigInt(-5),
		TxHash:       "0xflow",
	}
	// Signed flow rates are valid, including negative and zero
	assert.True(t, event.Valid())

	event.FlowRate = types.NewBigInt(0)
	assert.True(t, event.Valid())

	event.FlowRate = nil
	assert.False(t, event.Valid())

	event.FlowRate = types.NewBigInt(1)
	event.StreamID = strPtr("")
	assert.False(t, event.Valid())

	event.StreamID = strPtr("stream-1")
	event.Account = nil
	assert.False(t, event.Valid())
}

func TestValid_StreamFlowExtension(t *testing.T) {
	event := domain.LedgerEvent{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: evmToken,
		EventType:    domain.EventTypeStreamFlowExtension,
		Account:      strPtr(evmFrom),
		StreamID:     strPtr("stream-1"),
		Deposit:      types.NewBigInt(100),
		TxHash:       "0xext",
	}
	assert.True(t, event.Valid())

	// A zero deposit closes out the collateral and is valid
	event.Deposit = types.NewBigInt(0)
	assert.True(t, event.Valid())

	event.Deposit = types.NewBigInt(-1)
	assert.False(t, event.Valid())

	event.Deposit = nil
	assert.False(t, event.Valid())
}

func TestValid_OwnershipChange(t *testing.T) {
	event := domain.LedgerEvent{
		Chain:        domain.ChainTezosMainnet,
		TokenAddress: "KT1abcdef",
		EventType:    domain.EventTypeOwnershipChange,
		Owner:        strPtr("tz1owner"),
		TokenNumber:  strPtr("7"),
		TxHash:       "op123",
	}
	assert.True(t, event.Valid())

	event.TokenNumber = strPtr("")
	assert.False(t, event.Valid())

	event.TokenNumber = strPtr("7")
	event.Owner = nil
	assert.False(t, event.Valid())
}

func TestValid_UnknownEventType(t *testing.T) {
	event := baseTransfer()
	event.EventType = domain.EventType("airdrop")
	assert.False(t, event.Valid())

	event.EventType = domain.EventType("")
	assert.False(t, event.Valid())
}

func TestNormalizeAddress(t *testing.T) {
	// EVM addresses are checksummed
	assert.Equal(t,
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		domain.NormalizeAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"),
	)

	// Tezos addresses pass through untouched
	assert.Equal(t, "tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb", domain.NormalizeAddress("tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb"))
	assert.Equal(t, "KT1abcdef", domain.NormalizeAddress("KT1abcdef"))
}

func TestAddressToChainFamily(t *testing.T) {
	assert.Equal(t, "evm", domain.AddressToChainFamily(evmFrom))
	assert.Equal(t, "tezos", domain.AddressToChainFamily("tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb"))
}
