package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/registry"
)

func TestIsIntermediary_CaseInsensitive(t *testing.T) {
	reg := registry.NewIntermediaryRegistry(registry.IntermediaryData{
		"eip155:1":      {"0xAbCd000000000000000000000000000000000001"},
		"tezos:mainnet": {"tz1Intermediary"},
	})

	assert.True(t, reg.IsIntermediary(domain.ChainEthereumMainnet, "0xabcd000000000000000000000000000000000001"))
	assert.True(t, reg.IsIntermediary(domain.ChainEthereumMainnet, "0xABCD000000000000000000000000000000000001"))
	assert.True(t, reg.IsIntermediary(domain.ChainTezosMainnet, "TZ1INTERMEDIARY"))

	// Same address on a different chain is not an intermediary
	assert.False(t, reg.IsIntermediary(domain.ChainPolygonMainnet, "0xabcd000000000000000000000000000000000001"))
	assert.False(t, reg.IsIntermediary(domain.ChainEthereumMainnet, "0xabcd000000000000000000000000000000000002"))
}

func TestIsIntermediary_EmptyRegistry(t *testing.T) {
	reg := registry.NewIntermediaryRegistry(nil)
	assert.False(t, reg.IsIntermediary(domain.ChainEthereumMainnet, "0xabcd000000000000000000000000000000000001"))
}

func TestLoadIntermediaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intermediaries.json")
	content := `{
		"eip155:1": ["0x1234000000000000000000000000000000000001", "0x1234000000000000000000000000000000000002"],
		"tezos:mainnet": ["KT1Escrow"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg, err := registry.LoadIntermediaries(path)
	require.NoError(t, err)

	assert.True(t, reg.IsIntermediary(domain.ChainEthereumMainnet, "0x1234000000000000000000000000000000000001"))
	assert.True(t, reg.IsIntermediary(domain.ChainEthereumMainnet, "0x1234000000000000000000000000000000000002"))
	assert.True(t, reg.IsIntermediary(domain.ChainTezosMainnet, "kt1escrow"))
	assert.False(t, reg.IsIntermediary(domain.ChainTezosMainnet, "KT1Other"))
}

func TestLoadIntermediaries_MissingFile(t *testing.T) {
	_, err := registry.LoadIntermediaries(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadIntermediaries_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not", "a", "map"]`), 0o600))

	_, err := registry.LoadIntermediaries(path)
	assert.Error(t, err)
}
