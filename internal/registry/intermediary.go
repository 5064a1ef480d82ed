package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/chainledger/ledger-indexer/internal/domain"
)

// IntermediaryRegistry answers whether an address is a recognized payment
// intermediary (custodial processor, marketplace escrow) whose transfers are
// expected to carry an off-chain attestation.
//
//go:generate mockgen -source=intermediary.go -destination=../mocks/intermediary_registry.go -package=mocks -mock_names=IntermediaryRegistry=MockIntermediaryRegistry
type IntermediaryRegistry interface {
	// IsIntermediary checks if an address is a recognized intermediary on a chain
	IsIntermediary(chain domain.Chain, address string) bool
}

// IntermediaryData represents the structure of the intermediaries.json file.
// Key format: "chain_id" -> list of addresses
type IntermediaryData map[string][]string

type intermediaryRegistry struct {
	// Fast lookup map: "chain:address" -> true
	addresses map[string]bool
}

// LoadIntermediaries loads the intermediary registry from a JSON file
func LoadIntermediaries(filePath string) (IntermediaryRegistry, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec,G304 // This should be a trusted file
	if err != nil {
		return nil, fmt.Errorf("failed to read intermediary file: %w", err)
	}

	var registryData IntermediaryData
	if err := json.Unmarshal(data, &registryData); err != nil {
		return nil, fmt.Errorf("failed to parse intermediary JSON: %w", err)
	}

	return NewIntermediaryRegistry(registryData), nil
}

// NewIntermediaryRegistry builds a registry from already-parsed data
func NewIntermediaryRegistry(data IntermediaryData) IntermediaryRegistry {
	r := &intermediaryRegistry{
		addresses: make(map[string]bool),
	}

	for chain, addresses := range data {
		normalizedChain := strings.ToLower(chain)
		for _, addr := range addresses {
			key := fmt.Sprintf("%s:%s", normalizedChain, strings.ToLower(addr))
			r.addresses[key] = true
		}
	}

	return r
}

// IsIntermediary checks if an address is a recognized intermediary on a chain
func (r *intermediaryRegistry) IsIntermediary(chain domain.Chain, address string) bool {
	if r == nil {
		return false
	}
	key := fmt.Sprintf("%s:%s", strings.ToLower(string(chain)), strings.ToLower(address))
	return r.addresses[key]
}
