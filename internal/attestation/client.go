package attestation

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/chainledger/ledger-indexer/internal/adapter"
	"github.com/chainledger/ledger-indexer/internal/domain"
)

// Client looks up off-chain payment attestations by transaction hash.
// The attestation source is eventually consistent: an absent record today may
// exist tomorrow, so absence is reported as (nil, nil), never as an error.
//
//go:generate mockgen -source=client.go -destination=../mocks/attestation.go -package=mocks -mock_names=Client=MockAttestationClient
type Client interface {
	// GetAttestation returns the attestation for a transaction hash, or nil
	// when the source has no record yet
	GetAttestation(ctx context.Context, txHash string) (*domain.Attestation, error)
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient adapter.HTTPClient
}

// NewClient creates a new attestation lookup client
func NewClient(baseURL, apiKey string, httpClient adapter.HTTPClient) Client {
	return &client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *client) GetAttestation(ctx context.Context, txHash string) (*domain.Attestation, error) {
	endpoint := fmt.Sprintf("%s/v1/attestations/%s", c.baseURL, url.PathEscape(txHash))

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-API-KEY"] = c.apiKey
	}

	var attestation domain.Attestation
	err := c.httpClient.Get(ctx, endpoint, headers, &attestation)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("attestation lookup failed for %s: %w", txHash, err)
	}

	if attestation.PayerAddress == "" {
		return nil, fmt.Errorf("attestation for %s has no payer address", txHash)
	}

	return &attestation, nil
}
