package attestation_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainledger/ledger-indexer/internal/adapter"
	"github.com/chainledger/ledger-indexer/internal/attestation"
	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/logger"
	"github.com/chainledger/ledger-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func TestGetAttestation_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := attestation.NewClient("https://attestations.example.com", "secret-key", httpClient)

	httpClient.
		EXPECT().
		Get(gomock.Any(), "https://attestations.example.com/v1/attestations/0xabc", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headers map[string]string, result interface{}) error {
			assert.Equal(t, "secret-key", headers["X-API-KEY"])
			record := result.(*domain.Attestation)
			record.PayerAddress = "0x6666666666666666666666666666666666666666"
			record.ProviderID = "provider-a"
			record.PaymentMethod = "card"
			record.ReferenceHash = "ref-1"
			return nil
		})

	record, err := client.GetAttestation(context.Background(), "0xabc")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "provider-a", record.ProviderID)
	assert.Equal(t, "0x6666666666666666666666666666666666666666", record.PayerAddress)
}

func TestGetAttestation_NotFound_ReturnsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := attestation.NewClient("https://attestations.example.com", "", httpClient)

	httpClient.
		EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headers map[string]string, _ interface{}) error {
			// No key configured means no auth header
			_, present := headers["X-API-KEY"]
			assert.False(t, present)
			return adapter.ErrNotFound
		})

	record, err := client.GetAttestation(context.Background(), "0xmissing")
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestGetAttestation_TransientFailure_Propagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := attestation.NewClient("https://attestations.example.com", "secret-key", httpClient)

	httpClient.
		EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("upstream timeout"))

	record, err := client.GetAttestation(context.Background(), "0xabc")
	assert.Error(t, err)
	assert.Nil(t, record)
}

func TestGetAttestation_MissingPayer_Fails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := attestation.NewClient("https://attestations.example.com", "secret-key", httpClient)

	httpClient.
		EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	record, err := client.GetAttestation(context.Background(), "0xabc")
	assert.Error(t, err)
	assert.Nil(t, record)
}

func TestGetAttestation_HashEscapedInPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := attestation.NewClient("https://attestations.example.com", "secret-key", httpClient)

	httpClient.
		EXPECT().
		Get(gomock.Any(), "https://attestations.example.com/v1/attestations/op%2Fslash", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, result interface{}) error {
			result.(*domain.Attestation).PayerAddress = "tz1payer"
			return nil
		})

	record, err := client.GetAttestation(context.Background(), "op/slash")
	require.NoError(t, err)
	require.NotNil(t, record)
}
