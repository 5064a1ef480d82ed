package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chainledger/ledger-indexer/internal/domain"
	"github.com/chainledger/ledger-indexer/internal/store/schema"
	"github.com/chainledger/ledger-indexer/internal/types"
)

var (
	testDB      *gorm.DB
	testStore   Store
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	var dsn string
	var err error

	if dbHost != "" {
		// Use external database
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	// Connect to the database
	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Initialize the database schema
	if err := AutoMigrate(testDB); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	testStore = NewPGStore(testDB)

	// Run tests
	code := m.Run()

	// Cleanup
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

func eventRow(eventID string, chain domain.Chain, token string, blockNumber, logIndex uint64, timestamp time.Time) *schema.LedgerEvent {
	return &schema.LedgerEvent{
		EventID:      eventID,
		Chain:        chain,
		TokenAddress: token,
		EventType:    domain.EventTypeTransfer,
		TxHash:       eventID,
		BlockNumber:  blockNumber,
		LogIndex:     logIndex,
		Timestamp:    timestamp,
		Raw:          datatypes.JSON(`{}`),
	}
}

func balanceKeyFor(token, account string) domain.BalanceKey {
	return domain.BalanceKey{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: token,
		Account:      account,
	}
}

func TestApplyBalanceEvent_SignedDeltas(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-signed"
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// A transfer of 60 with no prior balances leaves the sender at -60; the
	// merge never rejects negative results
	applied, err := testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{
		Event: eventRow("signed:0", domain.ChainEthereumMainnet, token, 1, 0, ts),
		Deltas: []BalanceDelta{
			{Key: balanceKeyFor(token, "0xalice"), Amount: types.NewBigInt(-60)},
			{Key: balanceKeyFor(token, "0xbob"), Amount: types.NewBigInt(60)},
		},
	})
	require.NoError(t, err)
	assert.True(t, applied)

	alice, err := testStore.GetBalance(ctx, balanceKeyFor(token, "0xalice"))
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, "-60", alice.Amount.String())

	bob, err := testStore.GetBalance(ctx, balanceKeyFor(token, "0xbob"))
	require.NoError(t, err)
	require.NotNil(t, bob)
	assert.Equal(t, "60", bob.Amount.String())
}

func TestApplyBalanceEvent_DeltaOrderIrrelevant(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	deltas := []int64{50, -30, 80, -100, 10}

	// The same multiset of signed deltas must converge to the same sum no
	// matter the delivery order; each order runs against its own token so the
	// two histories cannot see each other
	apply := func(token string, order []int) {
		for i, idx := range order {
			applied, err := testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{
				Event: eventRow(fmt.Sprintf("%s:%d", token, idx), domain.ChainEthereumMainnet, token, uint64(i+1), 0, ts.Add(time.Duration(i)*time.Minute)),
				Deltas: []BalanceDelta{
					{Key: balanceKeyFor(token, "0xerin"), Amount: types.NewBigInt(deltas[idx])},
				},
			})
			require.NoError(t, err)
			assert.True(t, applied)
		}
	}

	apply("0xtoken-order-a", []int{0, 1, 2, 3, 4})
	apply("0xtoken-order-b", []int{4, 2, 0, 3, 1})

	forward, err := testStore.GetBalance(ctx, balanceKeyFor("0xtoken-order-a", "0xerin"))
	require.NoError(t, err)
	require.NotNil(t, forward)

	shuffled, err := testStore.GetBalance(ctx, balanceKeyFor("0xtoken-order-b", "0xerin"))
	require.NoError(t, err)
	require.NotNil(t, shuffled)

	assert.Equal(t, "10", forward.Amount.String())
	assert.Equal(t, forward.Amount.String(), shuffled.Amount.String())
}

func TestApplyBalanceEvent_DuplicateEventIgnored(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-dup"
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	input := func() ApplyBalanceEventInput {
		return ApplyBalanceEventInput{
			Event: eventRow("dup:0", domain.ChainEthereumMainnet, token, 1, 0, ts),
			Deltas: []BalanceDelta{
				{Key: balanceKeyFor(token, "0xcarol"), Amount: types.NewBigInt(100)},
			},
		}
	}

	applied, err := testStore.ApplyBalanceEvent(ctx, input())
	require.NoError(t, err)
	assert.True(t, applied)

	// Redelivery of the same event id merges nothing
	applied, err = testStore.ApplyBalanceEvent(ctx, input())
	require.NoError(t, err)
	assert.False(t, applied)

	balance, err := testStore.GetBalance(ctx, balanceKeyFor(token, "0xcarol"))
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, "100", balance.Amount.String())
}

func TestApplyBalanceEvent_ZeroBalancePruned(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-prune"
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	applied, err := testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{
		Event: eventRow("prune:0", domain.ChainEthereumMainnet, token, 1, 0, ts),
		Deltas: []BalanceDelta{
			{Key: balanceKeyFor(token, "0xdave"), Amount: types.NewBigInt(100)},
		},
	})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{
		Event: eventRow("prune:1", domain.ChainEthereumMainnet, token, 2, 0, ts.Add(time.Minute)),
		Deltas: []BalanceDelta{
			{Key: balanceKeyFor(token, "0xdave"), Amount: types.NewBigInt(-100)},
		},
	})
	require.NoError(t, err)
	assert.True(t, applied)

	// The row that settled at exactly zero is gone, not stored as zero
	balance, err := testStore.GetBalance(ctx, balanceKeyFor(token, "0xdave"))
	require.NoError(t, err)
	assert.Nil(t, balance)
}

func TestApplyBalanceEvent_BurnClearsOwnership(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-burn"
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	key := domain.OwnershipKey{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: token,
		TokenNumber:  "7",
	}

	applied, err := testStore.ApplyOwnershipSnapshot(ctx,
		eventRow("burnown:0", domain.ChainEthereumMainnet, token, 5, 0, ts),
		key, "0xowner", 5)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{
		Event: eventRow("burnown:1", domain.ChainEthereumMainnet, token, 6, 0, ts.Add(time.Minute)),
		Deltas: []BalanceDelta{
			{Key: balanceKeyFor(token, "0xowner"), Amount: types.NewBigInt(-1)},
		},
		ClearOwnership: &key,
	})
	require.NoError(t, err)
	assert.True(t, applied)

	ownership, err := testStore.GetOwnership(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, ownership)
}

func TestApplyOwnershipSnapshot_LastWriterWinsByHeight(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-lww"
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	key := domain.OwnershipKey{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: token,
		TokenNumber:  "1",
	}

	applied, err := testStore.ApplyOwnershipSnapshot(ctx,
		eventRow("lww:0", domain.ChainEthereumMainnet, token, 10, 0, ts),
		key, "0xnewer", 10)
	require.NoError(t, err)
	assert.True(t, applied)

	// An out-of-order snapshot from a lower height is a no-op
	applied, err = testStore.ApplyOwnershipSnapshot(ctx,
		eventRow("lww:1", domain.ChainEthereumMainnet, token, 5, 0, ts),
		key, "0xstale", 5)
	require.NoError(t, err)
	assert.False(t, applied)

	ownership, err := testStore.GetOwnership(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, ownership)
	assert.Equal(t, "0xnewer", ownership.Owner)
	assert.Equal(t, uint64(10), ownership.Height)

	// Delivery in ascending order converges on the same state
	key2 := key
	key2.TokenNumber = "2"
	_, err = testStore.ApplyOwnershipSnapshot(ctx,
		eventRow("lww:2", domain.ChainEthereumMainnet, token, 5, 0, ts),
		key2, "0xstale", 5)
	require.NoError(t, err)
	applied, err = testStore.ApplyOwnershipSnapshot(ctx,
		eventRow("lww:3", domain.ChainEthereumMainnet, token, 10, 0, ts),
		key2, "0xnewer", 10)
	require.NoError(t, err)
	assert.True(t, applied)

	ownership, err = testStore.GetOwnership(ctx, key2)
	require.NoError(t, err)
	require.NotNil(t, ownership)
	assert.Equal(t, "0xnewer", ownership.Owner)
}

func TestApplyStreamFlowUpdate_AccumulatesAndPrunes(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-stream"
	key := domain.StreamKey{
		Chain:    domain.ChainEthereumMainnet,
		StreamID: "stream-acc",
		Account:  "0xeve",
	}
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	applied, err := testStore.ApplyStreamFlowUpdate(ctx,
		eventRow("stream:0", domain.ChainEthereumMainnet, token, 1, 0, t0),
		key, types.NewBigInt(300), types.NewBigInt(5), t0)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = testStore.ApplyStreamFlowUpdate(ctx,
		eventRow("stream:1", domain.ChainEthereumMainnet, token, 2, 0, t1),
		key, types.NewBigInt(-100), types.NewBigInt(-2), t1)
	require.NoError(t, err)
	assert.True(t, applied)

	record, err := testStore.GetStreamBalance(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "200", record.StaticBalance.String())
	assert.Equal(t, "3", record.FlowRate.String())
	assert.True(t, record.LastUpdateAt.Equal(t1))

	// Winding the stream fully down removes the record
	applied, err = testStore.ApplyStreamFlowUpdate(ctx,
		eventRow("stream:2", domain.ChainEthereumMainnet, token, 3, 0, t1.Add(time.Minute)),
		key, types.NewBigInt(-200), types.NewBigInt(-3), t1.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, applied)

	record, err = testStore.GetStreamBalance(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestApplyStreamDepositReplace(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-deposit"
	key := domain.StreamKey{
		Chain:    domain.ChainEthereumMainnet,
		StreamID: "stream-dep",
		Account:  "0xfrank",
	}
	t0 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	_, err := testStore.ApplyStreamFlowUpdate(ctx,
		eventRow("dep:0", domain.ChainEthereumMainnet, token, 1, 0, t0),
		key, types.NewBigInt(1000), types.NewBigInt(5), t0)
	require.NoError(t, err)

	applied, err := testStore.ApplyStreamDepositReplace(ctx,
		eventRow("dep:1", domain.ChainEthereumMainnet, token, 2, 0, t1),
		key, types.NewBigInt(400), t1)
	require.NoError(t, err)
	assert.True(t, applied)

	record, err := testStore.GetStreamBalance(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "400", record.Deposit.String())
	// Replacing the deposit is not a flow change: the accrual checkpoint and
	// the accumulated state stay put
	assert.True(t, record.LastUpdateAt.Equal(t0))
	assert.Equal(t, "1000", record.StaticBalance.String())
	assert.Equal(t, "5", record.FlowRate.String())

	// A replacement always wins, including a smaller deposit
	applied, err = testStore.ApplyStreamDepositReplace(ctx,
		eventRow("dep:2", domain.ChainEthereumMainnet, token, 3, 0, t1.Add(time.Minute)),
		key, types.NewBigInt(150), t1.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, applied)

	record, err = testStore.GetStreamBalance(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "150", record.Deposit.String())
}

func TestListLedgerEvents_OrderingAndWindow(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-list"
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Two events share a timestamp; the intra-block index breaks the tie
	rows := []*schema.LedgerEvent{
		eventRow("list:2", domain.ChainEthereumMainnet, token, 11, 2, base.Add(time.Minute)),
		eventRow("list:1", domain.ChainEthereumMainnet, token, 11, 1, base.Add(time.Minute)),
		eventRow("list:0", domain.ChainEthereumMainnet, token, 10, 0, base),
		eventRow("list:3", domain.ChainEthereumMainnet, token, 12, 0, base.Add(2*time.Minute)),
	}
	for _, row := range rows {
		_, err := testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{Event: row})
		require.NoError(t, err)
	}

	filter := EventFilter{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: token,
	}

	events, err := testStore.ListLedgerEvents(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "list:0", events[0].EventID)
	assert.Equal(t, "list:1", events[1].EventID)
	assert.Equal(t, "list:2", events[2].EventID)
	assert.Equal(t, "list:3", events[3].EventID)

	// Reverse flips the full ordering including the tie-breaker
	reversed := filter
	reversed.Reverse = true
	events, err = testStore.ListLedgerEvents(ctx, reversed)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "list:3", events[0].EventID)
	assert.Equal(t, "list:2", events[1].EventID)

	// Limit and skip page through the same ordering
	paged := filter
	paged.Limit = 2
	paged.Offset = 1
	events, err = testStore.ListLedgerEvents(ctx, paged)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "list:1", events[0].EventID)
	assert.Equal(t, "list:2", events[1].EventID)

	// Time window is inclusive at the start, exclusive at the end
	from := base.Add(time.Minute)
	to := base.Add(2 * time.Minute)
	windowed := filter
	windowed.FromTime = &from
	windowed.ToTime = &to
	events, err = testStore.ListLedgerEvents(ctx, windowed)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "list:1", events[0].EventID)
	assert.Equal(t, "list:2", events[1].EventID)

	// Height window behaves the same way
	fromHeight := uint64(11)
	toHeight := uint64(12)
	heights := filter
	heights.FromHeight = &fromHeight
	heights.ToHeight = &toHeight
	events, err = testStore.ListLedgerEvents(ctx, heights)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestEnrichLedgerEvent(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-enrich"
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{
		Event: eventRow("enrich:0", domain.ChainEthereumMainnet, token, 1, 0, ts),
	})
	require.NoError(t, err)

	provider := "provider-a"
	method := "card"
	reference := "ref-1"
	err = testStore.EnrichLedgerEvent(ctx, "enrich:0", EventEnrichment{
		OriginAddress: "0xpayer",
		ProviderID:    &provider,
		PaymentMethod: &method,
		ReferenceHash: &reference,
		UpdatedAt:     ts.Add(time.Hour),
	})
	require.NoError(t, err)

	event, err := testStore.GetLedgerEvent(ctx, "enrich:0")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.True(t, event.Resolved())
	assert.Equal(t, "0xpayer", *event.OriginAddress)
	assert.Equal(t, "provider-a", *event.ProviderID)

	// An origin-only enrichment must not require provider metadata
	_, err = testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{
		Event: eventRow("enrich:1", domain.ChainEthereumMainnet, token, 2, 0, ts),
	})
	require.NoError(t, err)
	err = testStore.EnrichLedgerEvent(ctx, "enrich:1", EventEnrichment{
		OriginAddress: "0xsender",
		UpdatedAt:     ts,
	})
	require.NoError(t, err)

	event, err = testStore.GetLedgerEvent(ctx, "enrich:1")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.True(t, event.Resolved())
	assert.Nil(t, event.ProviderID)

	// Unknown events fail loudly instead of silently updating nothing
	err = testStore.EnrichLedgerEvent(ctx, "enrich:missing", EventEnrichment{
		OriginAddress: "0xpayer",
		UpdatedAt:     ts,
	})
	assert.Error(t, err)

	// Empty origin never clears the completion predicate
	err = testStore.EnrichLedgerEvent(ctx, "enrich:0", EventEnrichment{UpdatedAt: ts})
	assert.Error(t, err)
}

func TestEnqueuePendingReconciliation_ConflictReplace(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-queue"
	t0 := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	item := func(ts time.Time, payload string) *schema.PendingReconciliation {
		return &schema.PendingReconciliation{
			EventID:        "queue:0",
			Chain:          domain.ChainEthereumMainnet,
			TokenAddress:   token,
			EventTimestamp: ts,
			EnqueuedAt:     t0,
			Payload:        datatypes.JSON(payload),
		}
	}

	require.NoError(t, testStore.EnqueuePendingReconciliation(ctx, item(t0.Add(time.Minute), `{"v":1}`)))

	// An earlier-timestamped duplicate never rolls the payload back
	require.NoError(t, testStore.EnqueuePendingReconciliation(ctx, item(t0, `{"v":0}`)))

	items, err := testStore.GetPendingReconciliations(ctx, 0)
	require.NoError(t, err)
	found := findPending(items, "queue:0")
	require.NotNil(t, found)
	assert.JSONEq(t, `{"v":1}`, string(found.Payload))

	// A later-timestamped duplicate replaces the payload in place
	require.NoError(t, testStore.EnqueuePendingReconciliation(ctx, item(t0.Add(2*time.Minute), `{"v":2}`)))

	items, err = testStore.GetPendingReconciliations(ctx, 0)
	require.NoError(t, err)
	found = findPending(items, "queue:0")
	require.NotNil(t, found)
	assert.JSONEq(t, `{"v":2}`, string(found.Payload))

	require.NoError(t, testStore.DeletePendingReconciliation(ctx, "queue:0"))
}

func TestPendingReconciliations_OrderCountDelete(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-fifo"
	base := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
		item := &schema.PendingReconciliation{
			EventID:        fmt.Sprintf("fifo:%d", i),
			Chain:          domain.ChainEthereumMainnet,
			TokenAddress:   token,
			EventTimestamp: base,
			EnqueuedAt:     base.Add(offset),
			Payload:        datatypes.JSON(`{}`),
		}
		require.NoError(t, testStore.EnqueuePendingReconciliation(ctx, item))
	}

	count, err := testStore.CountPendingReconciliations(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(3))

	// Oldest enqueued first
	items, err := testStore.ListPendingReconciliations(ctx, PendingFilter{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: token,
	})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "fifo:1", items[0].EventID)
	assert.Equal(t, "fifo:2", items[1].EventID)
	assert.Equal(t, "fifo:0", items[2].EventID)

	for i := range 3 {
		require.NoError(t, testStore.DeletePendingReconciliation(ctx, fmt.Sprintf("fifo:%d", i)))
	}

	items, err = testStore.ListPendingReconciliations(ctx, PendingFilter{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: token,
	})
	require.NoError(t, err)
	assert.Empty(t, items)

	// Deleting an already removed item is a no-op
	require.NoError(t, testStore.DeletePendingReconciliation(ctx, "fifo:0"))
}

func TestListBalances_Ordering(t *testing.T) {
	ctx := context.Background()
	token := "0xtoken-order"
	ts := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	amounts := map[string]int64{
		"0xccc": 10,
		"0xaaa": 30,
		"0xbbb": 20,
	}
	i := 0
	for account, amount := range amounts {
		_, err := testStore.ApplyBalanceEvent(ctx, ApplyBalanceEventInput{
			Event: eventRow(fmt.Sprintf("order:%d", i), domain.ChainEthereumMainnet, token, uint64(i+1), 0, ts),
			Deltas: []BalanceDelta{
				{Key: balanceKeyFor(token, account), Amount: types.NewBigInt(amount)},
			},
		})
		require.NoError(t, err)
		i++
	}

	balances, err := testStore.ListBalances(ctx, BalanceFilter{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: token,
		Order:        BalanceOrderAccount,
	})
	require.NoError(t, err)
	require.Len(t, balances, 3)
	assert.Equal(t, "0xaaa", balances[0].Account)
	assert.Equal(t, "0xbbb", balances[1].Account)
	assert.Equal(t, "0xccc", balances[2].Account)

	balances, err = testStore.ListBalances(ctx, BalanceFilter{
		Chain:        domain.ChainEthereumMainnet,
		TokenAddress: token,
		Order:        BalanceOrderAmount,
		ListOptions:  ListOptions{Reverse: true},
	})
	require.NoError(t, err)
	require.Len(t, balances, 3)
	assert.Equal(t, "30", balances[0].Amount.String())
	assert.Equal(t, "10", balances[2].Amount.String())
}

func TestBlockCursor(t *testing.T) {
	ctx := context.Background()

	// Unset cursor reads as zero
	cursor, err := testStore.GetBlockCursor(ctx, "eip155:137")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)

	require.NoError(t, testStore.SetBlockCursor(ctx, "eip155:137", 12345))

	cursor, err = testStore.GetBlockCursor(ctx, "eip155:137")
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), cursor)

	require.NoError(t, testStore.SetBlockCursor(ctx, "eip155:137", 12346))
	cursor, err = testStore.GetBlockCursor(ctx, "eip155:137")
	require.NoError(t, err)
	assert.Equal(t, uint64(12346), cursor)
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	maxOpen, maxIdle, lifetime, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 20, maxOpen)
	assert.Equal(t, 5, maxIdle)
	assert.Equal(t, 5*time.Minute, lifetime)
	assert.Equal(t, 10*time.Minute, idleTime)

	// Idle connections can never exceed open connections
	maxOpen, maxIdle, _, _ = NormalizeConnectionPoolSettings(3, 10, time.Minute, time.Minute)
	assert.Equal(t, 3, maxOpen)
	assert.Equal(t, 3, maxIdle)
}

func findPending(items []*schema.PendingReconciliation, eventID string) *schema.PendingReconciliation {
	for _, item := range items {
		if item.EventID == eventID {
			return item
		}
	}
	return nil
}
