package reconciler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainledger/ledger-indexer/internal/metrics"
	"github.com/chainledger/ledger-indexer/internal/mocks"
	"github.com/chainledger/ledger-indexer/internal/reconciler"
	"github.com/chainledger/ledger-indexer/internal/store/schema"
)

type testReconcilerMocks struct {
	ctrl       *gomock.Controller
	store      *mocks.MockStore
	resolver   *mocks.MockResolver
	clock      *mocks.MockClock
	reconciler reconciler.Reconciler
}

func setupTestReconciler(t *testing.T, config *reconciler.Config) *testReconcilerMocks {
	ctrl := gomock.NewController(t)

	tm := &testReconcilerMocks{
		ctrl:     ctrl,
		store:    mocks.NewMockStore(ctrl),
		resolver: mocks.NewMockResolver(ctrl),
		clock:    mocks.NewMockClock(ctrl),
	}
	tm.reconciler = reconciler.NewReconciler(config, tm.store, tm.resolver, tm.clock, metrics.New(prometheus.NewRegistry()))

	return tm
}

func testConfig() *reconciler.Config {
	return &reconciler.Config{
		Interval:       time.Minute,
		ChunkSize:      10,
		MaxConcurrency: 1,
	}
}

func TestReconciler_Name(t *testing.T) {
	tm := setupTestReconciler(t, testConfig())
	defer tm.ctrl.Finish()

	assert.Equal(t, "reconciliation-driver", tm.reconciler.Name())
}

func TestReconciler_StopWithoutStart(t *testing.T) {
	tm := setupTestReconciler(t, testConfig())
	defer tm.ctrl.Finish()

	assert.NoError(t, tm.reconciler.Stop(context.Background()))
}

func TestReconciler_CycleResolvesAndRequeues(t *testing.T) {
	tm := setupTestReconciler(t, testConfig())
	defer tm.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tick := make(chan time.Time, 1)
	tick <- time.Now()
	tm.clock.EXPECT().After(time.Minute).Return((<-chan time.Time)(tick)).AnyTimes()
	tm.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Duration(0)).AnyTimes()

	items := []*schema.PendingReconciliation{
		{EventID: "0xa:0"},
		{EventID: "0xb:1"},
		{EventID: "0xc:2"},
	}
	tm.store.EXPECT().CountPendingReconciliations(gomock.Any()).Return(int64(3), nil)
	tm.store.EXPECT().GetPendingReconciliations(gomock.Any(), 10).Return(items, nil)

	var handled atomic.Int32
	done := make(chan struct{})
	handle := func(resolved bool, err error) func(context.Context, *schema.PendingReconciliation) (bool, error) {
		return func(context.Context, *schema.PendingReconciliation) (bool, error) {
			if handled.Add(1) == int32(len(items)) {
				close(done)
			}
			return resolved, err
		}
	}

	// One resolved, one held, one failed; the failures never stop the cycle
	tm.resolver.EXPECT().Resolve(gomock.Any(), items[0]).DoAndReturn(handle(true, nil))
	tm.resolver.EXPECT().Resolve(gomock.Any(), items[1]).DoAndReturn(handle(false, nil))
	tm.resolver.EXPECT().Resolve(gomock.Any(), items[2]).DoAndReturn(handle(false, errors.New("attestation source down")))

	go func() {
		_ = tm.reconciler.Start(ctx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cycle did not process all items")
	}

	require.NoError(t, tm.reconciler.Stop(context.Background()))
}

func TestReconciler_ItemRetriedAcrossCyclesUntilResolved(t *testing.T) {
	tm := setupTestReconciler(t, testConfig())
	defer tm.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tick := make(chan time.Time)
	tm.clock.EXPECT().After(time.Minute).Return((<-chan time.Time)(tick)).AnyTimes()
	tm.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Duration(0)).AnyTimes()

	item := &schema.PendingReconciliation{EventID: "0xheld:7"}

	// The attestation source is down for the first two cycles: the item stays
	// pending across them, resolves on the third, and never comes back
	var attempts atomic.Int32
	var emptyClosed atomic.Bool
	emptySeen := make(chan struct{})

	tm.store.
		EXPECT().
		CountPendingReconciliations(gomock.Any()).
		DoAndReturn(func(context.Context) (int64, error) {
			if attempts.Load() < 3 {
				return 1, nil
			}
			return 0, nil
		}).
		AnyTimes()
	tm.store.
		EXPECT().
		GetPendingReconciliations(gomock.Any(), 10).
		DoAndReturn(func(context.Context, int) ([]*schema.PendingReconciliation, error) {
			if attempts.Load() < 3 {
				return []*schema.PendingReconciliation{item}, nil
			}
			if emptyClosed.CompareAndSwap(false, true) {
				close(emptySeen)
			}
			return nil, nil
		}).
		AnyTimes()

	// Times(3) caps the resolutions: once the queue empties, the item must
	// never be handed to the resolver again
	tm.resolver.
		EXPECT().
		Resolve(gomock.Any(), item).
		DoAndReturn(func(context.Context, *schema.PendingReconciliation) (bool, error) {
			if attempts.Add(1) < 3 {
				return false, errors.New("attestation source down")
			}
			return true, nil
		}).
		Times(3)

	go func() {
		_ = tm.reconciler.Start(ctx)
	}()

	// Keep firing intervals until a cycle observes the emptied queue. Ticks
	// landing while a cycle is still running get skipped, which only costs
	// intervals, never extra resolutions
	feederDone := make(chan struct{})
	defer close(feederDone)
	go func() {
		for {
			select {
			case tick <- time.Now():
			case <-feederDone:
				return
			}
		}
	}()

	select {
	case <-emptySeen:
	case <-time.After(5 * time.Second):
		t.Fatal("item was not resolved within the retry cycles")
	}

	require.NoError(t, tm.reconciler.Stop(context.Background()))
	assert.EqualValues(t, 3, attempts.Load())
}

func TestReconciler_EmptyQueue_CycleCompletes(t *testing.T) {
	tm := setupTestReconciler(t, testConfig())
	defer tm.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tick := make(chan time.Time, 1)
	tick <- time.Now()
	tm.clock.EXPECT().After(time.Minute).Return((<-chan time.Time)(tick)).AnyTimes()
	tm.clock.EXPECT().Now().Return(time.Now()).AnyTimes()

	done := make(chan struct{})
	tm.store.EXPECT().CountPendingReconciliations(gomock.Any()).Return(int64(0), nil)
	tm.store.
		EXPECT().
		GetPendingReconciliations(gomock.Any(), 10).
		DoAndReturn(func(context.Context, int) ([]*schema.PendingReconciliation, error) {
			close(done)
			return nil, nil
		})

	go func() {
		_ = tm.reconciler.Start(ctx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cycle did not run")
	}

	require.NoError(t, tm.reconciler.Stop(context.Background()))
}

func TestReconciler_OverlappingCycleSkipped(t *testing.T) {
	tm := setupTestReconciler(t, testConfig())
	defer tm.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Two ticks queued: the first starts a cycle that blocks in the resolver,
	// the second must be skipped while that cycle is still running
	tick := make(chan time.Time, 2)
	tick <- time.Now()
	tick <- time.Now()

	var afterCalls atomic.Int32
	bothTicksConsumed := make(chan struct{})
	tm.clock.
		EXPECT().
		After(time.Minute).
		DoAndReturn(func(time.Duration) <-chan time.Time {
			if afterCalls.Add(1) == 3 {
				close(bothTicksConsumed)
			}
			return tick
		}).
		AnyTimes()
	tm.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Duration(0)).AnyTimes()

	items := []*schema.PendingReconciliation{{EventID: "0xslow:0"}}
	tm.store.EXPECT().CountPendingReconciliations(gomock.Any()).Return(int64(1), nil).Times(1)
	tm.store.EXPECT().GetPendingReconciliations(gomock.Any(), 10).Return(items, nil).Times(1)

	release := make(chan struct{})
	cycleDone := make(chan struct{})
	tm.resolver.
		EXPECT().
		Resolve(gomock.Any(), items[0]).
		DoAndReturn(func(context.Context, *schema.PendingReconciliation) (bool, error) {
			<-release
			close(cycleDone)
			return true, nil
		}).
		Times(1)

	go func() {
		_ = tm.reconciler.Start(ctx)
	}()

	// Wait until the main loop has consumed both ticks; the second interval
	// fired while the first cycle was blocked, so no second cycle started
	select {
	case <-bothTicksConsumed:
	case <-time.After(5 * time.Second):
		t.Fatal("main loop did not consume both ticks")
	}

	close(release)
	select {
	case <-cycleDone:
	case <-time.After(5 * time.Second):
		t.Fatal("blocked cycle did not finish")
	}

	require.NoError(t, tm.reconciler.Stop(context.Background()))
}

func TestReconciler_StartTwice_Fails(t *testing.T) {
	tm := setupTestReconciler(t, testConfig())
	defer tm.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	tm.clock.
		EXPECT().
		After(time.Minute).
		DoAndReturn(func(time.Duration) <-chan time.Time {
			select {
			case <-started:
			default:
				close(started)
			}
			return make(chan time.Time)
		}).
		AnyTimes()

	go func() {
		_ = tm.reconciler.Start(ctx)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not start")
	}

	err := tm.reconciler.Start(ctx)
	assert.Error(t, err)

	require.NoError(t, tm.reconciler.Stop(context.Background()))
}
