package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/mocks"
)

type syncFixture struct {
	store    *QuoteService
	remote   *mocks.MockRemoteQuotes
	notifier *recordingNotifier
	metrics  *Metrics
	svc      *SyncService
}

func newSyncFixture(t *testing.T, local []domain.Quote, pushOnAdd bool) *syncFixture {
	t.Helper()

	ctx := context.Background()
	repo := memory.New(quotesKey, filterKey)
	require.NoError(t, repo.SaveQuotes(ctx, local))

	notifier := &recordingNotifier{}

	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	store := NewQuoteService(QuoteServiceConfig{
		Repository: repo,
		Notifier:   notifier,
		Metrics:    metrics,
		Logger:     discardLogger(),
	})
	require.NoError(t, store.Load(ctx))

	remote := mocks.NewMockRemoteQuotes(t)

	svc := NewSyncService(SyncServiceConfig{
		Store:       store,
		Remote:      remote,
		Notifier:    notifier,
		PushOnAdd:   pushOnAdd,
		PushTimeout: time.Second,
		Metrics:     metrics,
		Logger:      discardLogger(),
	})

	return &syncFixture{store: store, remote: remote, notifier: notifier, metrics: metrics, svc: svc}
}

func TestNewSyncService_PanicsWithoutDependencies(t *testing.T) {
	store := NewQuoteService(QuoteServiceConfig{Repository: memory.New(quotesKey, filterKey)})

	assert.Panics(t, func() {
		NewSyncService(SyncServiceConfig{Remote: mocks.NewMockRemoteQuotes(t)})
	})

	assert.Panics(t, func() {
		NewSyncService(SyncServiceConfig{Store: store})
	})
}

func TestNewSyncService_DefaultsPolicy(t *testing.T) {
	f := newSyncFixture(t, domain.SeedQuotes(), false)

	assert.Equal(t, domain.PolicyMerge, f.svc.Policy())
}

func TestSyncService_Sync_MergeAddsRemoteQuotes(t *testing.T) {
	f := newSyncFixture(t, []domain.Quote{{Text: "A", Category: "X"}}, false)
	f.remote.EXPECT().FetchQuotes(mock.Anything).Return([]domain.Quote{
		{Text: "A", Category: "X"},
		{Text: "B", Category: "Y"},
	}, nil)

	outcome, err := f.svc.Sync(context.Background(), SyncRequest{Trigger: TriggerManual})
	require.NoError(t, err)

	assert.True(t, outcome.Changed)
	assert.Equal(t, 1, outcome.Added)
	assert.Equal(t, []domain.Quote{{Text: "A", Category: "X"}, {Text: "B", Category: "Y"}}, f.store.Quotes())
	assert.Equal(t, []string{MsgSyncUpdated}, f.notifier.texts())

	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.syncRuns.WithLabelValues("manual", SyncResultChanged)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.syncChanges.WithLabelValues("added")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.storeSize), 0)
}

func TestSyncService_Sync_MergeUpdatesMatchedQuote(t *testing.T) {
	f := newSyncFixture(t, []domain.Quote{{Text: "A", Category: "X"}, {Text: "L", Category: "Z"}}, false)
	f.remote.EXPECT().FetchQuotes(mock.Anything).Return([]domain.Quote{{Text: "A", Category: "X", ID: "1"}}, nil)

	outcome, err := f.svc.Sync(context.Background(), SyncRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Updated)
	assert.Equal(t, []domain.Quote{{Text: "A", Category: "X", ID: "1"}, {Text: "L", Category: "Z"}}, f.store.Quotes())
}

func TestSyncService_Sync_Unchanged(t *testing.T) {
	f := newSyncFixture(t, []domain.Quote{{Text: "A", Category: "X"}}, false)
	f.remote.EXPECT().FetchQuotes(mock.Anything).Return([]domain.Quote{{Text: "A", Category: "X"}}, nil)

	outcome, err := f.svc.Sync(context.Background(), SyncRequest{Trigger: TriggerScheduled})
	require.NoError(t, err)

	assert.False(t, outcome.Changed)
	assert.Empty(t, f.notifier.texts())
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.syncRuns.WithLabelValues("scheduled", SyncResultUnchanged)), 0)
}

func TestSyncService_Sync_ReplacePolicyOverride(t *testing.T) {
	f := newSyncFixture(t, []domain.Quote{{Text: "L", Category: "Local"}}, false)
	remote := []domain.Quote{{Text: "R", Category: "Server", ID: "1"}}
	f.remote.EXPECT().FetchQuotes(mock.Anything).Return(remote, nil)

	outcome, err := f.svc.Sync(context.Background(), SyncRequest{Policy: domain.PolicyReplace})
	require.NoError(t, err)

	assert.Equal(t, domain.PolicyReplace, outcome.Policy)
	assert.Equal(t, 1, outcome.Removed)
	assert.Equal(t, remote, f.store.Quotes())
}

func TestSyncService_Sync_InvalidPolicy(t *testing.T) {
	// FetchQuotes has no expectation: validation stops the run first.
	f := newSyncFixture(t, domain.SeedQuotes(), false)

	_, err := f.svc.Sync(context.Background(), SyncRequest{Policy: "overwrite"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	step, ok := StepOf(err)
	require.True(t, ok)
	assert.Equal(t, StepValidate, step)
}

func TestSyncService_Sync_FetchFailure(t *testing.T) {
	tests := []struct {
		name       string
		trigger    Trigger
		wantNotice bool
	}{
		{name: "manual sync notifies", trigger: TriggerManual, wantNotice: true},
		{name: "scheduled sync only logs", trigger: TriggerScheduled, wantNotice: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSyncFixture(t, domain.SeedQuotes(), false)
			f.remote.EXPECT().FetchQuotes(mock.Anything).
				Return(nil, domain.NewUnavailableError("quote-server", "fetch posts: HTTP 500"))

			_, err := f.svc.Sync(context.Background(), SyncRequest{Trigger: tt.trigger})
			require.Error(t, err)
			assert.True(t, domain.IsUnavailable(err))
			assert.Equal(t, domain.SeedQuotes(), f.store.Quotes())

			step, ok := StepOf(err)
			require.True(t, ok)
			assert.Equal(t, StepFetch, step)

			texts := f.notifier.texts()
			if tt.wantNotice {
				require.Len(t, texts, 1)
				assert.True(t, strings.HasPrefix(texts[0], MsgSyncFailed), texts[0])
				assert.Contains(t, texts[0], "HTTP 500")
			} else {
				assert.Empty(t, texts)
			}

			assert.InDelta(t, 1,
				testutil.ToFloat64(f.metrics.syncRuns.WithLabelValues(string(tt.trigger), SyncResultFailed)), 0)
		})
	}
}

func TestSyncService_Sync_RejectsConcurrentRun(t *testing.T) {
	f := newSyncFixture(t, domain.SeedQuotes(), false)

	started := make(chan struct{})
	release := make(chan struct{})

	f.remote.EXPECT().FetchQuotes(mock.Anything).
		RunAndReturn(func(context.Context) ([]domain.Quote, error) {
			close(started)
			<-release

			return domain.SeedQuotes(), nil
		}).Once()

	var wg sync.WaitGroup

	wg.Go(func() {
		_, err := f.svc.Sync(context.Background(), SyncRequest{})
		assert.NoError(t, err)
	})

	<-started
	assert.True(t, f.svc.InProgress())

	_, err := f.svc.Sync(context.Background(), SyncRequest{Trigger: TriggerScheduled})
	require.ErrorIs(t, err, domain.ErrSyncInProgress)
	assert.True(t, domain.IsConflict(err))

	close(release)
	wg.Wait()

	assert.False(t, f.svc.InProgress())
}

func TestSyncService_Sync_AfterCloseIsDiscarded(t *testing.T) {
	f := newSyncFixture(t, domain.SeedQuotes(), false)
	f.remote.EXPECT().FetchQuotes(mock.Anything).Return([]domain.Quote{{Text: "B", Category: "Y"}}, nil)

	require.NoError(t, f.store.Close(context.Background()))

	_, err := f.svc.Sync(context.Background(), SyncRequest{})
	require.ErrorIs(t, err, domain.ErrClosed)
	assert.Equal(t, domain.SeedQuotes(), f.store.Quotes())
	assert.Empty(t, f.notifier.texts())
}

func TestSyncService_PushOnAdd(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newSyncFixture(t, domain.SeedQuotes(), true)
	f.remote.EXPECT().PushQuote(mock.Anything, domain.Quote{Text: "New", Category: "Life"}).Return(nil).Once()

	_, err := f.store.AddQuote(context.Background(), "New", "Life")
	require.NoError(t, err)

	require.NoError(t, f.svc.Shutdown(context.Background()))
	assert.Empty(t, f.notifier.texts())
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.pushes.WithLabelValues("ok")), 0)
}

func TestSyncService_PushFailureNotifies(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newSyncFixture(t, domain.SeedQuotes(), true)
	f.remote.EXPECT().PushQuote(mock.Anything, mock.Anything).
		Return(domain.NewUnavailableError("quote-server", "connection refused"))

	ok := f.svc.Push(context.Background(), domain.Quote{Text: "New", Category: "Life"})
	require.True(t, ok)

	require.NoError(t, f.svc.Shutdown(context.Background()))
	assert.Equal(t, []string{MsgPushFailed}, f.notifier.texts())

	// No rollback: the local quote set is untouched by push results.
	assert.Equal(t, domain.SeedQuotes(), f.store.Quotes())
}

func TestSyncService_PushOutlivesCallerContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newSyncFixture(t, domain.SeedQuotes(), true)
	f.remote.EXPECT().PushQuote(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ domain.Quote) error {
			return ctx.Err()
		})

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, f.svc.Push(ctx, domain.Quote{Text: "A", Category: "B"}))
	cancel()

	require.NoError(t, f.svc.Shutdown(context.Background()))
	assert.Empty(t, f.notifier.texts())
}

func TestSyncService_PushDisabled(t *testing.T) {
	// PushQuote has no expectation.
	f := newSyncFixture(t, domain.SeedQuotes(), false)

	assert.False(t, f.svc.Push(context.Background(), domain.Quote{Text: "A", Category: "B"}))

	_, err := f.store.AddQuote(context.Background(), "A", "B")
	require.NoError(t, err)
}

func TestSyncService_ShutdownRejectsNewPushes(t *testing.T) {
	f := newSyncFixture(t, domain.SeedQuotes(), true)

	require.NoError(t, f.svc.Shutdown(context.Background()))
	assert.False(t, f.svc.Push(context.Background(), domain.Quote{Text: "A", Category: "B"}))
}

func TestSyncService_ShutdownHonoursDeadline(t *testing.T) {
	f := newSyncFixture(t, domain.SeedQuotes(), true)

	release := make(chan struct{})
	f.remote.EXPECT().PushQuote(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, domain.Quote) error {
			<-release
			return nil
		})

	require.True(t, f.svc.Push(context.Background(), domain.Quote{Text: "A", Category: "B"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, f.svc.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, f.svc.Shutdown(context.Background()))
}
