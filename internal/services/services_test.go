package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"a11yowl/internal/client"
	"a11yowl/internal/metrics"
	"a11yowl/internal/models"
	"a11yowl/internal/notification"
	"a11yowl/internal/prefs"
	"a11yowl/pkg/errors"
	"a11yowl/pkg/logger"
	"a11yowl/pkg/poller"
	"a11yowl/pkg/ratelimit"
	"a11yowl/pkg/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg notification.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockNotifier) Close() error {
	return m.Called().Error(0)
}

type fixture struct {
	backend  *testutil.FakeBackend
	store    *prefs.MemoryStore
	prefs    PreferenceServiceMethods
	notifier *MockNotifier
	metrics  *metrics.Metrics
	svc      ScanServiceMethods
}

func fastPoll() PollSettings {
	return PollSettings{
		Schedule:     poller.Schedule{Final: 5 * time.Millisecond},
		Timeout:      2 * time.Second,
		TickInterval: 50 * time.Millisecond,
	}
}

func newFixture(t *testing.T, opts ...ScanServiceOpt) *fixture {
	t.Helper()

	f := &fixture{
		backend:  testutil.NewFakeBackend(t),
		store:    prefs.NewMemoryStore(0),
		notifier: new(MockNotifier),
		metrics:  metrics.New("test"),
	}
	nop := logger.NewNopLogger()
	api := client.New(client.Config{BaseURL: f.backend.URL()}, client.WithLogger(nop))
	f.prefs = NewPreferenceService(f.store, f.notifier, nop)

	base := []ScanServiceOpt{
		WithLogger(nop),
		WithMetrics(f.metrics),
		WithNotifier(f.notifier),
		WithPollSettings(fastPoll()),
	}
	f.svc = NewScanService(api, f.prefs, append(base, opts...)...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = f.svc.Shutdown(ctx)
	})
	return f
}

func TestStartScan(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.StartScan(context.Background(), "visitor", "example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "scan-1", resp.ScanID)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.ScansStartedTotal))
}

func TestStartScanValidation(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"blank", "   "},
		{"spaces inside", "not a url at all"},
		{"scheme only", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, WithLimiter(ratelimit.New(1, 1)))

			_, err := f.svc.StartScan(context.Background(), "visitor", tt.url, false)
			assert.ErrorIs(t, err, errors.ErrInvalidURL)
			assert.Empty(t, f.backend.Requests())

			// Rejected input does not spend the visitor's allowance.
			_, err = f.svc.StartScan(context.Background(), "visitor", "example.com", false)
			assert.NoError(t, err)
		})
	}
}

func TestStartScanRateLimited(t *testing.T) {
	f := newFixture(t, WithLimiter(ratelimit.New(1, 1)))

	_, err := f.svc.StartScan(context.Background(), "visitor", "example.com", false)
	require.NoError(t, err)

	_, err = f.svc.StartScan(context.Background(), "visitor", "example.com", false)
	assert.ErrorIs(t, err, errors.ErrRateLimited)
	assert.Len(t, f.backend.Requests(), 1)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RateLimitedTotal))

	_, err = f.svc.StartScan(context.Background(), "someone-else", "example.com", false)
	assert.NoError(t, err)
}

func TestStartScanBackendError(t *testing.T) {
	f := newFixture(t)
	f.backend.FailStart(http.StatusBadRequest, `{"detail":"Invalid URL"}`)

	_, err := f.svc.StartScan(context.Background(), "visitor", "example.com", false)
	require.Error(t, err)
	assert.Equal(t, "Invalid URL", err.Error())
}

func TestRequestReportRecordsAndNotifies(t *testing.T) {
	f := newFixture(t)
	f.backend.Script("s1", models.Scan{URL: "https://example.com", Status: models.StatusCompleted, IssuesFound: 3})
	ctx := context.Background()

	require.NoError(t, f.store.Set(ctx, prefs.PlatformKey("visitor"), "wordpress"))

	var wg sync.WaitGroup
	wg.Add(1)
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(m notification.Message) bool {
		return m.Title == "New report request"
	})).Run(func(mock.Arguments) { wg.Done() }).Return(nil).Once()

	_, err := f.svc.RequestReport(ctx, "visitor", "s1", models.ReportRequest{Email: "owner@example.com"})
	require.NoError(t, err)

	sent, err := f.prefs.ReportSent(ctx, "visitor", "s1")
	require.NoError(t, err)
	assert.True(t, sent)

	reports := f.backend.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "wordpress", reports[0].PlatformSelected)

	wg.Wait()
	f.notifier.AssertExpectations(t)
}

func TestRequestReportInvalidEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RequestReport(context.Background(), "visitor", "s1", models.ReportRequest{Email: "nope"})
	assert.ErrorIs(t, err, errors.ErrInvalidEmail)
	assert.Empty(t, f.backend.Requests())
}

func TestRequestReportFailureDoesNotMarkSent(t *testing.T) {
	f := newFixture(t)
	f.backend.FailReport(http.StatusConflict, `{"detail":"Report already sent"}`)

	_, err := f.svc.RequestReport(context.Background(), "visitor", "s1", models.ReportRequest{Email: "a@b.co"})
	require.Error(t, err)
	assert.Equal(t, "Report already sent", err.Error())

	sent, _ := f.prefs.ReportSent(context.Background(), "visitor", "s1")
	assert.False(t, sent)
	f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestWatchScanFollowsToCompletion(t *testing.T) {
	f := newFixture(t)
	f.backend.Script("s1",
		models.Scan{Status: models.StatusQueued},
		models.Scan{Status: models.StatusCrawling},
		models.Scan{Status: models.StatusCompleted, IssuesFound: 1},
	)

	session := f.svc.WatchScan(context.Background(), "s1", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snap, err := session.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, poller.StateCompleted, snap.State)
	assert.Equal(t, 3, f.backend.StatusCalls("s1"))

	assert.Eventually(t, func() bool {
		return promtest.ToFloat64(f.metrics.PollSessionOutcomes.WithLabelValues("completed")) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestShutdownCancelsLiveSessions(t *testing.T) {
	f := newFixture(t)
	f.backend.Script("s1", models.Scan{Status: models.StatusAnalyzing})

	session := f.svc.WatchScan(context.Background(), "s1", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.svc.Shutdown(ctx))

	select {
	case <-session.Done():
	default:
		t.Fatal("session still running after shutdown")
	}
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.PollSessionOutcomes.WithLabelValues("cancelled")))
}

func TestPreferenceService(t *testing.T) {
	store := prefs.NewMemoryStore(0)
	notifier := new(MockNotifier)
	svc := NewPreferenceService(store, notifier, logger.NewNopLogger())
	ctx := context.Background()

	platform, err := svc.GetPlatform(ctx, "v")
	require.NoError(t, err)
	assert.Empty(t, platform)

	assert.ErrorIs(t, svc.SetPlatform(ctx, "v", "joomla"), errors.ErrInvalidPlatform)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	notifier.On("Send", ctx, mock.Anything).Return(nil).Once()
	require.NoError(t, svc.SetPlatform(ctx, "v", " developer "))
	platform, _ = svc.GetPlatform(ctx, "v")
	assert.Equal(t, "developer", platform)

	require.NoError(t, svc.ClearPlatform(ctx, "v"))
	platform, _ = svc.GetPlatform(ctx, "v")
	assert.Empty(t, platform)

	// Values that are no longer valid platforms read as unset.
	require.NoError(t, store.Set(ctx, prefs.PlatformKey("v"), "retired"))
	platform, _ = svc.GetPlatform(ctx, "v")
	assert.Empty(t, platform)

	notifier.AssertExpectations(t)
}
