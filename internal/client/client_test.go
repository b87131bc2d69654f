package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"a11yowl/internal/metrics"
	"a11yowl/internal/models"
	"a11yowl/pkg/errors"
	"a11yowl/pkg/logger"
	"a11yowl/pkg/poller"
	"a11yowl/pkg/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) (*Client, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test")
	c := New(Config{BaseURL: baseURL, Timeout: 2 * time.Second},
		WithLogger(logger.NewNopLogger()),
		WithMetrics(m),
	)
	return c, m
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"example.com", "https://example.com", false},
		{"  example.com/path  ", "https://example.com/path", false},
		{"http://example.com", "http://example.com", false},
		{"https://example.com", "https://example.com", false},
		{"HTTPS://Example.com", "HTTPS://Example.com", false},
		{"localhost:3000", "https://localhost:3000", false},
		{"", "", true},
		{"   ", "", true},
		{"not a url at all", "", true},
		{"https://", "", true},
		{"http://exa mple.com", "", true},
		{"https://%zz", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, errors.ErrInvalidURL, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = New(Config{BaseURL: "https://api.example.com/"})
	assert.Equal(t, "https://api.example.com", c.BaseURL())
}

func TestStartScanSendsNormalizedURL(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	c, m := newTestClient(t, fb.URL())

	resp, err := c.StartScan(context.Background(), "example.com", StartOptions{IncludeAIO: true})
	require.NoError(t, err)
	assert.Equal(t, "scan-1", resp.ScanID)
	assert.Equal(t, models.StatusQueued, resp.Status)

	reqs := fb.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/v1/scan/quick", reqs[0].Path)

	var body models.StartScanRequest
	require.NoError(t, json.Unmarshal([]byte(reqs[0].Body), &body))
	assert.Equal(t, "https://example.com", body.URL)
	assert.True(t, body.IncludeAIO)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.BackendRequestsTotal.WithLabelValues(OpStartScan, "success")))
}

func TestStartScanRejectsEmptyURLWithoutNetwork(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	c, _ := newTestClient(t, fb.URL())

	_, err := c.StartScan(context.Background(), "  ", StartOptions{})
	assert.ErrorIs(t, err, errors.ErrInvalidURL)
	assert.Empty(t, fb.Requests())
}

func TestStartScanErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail string", `{"detail":"Rate limit exceeded"}`, "Rate limit exceeded"},
		{"no detail", `{"error":"nope"}`, msgStartScan},
		{"not json", `<html>502</html>`, msgStartScan},
		{"detail not a string", `{"detail":[{"msg":"bad"}]}`, msgStartScan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := testutil.NewFakeBackend(t)
			fb.FailStart(http.StatusTooManyRequests, tt.body)
			c, m := newTestClient(t, fb.URL())

			_, err := c.StartScan(context.Background(), "example.com", StartOptions{})
			require.Error(t, err)

			reqErr, ok := errors.AsRequestError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, reqErr.Error())
			assert.Equal(t, http.StatusTooManyRequests, reqErr.StatusCode)
			assert.Equal(t, OpStartScan, reqErr.Op)
			assert.Equal(t, 1.0, promtest.ToFloat64(m.BackendRequestsTotal.WithLabelValues(OpStartScan, "error")))
		})
	}
}

func TestGetScanStatus(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Script("abc", models.Scan{
		URL:             "https://example.com",
		Status:          models.StatusCompleted,
		IssuesFound:     4,
		ComplianceScore: testutil.Score(62),
		SampleIssues: []models.Issue{
			{ID: "1", Severity: models.SeverityHigh, Category: models.CategoryCompliance},
		},
	})
	c, _ := newTestClient(t, fb.URL())

	scan, err := c.GetScanStatus(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", scan.ScanID)
	assert.Equal(t, models.StatusCompleted, scan.Status)
	require.NotNil(t, scan.ComplianceScore)
	assert.Equal(t, 62.0, *scan.ComplianceScore)
	assert.Nil(t, scan.AIOScore)
	assert.Equal(t, 3, scan.HiddenIssues())
}

func TestGetScanStatusIgnoresDetail(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.FailStatus(http.StatusNotFound, `{"detail":"Scan not found"}`)
	c, _ := newTestClient(t, fb.URL())

	_, err := c.GetScanStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, msgGetScanStatus, err.Error())
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStartScanRejectsMalformedURLWithoutNetwork(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	c, _ := newTestClient(t, fb.URL())

	_, err := c.StartScan(context.Background(), "not a url at all", StartOptions{})
	assert.ErrorIs(t, err, errors.ErrInvalidURL)
	assert.Empty(t, fb.Requests())
}

func TestServerErrorEndsSessionInNetworkError(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Script("abc", models.Scan{Status: models.StatusCrawling})
	fb.FailStatus(http.StatusInternalServerError, `{"detail":"boom"}`)
	c, _ := newTestClient(t, fb.URL())

	session := poller.NewSession("abc", c,
		poller.WithSchedule(poller.Schedule{Final: 5 * time.Millisecond}),
		poller.WithTimeout(2*time.Second),
		poller.WithLogger(logger.NewNopLogger()),
	)
	session.Start(context.Background())

	ctx, cancel := testutil.WithTimeout(t, 2*time.Second)
	defer cancel()
	snap, err := session.Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, poller.StateNetworkError, snap.State)
	assert.Equal(t, 1, snap.Polls)
	reqErr, ok := errors.AsRequestError(snap.Err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)

	// Several schedule delays later nothing else has been requested.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, fb.StatusCalls("abc"))
	assert.Equal(t, poller.StateNetworkError, session.Snapshot().State)
	assert.Equal(t, 1, session.Snapshot().Polls)
}

func TestRequestReport(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	c, _ := newTestClient(t, fb.URL())

	resp, err := c.RequestReport(context.Background(), "abc", models.ReportRequest{
		Email:            " owner@example.com ",
		ReportType:       models.ReportTypeFree,
		PlatformSelected: "shopify",
	})
	require.NoError(t, err)
	assert.Equal(t, "queued", resp.Status)

	reports := fb.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "owner@example.com", reports[0].Email)
	assert.Equal(t, "shopify", reports[0].PlatformSelected)
}

func TestRequestReportErrorDetail(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.FailReport(http.StatusBadRequest, `{"detail":"Scan is not complete"}`)
	c, _ := newTestClient(t, fb.URL())

	_, err := c.RequestReport(context.Background(), "abc", models.ReportRequest{Email: "a@b.co"})
	require.Error(t, err)
	assert.Equal(t, "Scan is not complete", err.Error())

	fb.FailReport(http.StatusInternalServerError, ``)
	_, err = c.RequestReport(context.Background(), "abc", models.ReportRequest{Email: "a@b.co"})
	require.Error(t, err)
	assert.Equal(t, msgRequestReport, err.Error())
}

func TestTransportFailureIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, _ := newTestClient(t, baseURL)
	_, err := c.GetScanStatus(context.Background(), "abc")
	require.Error(t, err)

	reqErr, ok := errors.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, 0, reqErr.StatusCode)
	assert.Equal(t, msgGetScanStatus, reqErr.Message)
	assert.NotNil(t, reqErr.Unwrap())
}

func TestContextCancellationAbortsRequest(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Script("slow", models.Scan{Status: models.StatusQueued})
	fb.SetDelay(2 * time.Second)
	c, _ := newTestClient(t, fb.URL())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GetScanStatus(ctx, "slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
