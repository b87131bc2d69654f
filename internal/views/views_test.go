package views

import (
	"strings"
	"testing"
	"time"

	"a11yowl/internal/models"
	"a11yowl/pkg/poller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestStageItems(t *testing.T) {
	tests := []struct {
		state  poller.State
		active int
		done   []bool
	}{
		{poller.StateQueued, 0, []bool{false, false, false}},
		{poller.StateCrawling, 1, []bool{true, false, false}},
		{poller.StateAnalyzing, 2, []bool{true, true, false}},
		{"mystery", 0, []bool{false, false, false}},
	}

	for _, tt := range tests {
		items := StageItems(tt.state)
		require.Len(t, items, 3)
		for i, item := range items {
			assert.Equal(t, i == tt.active, item.Active, "state %s stage %d", tt.state, i)
			assert.Equal(t, tt.done[i], item.Done, "state %s stage %d", tt.state, i)
		}
	}

	assert.Equal(t, "Capturing screenshots & testing navigation", StageItems(poller.StateQueued)[1].Label)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "We couldn't reach this website. Please check the URL and try again.", FailureMessage("dns_failure"))
	assert.Equal(t, "This site requires login. We can only scan publicly accessible pages.", FailureMessage("login_wall_detected"))
	assert.Equal(t, "robots.txt disallows scanning", FailureMessage("robots.txt disallows scanning"))
	assert.Equal(t, "Something went wrong during the scan.", FailureMessage(""))
}

func TestNewStatusViewVariants(t *testing.T) {
	scan := &models.Scan{ScanID: "s1", URL: "https://example.com", Status: models.StatusFailed, ErrorMessage: "timeout"}

	tests := []struct {
		name    string
		snap    poller.Snapshot
		variant Variant
		message string
	}{
		{"in progress", poller.Snapshot{ScanID: "s1", State: poller.StateCrawling}, VariantProgress, ""},
		{"failed", poller.Snapshot{ScanID: "s1", State: poller.StateFailed, Scan: scan}, VariantFailed, "The scan timed out. The website may be too slow to respond."},
		{"timed out", poller.Snapshot{ScanID: "s1", State: poller.StateTimedOut}, VariantTimedOut, timedOutMessage},
		{"network error", poller.Snapshot{ScanID: "s1", State: poller.StateNetworkError}, VariantNetworkError, networkErrorMessage},
		{"completed", poller.Snapshot{ScanID: "s1", State: poller.StateCompleted, Scan: &models.Scan{ScanID: "s1"}}, VariantResults, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewStatusView(tt.snap, ResultsOptions{})
			assert.Equal(t, tt.variant, v.Variant)
			assert.Equal(t, tt.message, v.Message)
			assert.Equal(t, tt.snap.State.Terminal(), v.Terminal)
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0s", FormatElapsed(400*time.Millisecond))
	assert.Equal(t, "42s", FormatElapsed(42*time.Second))
	assert.Equal(t, "1m 05s", FormatElapsed(65*time.Second))
	assert.Equal(t, "2m 00s", FormatElapsed(120*time.Second))
}

func TestNewGaugeAbsentScore(t *testing.T) {
	g := NewGauge("AIO Score", nil, "aio")
	assert.False(t, g.Available)
	assert.Equal(t, "AIO Score: no score available", g.AriaLabel())
	assert.Equal(t, g.Circumference, g.DashOffset)
}

func TestNewGauge(t *testing.T) {
	g := NewGauge("Compliance Risk", score(64.6), "compliance")
	assert.True(t, g.Available)
	assert.Equal(t, 65, g.Rounded)
	assert.Equal(t, "Needs Work", g.Verdict.Label)
	assert.Contains(t, g.Context, "moderate accessibility issues")
	assert.Equal(t, "Compliance Risk: 65 out of 100, Needs Work", g.AriaLabel())
	assert.InDelta(t, g.Circumference*(1-0.646), g.DashOffset, 0.0001)

	clamped := NewGauge("x", score(140), "compliance")
	assert.Equal(t, 100, clamped.Rounded)
}

func TestNewResultsView(t *testing.T) {
	scan := &models.Scan{
		ScanID:          "s1",
		URL:             "https://example.com",
		Status:          models.StatusCompleted,
		IssuesFound:     9,
		ComplianceScore: score(31),
		SampleIssues: []models.Issue{
			{ID: "a", Type: "missing_alt_text", Severity: models.SeverityCritical, Category: models.CategoryCompliance, WCAGCriterion: "1.1.1"},
			{ID: "b", Type: "low_contrast", Severity: models.SeverityCritical, Category: models.CategoryCompliance},
			{ID: "c", Type: "keyboard_trap", Severity: models.SeverityHigh, Category: models.CategoryCompliance, ElementSelector: "#menu"},
		},
	}

	v := NewResultsView(scan, ResultsOptions{})
	assert.Equal(t, "issues", v.IssuesLabel)
	assert.False(t, v.IncludeAIO)
	assert.True(t, v.AIOUpsell)
	assert.Equal(t, "High Risk", v.Compliance.Verdict.Label)
	assert.Equal(t, 6, v.HiddenCount)

	require.Len(t, v.Issues, 3)
	assert.Equal(t, 1, v.Issues[0].Number)
	assert.Equal(t, "Missing Alt Text", v.Issues[0].Title)
	assert.Equal(t, "#menu", v.Issues[2].Selector)

	require.NotNil(t, v.Lawsuit)
	assert.Equal(t, 65500, v.Lawsuit.Total)
	assert.Equal(t, "$65,500", v.Lawsuit.TotalText)
	assert.Equal(t, "$15,000", v.Lawsuit.LegalFeesText)

	assert.False(t, v.ShowReportCTA())
	assert.Empty(t, v.Platforms)
	assert.Empty(t, v.Severity)
}

func TestNewResultsViewAfterReportSent(t *testing.T) {
	scan := &models.Scan{
		ScanID:      "s1",
		IssuesFound: 2,
		IncludeAIO:  true,
		AIOScore:    score(90),
		SampleIssues: []models.Issue{
			{Type: "heading_order", Severity: models.SeverityMedium},
			{Type: "link_name", Severity: models.SeverityLow},
		},
	}

	v := NewResultsView(scan, ResultsOptions{ReportSent: true, SelectedPlatform: "shopify"})
	assert.True(t, v.IncludeAIO)
	assert.False(t, v.AIOUpsell)
	assert.False(t, v.Compliance.Available)
	assert.True(t, v.AIO.Available)
	assert.Equal(t, "Looking Good", v.AIO.Verdict.Label)
	assert.Nil(t, v.Lawsuit)
	assert.False(t, v.ShowReportCTA())

	require.Len(t, v.Severity, 2)
	assert.Equal(t, models.SeverityMedium, v.Severity[0].Severity)
	assert.Equal(t, 50.0, v.Severity[0].Percent)
	assert.Equal(t, "Severity breakdown: 0 critical, 0 high, 1 medium, 1 low", v.SeverityText)

	require.Len(t, v.Platforms, 4)
	for _, p := range v.Platforms {
		assert.Equal(t, p.ID == "shopify", p.Selected)
	}
}

func TestShowReportCTAWhenNothingHidden(t *testing.T) {
	v := NewResultsView(&models.Scan{IssuesFound: 1, SampleIssues: []models.Issue{{Severity: models.SeverityLow}}}, ResultsOptions{})
	assert.Equal(t, 0, v.HiddenCount)
	assert.Equal(t, "issue", v.IssuesLabel)
	assert.True(t, v.ShowReportCTA())
}

func TestIssueTitleKeepsAcronyms(t *testing.T) {
	assert.Equal(t, "Missing ARIA Label", IssueTitle("missing_ARIA_label"))
	assert.Equal(t, "", IssueTitle(""))
}

func TestPlatformOptions(t *testing.T) {
	opts := PlatformOptions("nope")
	require.Len(t, opts, 4)
	for _, o := range opts {
		assert.False(t, o.Selected)
	}
	assert.True(t, strings.HasPrefix(opts[2].AriaLabel(), "Select Developer:"))
}
