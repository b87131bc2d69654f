package views

import (
	"fmt"
	"math"
	"strings"

	"a11yowl/internal/models"
	"a11yowl/pkg/scoring"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const gaugeRadius = 45.0

// Gauge is one circular score meter. When Available is false the score was
// not reported and the gauge shows a placeholder instead of a number.
type Gauge struct {
	Label         string
	Available     bool
	Score         float64
	Rounded       int
	Verdict       scoring.Verdict
	Context       string
	Circumference float64
	DashOffset    float64
}

func NewGauge(label string, score *float64, kind scoring.Kind) Gauge {
	circumference := 2 * math.Pi * gaugeRadius
	g := Gauge{
		Label:         label,
		Circumference: circumference,
		DashOffset:    circumference,
	}
	if score == nil {
		return g
	}

	value := math.Max(0, math.Min(100, *score))
	g.Available = true
	g.Score = value
	g.Rounded = int(math.Round(value))
	g.Verdict = scoring.Classify(value)
	g.Context = scoring.Context(value, kind)
	g.DashOffset = circumference - (value/100)*circumference
	return g
}

// AriaLabel is the spoken summary of the gauge.
func (g Gauge) AriaLabel() string {
	if !g.Available {
		return g.Label + ": no score available"
	}
	return fmt.Sprintf("%s: %d out of 100, %s", g.Label, g.Rounded, g.Verdict.Label)
}

type IssueCard struct {
	Number      int
	Title       string
	Severity    models.Severity
	Description string
	WCAG        string
	Selector    string
}

type SeveritySegment struct {
	Severity models.Severity
	Count    int
	Percent  float64
}

type LawsuitView struct {
	scoring.LawsuitEstimate
	TotalText       string
	SettlementText  string
	LegalFeesText   string
	RemediationText string
}

type ResultsOptions struct {
	ReportSent       bool
	SelectedPlatform string
}

type ResultsView struct {
	ScanID       string
	URL          string
	IssuesFound  int
	IssuesLabel  string
	IncludeAIO   bool
	AIOUpsell    bool
	Compliance   Gauge
	AIO          Gauge
	Issues       []IssueCard
	HiddenCount  int
	HiddenLabel  string
	Lawsuit      *LawsuitView
	Severity     []SeveritySegment
	SeverityText string
	ReportSent   bool
	Platforms    []PlatformOption
}

// ShowReportCTA is true when every issue is already visible and no report
// has been requested yet.
func (v ResultsView) ShowReportCTA() bool {
	return v.HiddenCount == 0 && !v.ReportSent
}

func NewResultsView(scan *models.Scan, opts ResultsOptions) ResultsView {
	if scan == nil {
		return ResultsView{}
	}

	showAIO := scan.IncludeAIO
	v := ResultsView{
		ScanID:      scan.ScanID,
		URL:         scan.URL,
		IssuesFound: scan.IssuesFound,
		IssuesLabel: Pluralize(scan.IssuesFound, "issue", "issues"),
		IncludeAIO:  showAIO,
		AIOUpsell:   !showAIO,
		Compliance:  NewGauge("Compliance Risk", scan.ComplianceScore, scoring.KindCompliance),
		HiddenCount: scan.HiddenIssues(),
		ReportSent:  opts.ReportSent,
	}
	if showAIO {
		v.AIO = NewGauge("AIO Score", scan.AIOScore, scoring.KindAIO)
	}
	v.HiddenLabel = Pluralize(v.HiddenCount, "issue", "issues")

	for i, issue := range scan.SampleIssues {
		v.Issues = append(v.Issues, IssueCard{
			Number:      i + 1,
			Title:       IssueTitle(issue.Type),
			Severity:    issue.Severity,
			Description: issue.Description,
			WCAG:        issue.WCAGCriterion,
			Selector:    issue.ElementSelector,
		})
	}

	if est, ok := scoring.EstimateLawsuit(scan.SampleIssues, scoring.ComplianceTotal(scan)); ok {
		v.Lawsuit = &LawsuitView{
			LawsuitEstimate: est,
			TotalText:       FormatMoney(est.Total),
			SettlementText:  FormatMoney(est.Settlement),
			LegalFeesText:   FormatMoney(est.LegalFees),
			RemediationText: FormatMoney(est.Remediation),
		}
	}

	if opts.ReportSent {
		v.Severity, v.SeverityText = severityBreakdown(scan.SampleIssues)
		v.Platforms = PlatformOptions(opts.SelectedPlatform)
	}

	return v
}

func severityBreakdown(issues []models.Issue) ([]SeveritySegment, string) {
	counts := scoring.SeverityCounts(issues)
	var segments []SeveritySegment
	parts := make([]string, 0, len(models.Severities))
	for _, sev := range models.Severities {
		parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		if counts[sev] == 0 || len(issues) == 0 {
			continue
		}
		segments = append(segments, SeveritySegment{
			Severity: sev,
			Count:    counts[sev],
			Percent:  float64(counts[sev]) / float64(len(issues)) * 100,
		})
	}
	return segments, "Severity breakdown: " + strings.Join(parts, ", ")
}

// IssueTitle turns a machine issue type like "missing_alt_text" into
// "Missing Alt Text".
func IssueTitle(issueType string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(issueType, "_", " "))
}

// FormatMoney renders whole dollars with thousands separators.
func FormatMoney(amount int) string {
	return message.NewPrinter(language.English).Sprintf("$%d", amount)
}

func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
