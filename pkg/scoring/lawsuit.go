package scoring

import (
	"math"

	"a11yowl/internal/models"
)

const (
	settlementBase        = 10000
	settlementPerCritical = 5000
	settlementPerHigh     = 2000
	flatLegalFees         = 15000
	remediationPerIssue   = 500
)

// LawsuitEstimate is the exposure figure shown for sites with serious
// compliance issues. The formula mirrors the one used in the PDF report and
// must not drift from it.
type LawsuitEstimate struct {
	SampleCritical        int
	SampleHigh            int
	SampleCompliance      int
	TotalComplianceIssues int
	Scale                 float64
	EstCritical           int
	EstHigh               int
	Settlement            int
	LegalFees             int
	Remediation           int
	Total                 int
}

// EstimateLawsuit extrapolates the critical and high compliance issues seen
// in the sample to the full issue set. ok is false when no critical or high
// issue is estimated to exist, in which case nothing should be displayed.
func EstimateLawsuit(sample []models.Issue, totalComplianceIssues int) (LawsuitEstimate, bool) {
	var critical, high, compliance int
	for _, issue := range sample {
		if !issue.IsCompliance() {
			continue
		}
		compliance++
		switch issue.Severity {
		case models.SeverityCritical:
			critical++
		case models.SeverityHigh:
			high++
		}
	}

	scale := 1.0
	if compliance > 0 {
		scale = float64(totalComplianceIssues) / float64(compliance)
	}

	estCritical := int(math.Round(float64(critical) * scale))
	estHigh := int(math.Round(float64(high) * scale))
	if estCritical+estHigh == 0 {
		return LawsuitEstimate{}, false
	}

	settlement := settlementBase + settlementPerCritical*estCritical + settlementPerHigh*estHigh
	remediation := remediationPerIssue * totalComplianceIssues

	return LawsuitEstimate{
		SampleCritical:        critical,
		SampleHigh:            high,
		SampleCompliance:      compliance,
		TotalComplianceIssues: totalComplianceIssues,
		Scale:                 scale,
		EstCritical:           estCritical,
		EstHigh:               estHigh,
		Settlement:            settlement,
		LegalFees:             flatLegalFees,
		Remediation:           remediation,
		Total:                 settlement + flatLegalFees + remediation,
	}, true
}

// ComplianceTotal is the number of compliance issues in the whole scan.
// Issues withheld from the sample are counted as compliance issues.
func ComplianceTotal(scan *models.Scan) int {
	if scan == nil {
		return 0
	}
	total := scan.IssuesFound
	for _, issue := range scan.SampleIssues {
		if !issue.IsCompliance() {
			total--
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// SeverityCounts tallies the sample by severity. Unknown severities are
// ignored.
func SeverityCounts(issues []models.Issue) map[models.Severity]int {
	counts := make(map[models.Severity]int, len(models.Severities))
	for _, sev := range models.Severities {
		counts[sev] = 0
	}
	for _, issue := range issues {
		if _, ok := counts[issue.Severity]; ok {
			counts[issue.Severity]++
		}
	}
	return counts
}

// ScoreValue coalesces an optional score to zero for calculations. Display
// code should check for nil instead.
func ScoreValue(score *float64) float64 {
	if score == nil {
		return 0
	}
	return *score
}
