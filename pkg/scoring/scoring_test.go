package scoring

import (
	"testing"

	"a11yowl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issue(sev models.Severity, cat models.Category) models.Issue {
	return models.Issue{Severity: sev, Category: cat}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		label string
		tone  Tone
		color string
	}{
		{0, "High Risk", ToneDanger, "#DC2626"},
		{49.9, "High Risk", ToneDanger, "#DC2626"},
		{50, "Needs Work", ToneWarning, "#D97706"},
		{79.99, "Needs Work", ToneWarning, "#D97706"},
		{80, "Looking Good", ToneSuccess, "#059669"},
		{100, "Looking Good", ToneSuccess, "#059669"},
	}

	for _, tt := range tests {
		v := Classify(tt.score)
		assert.Equal(t, tt.label, v.Label, "score %v", tt.score)
		assert.Equal(t, tt.tone, v.Tone, "score %v", tt.score)
		assert.Equal(t, tt.color, v.Color, "score %v", tt.score)
	}
}

func TestContextDiffersByKind(t *testing.T) {
	assert.Contains(t, Context(30, KindCompliance), "ADA litigation")
	assert.Contains(t, Context(30, KindAIO), "AI search engines")
	assert.NotEqual(t, Context(90, KindCompliance), Context(90, KindAIO))
}

func TestEstimateLawsuitExtrapolatesSample(t *testing.T) {
	sample := []models.Issue{
		issue(models.SeverityCritical, models.CategoryCompliance),
		issue(models.SeverityCritical, models.CategoryCompliance),
		issue(models.SeverityHigh, models.CategoryCompliance),
	}

	est, ok := EstimateLawsuit(sample, 9)
	require.True(t, ok)

	assert.Equal(t, 3.0, est.Scale)
	assert.Equal(t, 6, est.EstCritical)
	assert.Equal(t, 3, est.EstHigh)
	assert.Equal(t, 46000, est.Settlement)
	assert.Equal(t, 15000, est.LegalFees)
	assert.Equal(t, 4500, est.Remediation)
	assert.Equal(t, 65500, est.Total)
}

func TestEstimateLawsuitIgnoresAIOIssues(t *testing.T) {
	sample := []models.Issue{
		issue(models.SeverityCritical, models.CategoryAIO),
		issue(models.SeverityHigh, models.CategoryAIO),
		issue(models.SeverityLow, models.CategoryCompliance),
	}

	_, ok := EstimateLawsuit(sample, 5)
	assert.False(t, ok, "AIO issues never produce an estimate")

	sample = append(sample, issue(models.SeverityHigh, models.CategoryCompliance))
	est, ok := EstimateLawsuit(sample, 4)
	require.True(t, ok)
	assert.Equal(t, 2, est.SampleCompliance)
	assert.Equal(t, 0, est.EstCritical)
	assert.Equal(t, 2, est.EstHigh)
	assert.Equal(t, 10000+2000*2+15000+500*4, est.Total)
}

func TestEstimateLawsuitNoSeriousIssues(t *testing.T) {
	sample := []models.Issue{
		issue(models.SeverityMedium, models.CategoryCompliance),
		issue(models.SeverityLow, models.CategoryCompliance),
	}
	est, ok := EstimateLawsuit(sample, 20)
	assert.False(t, ok)
	assert.Zero(t, est.Total)
}

func TestEstimateLawsuitEmptyComplianceSampleDoesNotDivideByZero(t *testing.T) {
	est, ok := EstimateLawsuit(nil, 12)
	assert.False(t, ok)
	assert.Zero(t, est.Scale)

	// Uncategorised issues count as compliance.
	est, ok = EstimateLawsuit([]models.Issue{issue(models.SeverityCritical, "")}, 3)
	require.True(t, ok)
	assert.Equal(t, 3.0, est.Scale)
	assert.Equal(t, 3, est.EstCritical)

	est, ok = EstimateLawsuit([]models.Issue{issue(models.SeverityCritical, models.CategoryAIO)}, 3)
	assert.False(t, ok)
	assert.Zero(t, est.EstCritical)
}

func TestComplianceTotal(t *testing.T) {
	scan := &models.Scan{
		IssuesFound: 10,
		SampleIssues: []models.Issue{
			issue(models.SeverityHigh, models.CategoryCompliance),
			issue(models.SeverityHigh, models.CategoryAIO),
			issue(models.SeverityLow, models.CategoryAIO),
		},
	}
	assert.Equal(t, 8, ComplianceTotal(scan))
	assert.Equal(t, 0, ComplianceTotal(nil))
}

func TestSeverityCounts(t *testing.T) {
	counts := SeverityCounts([]models.Issue{
		issue(models.SeverityCritical, ""),
		issue(models.SeverityLow, ""),
		issue(models.SeverityLow, ""),
		issue("cosmetic", ""),
	})
	assert.Equal(t, 1, counts[models.SeverityCritical])
	assert.Equal(t, 0, counts[models.SeverityHigh])
	assert.Equal(t, 2, counts[models.SeverityLow])
	assert.Len(t, counts, 4)
}

func TestScoreValue(t *testing.T) {
	v := 72.5
	assert.Equal(t, 72.5, ScoreValue(&v))
	assert.Equal(t, 0.0, ScoreValue(nil))
}
