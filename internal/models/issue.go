package models

// Severity is the closed set of issue severities.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists severities from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Category separates compliance findings from AI-discoverability findings.
type Category string

const (
	CategoryCompliance Category = "compliance"
	CategoryAIO        Category = "aio"
)

// Issue is a sample issue attached to a scan snapshot.
type Issue struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Severity        Severity `json:"severity"`
	Category        Category `json:"category"`
	Description     string   `json:"description"`
	WCAGCriterion   string   `json:"wcag_criterion,omitempty"`
	ElementSelector string   `json:"element_selector,omitempty"`
	ScreenshotURL   string   `json:"screenshot_url,omitempty"`
	BoundingBox     string   `json:"bounding_box,omitempty"`
}

// IsCompliance reports whether the issue counts toward compliance figures.
// Payloads without a category predate AIO checks and are compliance issues.
func (i Issue) IsCompliance() bool {
	return i.Category == CategoryCompliance || i.Category == ""
}
