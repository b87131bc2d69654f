package models

// Status is the lifecycle state reported by the scanning backend.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusCrawling  Status = "crawling"
	StatusAnalyzing Status = "analyzing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the backend will not change this scan any more.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Known backend error codes carried in Scan.ErrorMessage.
const (
	ErrorDNSFailure    = "dns_failure"
	ErrorTimeout       = "timeout"
	ErrorBotProtection = "bot_protection_detected"
	ErrorLoginWall     = "login_wall_detected"
)

// Scan is one status snapshot as returned by GET /api/v1/scan/{id}.
type Scan struct {
	ScanID          string   `json:"scan_id"`
	URL             string   `json:"url"`
	Status          Status   `json:"status"`
	IssuesFound     int      `json:"issues_found"`
	ComplianceScore *float64 `json:"compliance_score"`
	AIOScore        *float64 `json:"aio_score"`
	IncludeAIO      bool     `json:"include_aio,omitempty"`
	AIOAvailable    bool     `json:"aio_available,omitempty"`
	ErrorMessage    string   `json:"error_message,omitempty"`
	SampleIssues    []Issue  `json:"sample_issues"`
}

// HiddenIssues is the number of issues withheld until a report is requested.
func (s *Scan) HiddenIssues() int {
	if s == nil {
		return 0
	}
	hidden := s.IssuesFound - len(s.SampleIssues)
	if hidden < 0 {
		return 0
	}
	return hidden
}

// StartScanRequest is the body of POST /api/v1/scan/quick.
type StartScanRequest struct {
	URL        string `json:"url"`
	IncludeAIO bool   `json:"include_aio,omitempty"`
}

// StartScanResponse is returned when the backend accepts a scan.
type StartScanResponse struct {
	ScanID string `json:"scan_id"`
	Status Status `json:"status"`
}
