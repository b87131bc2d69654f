package handlers

import "a11yowl/internal/models"

type ScanRequest struct {
	URL        string `json:"url" binding:"required"`
	IncludeAIO bool   `json:"include_aio"`
}

type ScanResponse struct {
	ScanID string        `json:"scan_id"`
	Status models.Status `json:"status"`
}

type ReportRequest struct {
	Email            string            `json:"email" binding:"required,email"`
	ReportType       models.ReportType `json:"report_type" binding:"omitempty,oneof=free full"`
	PlatformSelected string            `json:"platform_selected"`
}

type PlatformRequest struct {
	Platform string `json:"platform" binding:"required"`
}

type PlatformResponse struct {
	Platform string `json:"platform"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
