package models

// ReportType selects the report tier.
type ReportType string

const (
	ReportTypeFree ReportType = "free"
	ReportTypeFull ReportType = "full"
)

// Valid reports whether t is empty or a known tier.
func (t ReportType) Valid() bool {
	return t == "" || t == ReportTypeFree || t == ReportTypeFull
}

// ReportRequest is the body of POST /api/v1/scan/{id}/report.
type ReportRequest struct {
	Email            string     `json:"email"`
	ReportType       ReportType `json:"report_type,omitempty"`
	PlatformSelected string     `json:"platform_selected,omitempty"`
}

// ReportResponse is returned once the backend accepted a report request.
type ReportResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Platform identifies what the visitor's site is built on.
type Platform struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Platforms is the fixed set offered by the platform picker.
var Platforms = []Platform{
	{ID: "wordpress", Name: "WordPress", Icon: "W", Description: "Install our plugin for automated fixes"},
	{ID: "shopify", Name: "Shopify", Icon: "S", Description: "Add our app for store accessibility"},
	{ID: "developer", Name: "Developer", Icon: "</>", Description: "GitHub app, CLI tool, or CI/CD integration"},
	{ID: "other", Name: "Other", Icon: "?", Description: "Script tag for any website"},
}

// LookupPlatform returns the platform with the given id.
func LookupPlatform(id string) (Platform, bool) {
	for _, p := range Platforms {
		if p.ID == id {
			return p, true
		}
	}
	return Platform{}, false
}

// Preference is a persisted key-value entry, used by the SQL store.
type Preference struct {
	Key       string `gorm:"primaryKey;type:varchar(128)" json:"key"`
	Value     string `json:"value"`
	UpdatedAt int64  `gorm:"autoUpdateTime" json:"updated_at"`
}
