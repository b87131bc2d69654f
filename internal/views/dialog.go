package views

import (
	"context"
	"strings"
	"sync"

	"a11yowl/internal/models"
	"a11yowl/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// DialogStep is the sub-state of an open report dialog.
type DialogStep string

const (
	StepEmail DialogStep = "email"
	StepSent  DialogStep = "sent"
)

const fallbackSendError = "Failed to send report"

// Reporter sends report requests to the backend.
type Reporter interface {
	RequestReport(ctx context.Context, scanID string, req models.ReportRequest) (*models.ReportResponse, error)
}

// DialogState is a copy of the dialog for rendering.
type DialogState struct {
	ScanID     string
	Open       bool
	Step       DialogStep
	Email      string
	Error      string
	ReportType models.ReportType
	Platform   string
	Loading    bool
}

// ReportDialog collects an email address and requests the report. The
// success callback runs at most once per dialog.
type ReportDialog struct {
	scanID    string
	reporter  Reporter
	platform  string
	onSuccess func(email string)

	mu        sync.Mutex
	state     DialogState
	succeeded bool
}

type DialogOption func(*ReportDialog)

// WithPlatform attaches the visitor's stored platform to report requests.
func WithPlatform(platform string) DialogOption {
	return func(d *ReportDialog) {
		d.platform = platform
	}
}

func WithOnSuccess(fn func(email string)) DialogOption {
	return func(d *ReportDialog) {
		d.onSuccess = fn
	}
}

var emailValidator = validator.New()

func NewReportDialog(scanID string, reporter Reporter, opts ...DialogOption) *ReportDialog {
	d := &ReportDialog{
		scanID:   scanID,
		reporter: reporter,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.state = d.freshState(false)
	return d
}

func (d *ReportDialog) freshState(open bool) DialogState {
	return DialogState{
		ScanID:   d.scanID,
		Open:     open,
		Step:     StepEmail,
		Platform: d.platform,
	}
}

// SetOpen shows or hides the dialog. Opening a closed dialog clears the
// email, error and tier selection.
func (d *ReportDialog) SetOpen(open bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if open && !d.state.Open {
		d.state = d.freshState(true)
		return
	}
	d.state.Open = open
}

func (d *ReportDialog) Close() {
	d.SetOpen(false)
}

func (d *ReportDialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// ValidateEmail checks the address is present and shaped like an email.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.ErrInvalidEmail
	}
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return errors.ErrInvalidEmail
	}
	return nil
}

// Submit validates email and asks the backend for the report. On failure
// the dialog stays on the email step with the error shown inline.
func (d *ReportDialog) Submit(ctx context.Context, email string, reportType models.ReportType) error {
	email = strings.TrimSpace(email)

	d.mu.Lock()
	if !d.state.Open {
		d.state = d.freshState(true)
	}
	if d.state.Loading {
		d.mu.Unlock()
		return nil
	}
	d.state.Email = email
	d.state.ReportType = reportType
	d.state.Error = ""

	if err := d.check(email, reportType); err != nil {
		d.state.Error = err.Error()
		d.mu.Unlock()
		return err
	}
	d.state.Loading = true
	d.mu.Unlock()

	_, err := d.reporter.RequestReport(ctx, d.scanID, models.ReportRequest{
		Email:            email,
		ReportType:       reportType,
		PlatformSelected: d.platform,
	})

	d.mu.Lock()
	d.state.Loading = false
	if err != nil {
		d.state.Step = StepEmail
		d.state.Error = errorMessage(err)
		d.mu.Unlock()
		return err
	}
	d.state.Step = StepSent
	fire := !d.succeeded
	d.succeeded = true
	d.mu.Unlock()

	if fire && d.onSuccess != nil {
		d.onSuccess(email)
	}
	return nil
}

func (d *ReportDialog) check(email string, reportType models.ReportType) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if !reportType.Valid() {
		return errors.NewRequestError("request_report", 0, "Unknown report type", nil)
	}
	return nil
}

func errorMessage(err error) string {
	if reqErr, ok := errors.AsRequestError(err); ok && reqErr.Message != "" {
		return reqErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackSendError
}
