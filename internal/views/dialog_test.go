package views

import (
	"context"
	"testing"

	"a11yowl/internal/models"
	"a11yowl/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) RequestReport(ctx context.Context, scanID string, req models.ReportRequest) (*models.ReportResponse, error) {
	args := m.Called(ctx, scanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportResponse), args.Error(1)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("owner@example.com"))
	assert.NoError(t, ValidateEmail("  owner@example.com "))
	assert.ErrorIs(t, ValidateEmail(""), errors.ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("not-an-email"), errors.ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("a@"), errors.ErrInvalidEmail)
}

func TestDialogSubmitSuccessFiresCallbackOnce(t *testing.T) {
	reporter := new(MockReporter)
	want := models.ReportRequest{Email: "owner@example.com", ReportType: models.ReportTypeFree, PlatformSelected: "wordpress"}
	reporter.On("RequestReport", mock.Anything, "s1", want).Return(&models.ReportResponse{Status: "queued"}, nil)

	calls := 0
	d := NewReportDialog("s1", reporter,
		WithPlatform("wordpress"),
		WithOnSuccess(func(email string) {
			calls++
			assert.Equal(t, "owner@example.com", email)
		}),
	)
	d.SetOpen(true)

	require.NoError(t, d.Submit(context.Background(), " owner@example.com ", models.ReportTypeFree))
	assert.Equal(t, StepSent, d.State().Step)
	assert.Equal(t, "", d.State().Error)

	require.NoError(t, d.Submit(context.Background(), "owner@example.com", models.ReportTypeFree))
	assert.Equal(t, 1, calls)
	reporter.AssertNumberOfCalls(t, "RequestReport", 2)
}

func TestDialogSubmitFailureStaysOnEmailStep(t *testing.T) {
	reporter := new(MockReporter)
	reporter.On("RequestReport", mock.Anything, "s1", mock.Anything).
		Return(nil, errors.NewRequestError("request_report", 400, "Scan is not complete", nil))

	called := false
	d := NewReportDialog("s1", reporter, WithOnSuccess(func(string) { called = true }))
	d.SetOpen(true)

	err := d.Submit(context.Background(), "owner@example.com", "")
	require.Error(t, err)

	state := d.State()
	assert.Equal(t, StepEmail, state.Step)
	assert.Equal(t, "Scan is not complete", state.Error)
	assert.Equal(t, "owner@example.com", state.Email)
	assert.False(t, state.Loading)
	assert.False(t, called)
}

func TestDialogInvalidEmailSkipsBackend(t *testing.T) {
	reporter := new(MockReporter)
	d := NewReportDialog("s1", reporter)
	d.SetOpen(true)

	err := d.Submit(context.Background(), "nope", "")
	assert.ErrorIs(t, err, errors.ErrInvalidEmail)
	assert.Equal(t, errors.ErrInvalidEmail.Error(), d.State().Error)
	reporter.AssertNotCalled(t, "RequestReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestDialogRejectsUnknownReportType(t *testing.T) {
	reporter := new(MockReporter)
	d := NewReportDialog("s1", reporter)
	d.SetOpen(true)

	err := d.Submit(context.Background(), "owner@example.com", "platinum")
	require.Error(t, err)
	reporter.AssertNotCalled(t, "RequestReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestDialogResetsOnReopen(t *testing.T) {
	reporter := new(MockReporter)
	reporter.On("RequestReport", mock.Anything, "s1", mock.Anything).Return(&models.ReportResponse{}, nil)

	d := NewReportDialog("s1", reporter)
	d.SetOpen(true)
	require.NoError(t, d.Submit(context.Background(), "owner@example.com", models.ReportTypeFull))
	require.Equal(t, StepSent, d.State().Step)

	// Staying open keeps the state.
	d.SetOpen(true)
	assert.Equal(t, StepSent, d.State().Step)

	d.Close()
	assert.False(t, d.State().Open)

	d.SetOpen(true)
	state := d.State()
	assert.True(t, state.Open)
	assert.Equal(t, StepEmail, state.Step)
	assert.Empty(t, state.Email)
	assert.Empty(t, state.Error)
	assert.Empty(t, state.ReportType)
}
