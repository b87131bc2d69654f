package views

import (
	"fmt"
	"time"

	"a11yowl/pkg/poller"
)

// Variant selects which block of the results page is rendered.
type Variant string

const (
	VariantProgress     Variant = "progress"
	VariantResults      Variant = "results"
	VariantFailed       Variant = "failed"
	VariantTimedOut     Variant = "timed_out"
	VariantNetworkError Variant = "network_error"
)

const (
	networkErrorMessage = "Failed to load scan status. Please try again."
	timedOutMessage     = "This scan is taking longer than expected. It may still finish; reload the page to check again."
)

type StatusView struct {
	ScanID   string
	URL      string
	Variant  Variant
	State    poller.State
	Stages   []Stage
	Elapsed  string
	Message  string
	Terminal bool
	Results  ResultsView
}

func NewStatusView(snap poller.Snapshot, opts ResultsOptions) StatusView {
	v := StatusView{
		ScanID:   snap.ScanID,
		State:    snap.State,
		Elapsed:  FormatElapsed(snap.Elapsed),
		Terminal: snap.State.Terminal(),
	}
	if snap.Scan != nil {
		v.URL = snap.Scan.URL
	}

	switch snap.State {
	case poller.StateCompleted:
		v.Variant = VariantResults
		v.Results = NewResultsView(snap.Scan, opts)
	case poller.StateFailed:
		v.Variant = VariantFailed
		code := ""
		if snap.Scan != nil {
			code = snap.Scan.ErrorMessage
		}
		v.Message = FailureMessage(code)
	case poller.StateTimedOut:
		v.Variant = VariantTimedOut
		v.Message = timedOutMessage
	case poller.StateNetworkError:
		v.Variant = VariantNetworkError
		v.Message = networkErrorMessage
	default:
		v.Variant = VariantProgress
		v.Stages = StageItems(snap.State)
	}

	return v
}

// FormatElapsed renders whole seconds as "42s" or "1m 05s".
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}
