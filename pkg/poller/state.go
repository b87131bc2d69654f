package poller

import (
	"time"

	"a11yowl/internal/models"
)

// State is the client-observed state of a poll session.
type State string

const (
	StateQueued    State = "queued"
	StateCrawling  State = "crawling"
	StateAnalyzing State = "analyzing"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	// StateTimedOut and StateNetworkError never come from the backend.
	StateTimedOut     State = "timed_out"
	StateNetworkError State = "network_error"
)

// Terminal reports whether the session stops in this state.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateTimedOut, StateNetworkError:
		return true
	}
	return false
}

// stateFromStatus maps a backend status onto a session state. Unknown
// statuses are still in progress as far as the client can tell.
func stateFromStatus(status models.Status) (State, bool) {
	switch status {
	case models.StatusQueued:
		return StateQueued, true
	case models.StatusCrawling:
		return StateCrawling, true
	case models.StatusAnalyzing:
		return StateAnalyzing, true
	case models.StatusCompleted:
		return StateCompleted, true
	case models.StatusFailed:
		return StateFailed, true
	}
	return StateQueued, false
}

// Snapshot is what a session exposes to renderers.
type Snapshot struct {
	ScanID  string
	State   State
	Scan    *models.Scan
	Elapsed time.Duration
	Polls   int
	Err     error
}

// SnapshotOf is the snapshot a single status fetch produces, for callers
// that render once instead of running a session.
func SnapshotOf(scanID string, scan *models.Scan, err error) Snapshot {
	snap := Snapshot{ScanID: scanID, Polls: 1}
	if err != nil || scan == nil {
		snap.State = StateNetworkError
		snap.Err = err
		return snap
	}
	snap.State, _ = stateFromStatus(scan.Status)
	snap.Scan = scan
	return snap
}
