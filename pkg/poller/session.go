// Package poller follows a single scan from submission to a terminal state.
//
// A Session owns three timers: the poll delay, a one second elapsed ticker
// used for progress display, and a global timeout. All of them are stopped
// together when the session reaches a terminal state or is cancelled.
// Requests are strictly sequential: the next poll is only scheduled once the
// previous one has returned.
package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"a11yowl/internal/models"
	"a11yowl/pkg/logger"

	"github.com/cenkalti/backoff"
)

const (
	DefaultTimeout      = 120 * time.Second
	DefaultTickInterval = time.Second
)

// Fetcher loads the current snapshot of a scan.
type Fetcher interface {
	GetScanStatus(ctx context.Context, scanID string) (*models.Scan, error)
}

// UpdateFunc receives every state change and elapsed tick. It is called from
// the session goroutine and must not block for long.
type UpdateFunc func(Snapshot)

type Option func(*Session)

func WithSchedule(schedule Schedule) Option {
	return func(s *Session) {
		s.schedule = schedule
	}
}

// WithBackOff overrides the delay policy derived from the schedule.
func WithBackOff(b backoff.BackOff) Option {
	return func(s *Session) {
		s.backoff = b
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithTickInterval(interval time.Duration) Option {
	return func(s *Session) {
		if interval > 0 {
			s.tick = interval
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

func WithUpdateFunc(fn UpdateFunc) Option {
	return func(s *Session) {
		s.onUpdate = fn
	}
}

type pollResult struct {
	scan *models.Scan
	err  error
}

type Session struct {
	scanID   string
	fetcher  Fetcher
	schedule Schedule
	backoff  backoff.BackOff
	timeout  time.Duration
	tick     time.Duration
	logger   *logger.Logger
	onUpdate UpdateFunc

	mu       sync.RWMutex
	snapshot Snapshot
	cancel   context.CancelFunc
	started  time.Time

	startOnce sync.Once
	cancelled atomic.Bool
	done      chan struct{}

	// Owned by the run goroutine once started.
	pollTimer    *time.Timer
	elapsedTick  *time.Ticker
	timeoutTimer *time.Timer
}

func NewSession(scanID string, fetcher Fetcher, opts ...Option) *Session {
	s := &Session{
		scanID:   scanID,
		fetcher:  fetcher,
		schedule: DefaultSchedule(),
		timeout:  DefaultTimeout,
		tick:     DefaultTickInterval,
		logger:   logger.Default(),
		done:     make(chan struct{}),
		snapshot: Snapshot{ScanID: scanID, State: StateQueued},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.backoff == nil {
		s.backoff = NewScheduleBackOff(s.schedule)
	}

	return s
}

// Start begins polling immediately. Calling Start more than once has no
// effect. The session stops when ctx is cancelled.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)

		s.mu.Lock()
		s.cancel = cancel
		s.started = time.Now()
		s.mu.Unlock()

		if s.cancelled.Load() {
			cancel()
			close(s.done)
			return
		}

		s.backoff.Reset()
		s.pollTimer = newStoppedTimer()
		s.elapsedTick = time.NewTicker(s.tick)
		s.timeoutTimer = time.NewTimer(s.timeout)

		s.logger.WithScan(s.scanID).Debug("Poll session started")
		go s.run(ctx)
	})
}

// Cancel stops the session: all timers are stopped, the in-flight request
// is abandoned and no further updates are delivered. Safe to call at any
// time and more than once.
func (s *Session) Cancel() {
	s.cancelled.Store(true)

	s.mu.RLock()
	cancel := s.cancel
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
}

// Done is closed once the session has stopped for any reason.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session stops or ctx ends and returns the final
// snapshot.
func (s *Session) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-s.done:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Snapshot returns the latest state. Safe for concurrent readers.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Session) ScanID() string {
	return s.scanID
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.stopTimers()
	defer s.cancel()

	// Buffered so a request finishing after the loop exits never blocks.
	results := make(chan pollResult, 1)
	inFlight := false

	poll := func() {
		inFlight = true
		go func() {
			scan, err := s.fetcher.GetScanStatus(ctx, s.scanID)
			results <- pollResult{scan: scan, err: err}
		}()
	}

	poll()

	for {
		select {
		case <-ctx.Done():
			s.logger.WithScan(s.scanID).Debug("Poll session cancelled")
			return

		case <-s.pollTimer.C:
			if !inFlight {
				poll()
			}

		case res := <-results:
			inFlight = false
			// Never apply a response that arrived after teardown.
			if ctx.Err() != nil {
				return
			}

			if res.err == nil && res.scan == nil {
				res.err = fmt.Errorf("empty status response for scan %s", s.scanID)
			}

			if res.err != nil {
				s.logger.WithScan(s.scanID).WithError(res.err).Warn("Scan status poll failed")
				s.update(ctx, func(snap *Snapshot) {
					snap.State = StateNetworkError
					snap.Err = res.err
					snap.Polls++
				})
				return
			}

			state, known := stateFromStatus(res.scan.Status)
			if !known {
				s.logger.WithScan(s.scanID).WithField("status", res.scan.Status).Debug("Unknown scan status, treating as queued")
			}

			s.update(ctx, func(snap *Snapshot) {
				snap.State = state
				snap.Scan = res.scan
				snap.Polls++
			})

			if state.Terminal() {
				s.logger.WithScan(s.scanID).WithField("state", state).Info("Scan reached terminal state")
				return
			}

			delay := s.backoff.NextBackOff()
			if delay == backoff.Stop {
				delay = s.schedule.Final
			}
			s.pollTimer.Reset(delay)

		case <-s.elapsedTick.C:
			s.update(ctx, func(*Snapshot) {})

		case <-s.timeoutTimer.C:
			s.logger.WithScan(s.scanID).WithField("timeout", s.timeout.String()).Warn("Scan did not finish in time")
			s.update(ctx, func(snap *Snapshot) {
				snap.State = StateTimedOut
			})
			return
		}
	}
}

// update mutates the snapshot and notifies the listener unless the session
// has been cancelled.
func (s *Session) update(ctx context.Context, mutate func(*Snapshot)) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	mutate(&s.snapshot)
	s.snapshot.Elapsed = time.Since(s.started)
	snap := s.snapshot
	s.mu.Unlock()

	if ctx.Err() != nil || s.cancelled.Load() || s.onUpdate == nil {
		return
	}
	s.onUpdate(snap)
}

func (s *Session) stopTimers() {
	s.pollTimer.Stop()
	s.elapsedTick.Stop()
	s.timeoutTimer.Stop()
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}
