package services

import (
	"sync"

	"a11yowl/internal/metrics"
	"a11yowl/pkg/logger"
	"a11yowl/pkg/poller"
)

// SessionMonitor keeps track of live poll sessions so they can be counted
// and torn down together on shutdown.
type SessionMonitor struct {
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[*poller.Session]struct{}
	wg       sync.WaitGroup
}

func NewSessionMonitor(l *logger.Logger, m *metrics.Metrics) *SessionMonitor {
	return &SessionMonitor{
		logger:   l,
		metrics:  m,
		sessions: make(map[*poller.Session]struct{}),
	}
}

// Track registers s and forgets it once it stops. s must already be started.
func (m *SessionMonitor) Track(s *poller.Session) {
	m.mu.Lock()
	m.sessions[s] = struct{}{}
	m.mu.Unlock()

	m.metrics.SessionStarted()
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		<-s.Done()

		m.mu.Lock()
		delete(m.sessions, s)
		m.mu.Unlock()

		snap := s.Snapshot()
		state := string(snap.State)
		if !snap.State.Terminal() {
			state = "cancelled"
		}
		m.metrics.SessionFinished(state)
		m.logger.WithScan(s.ScanID()).WithField("state", state).Debug("Poll session finished")
	}()
}

// Active is the number of sessions still running.
func (m *SessionMonitor) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CancelAll cancels every live session and waits for them to stop.
func (m *SessionMonitor) CancelAll() {
	m.mu.Lock()
	live := make([]*poller.Session, 0, len(m.sessions))
	for s := range m.sessions {
		live = append(live, s)
	}
	m.mu.Unlock()

	if len(live) > 0 {
		m.logger.WithField("sessions", len(live)).Info("Cancelling poll sessions")
	}
	for _, s := range live {
		s.Cancel()
	}
	m.wg.Wait()
}
