package services

import (
	"context"
	"sync"
	"time"

	"a11yowl/internal/client"
	"a11yowl/internal/metrics"
	"a11yowl/internal/models"
	"a11yowl/internal/notification"
	"a11yowl/internal/views"
	"a11yowl/pkg/errors"
	"a11yowl/pkg/logger"
	"a11yowl/pkg/poller"
	"a11yowl/pkg/ratelimit"
)

const notifyTimeout = 10 * time.Second

type ScanServiceMethods interface {
	StartScan(ctx context.Context, visitorID, rawURL string, includeAIO bool) (*models.StartScanResponse, error)
	GetScan(ctx context.Context, scanID string) (*models.Scan, error)
	RequestReport(ctx context.Context, visitorID, scanID string, req models.ReportRequest) (*models.ReportResponse, error)
	// ReporterFor binds report requests made through a dialog to a visitor.
	ReporterFor(visitorID string) views.Reporter
	// WatchScan starts a tracked poll session for scanID.
	WatchScan(ctx context.Context, scanID string, onUpdate poller.UpdateFunc) *poller.Session
	Shutdown(ctx context.Context) error
}

type PollSettings struct {
	Schedule     poller.Schedule
	Timeout      time.Duration
	TickInterval time.Duration
}

type scanService struct {
	api      client.ScanAPI
	prefs    PreferenceServiceMethods
	limiter  *ratelimit.VisitorLimiter
	notifier notification.Notifier
	metrics  *metrics.Metrics
	logger   *logger.Logger
	poll     PollSettings
	monitor  *SessionMonitor

	background sync.WaitGroup
}

type ScanServiceOpt func(*scanService)

func WithLimiter(l *ratelimit.VisitorLimiter) ScanServiceOpt {
	return func(s *scanService) { s.limiter = l }
}

func WithNotifier(n notification.Notifier) ScanServiceOpt {
	return func(s *scanService) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) ScanServiceOpt {
	return func(s *scanService) { s.metrics = m }
}

func WithLogger(l *logger.Logger) ScanServiceOpt {
	return func(s *scanService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithPollSettings(p PollSettings) ScanServiceOpt {
	return func(s *scanService) {
		if p.Schedule.Final <= 0 {
			p.Schedule = poller.DefaultSchedule()
		}
		if p.Timeout <= 0 {
			p.Timeout = poller.DefaultTimeout
		}
		if p.TickInterval <= 0 {
			p.TickInterval = poller.DefaultTickInterval
		}
		s.poll = p
	}
}

func NewScanService(api client.ScanAPI, prefService PreferenceServiceMethods, opts ...ScanServiceOpt) ScanServiceMethods {
	s := &scanService{
		api:      api,
		prefs:    prefService,
		notifier: notification.NopNotifier{},
		logger:   logger.Default(),
		poll: PollSettings{
			Schedule:     poller.DefaultSchedule(),
			Timeout:      poller.DefaultTimeout,
			TickInterval: poller.DefaultTickInterval,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.monitor = NewSessionMonitor(s.logger, s.metrics)
	return s
}

func (s *scanService) StartScan(ctx context.Context, visitorID, rawURL string, includeAIO bool) (*models.StartScanResponse, error) {
	target, err := client.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil && !s.limiter.Allow(visitorID) {
		s.metrics.RecordRateLimited()
		s.logger.WithFields(logger.Fields{"visitor_id": visitorID, "url": target}).Warn("Scan submission rate limited")
		return nil, errors.ErrRateLimited
	}

	resp, err := s.api.StartScan(ctx, target, client.StartOptions{IncludeAIO: includeAIO})
	if err != nil {
		s.logger.WithError(err).WithField("url", target).Warn("Failed to start scan")
		return nil, err
	}

	s.metrics.RecordScanStarted()
	s.logger.WithFields(logger.Fields{
		"scan_id":     resp.ScanID,
		"url":         target,
		"include_aio": includeAIO,
	}).Info("Scan started")
	return resp, nil
}

func (s *scanService) GetScan(ctx context.Context, scanID string) (*models.Scan, error) {
	return s.api.GetScanStatus(ctx, scanID)
}

func (s *scanService) RequestReport(ctx context.Context, visitorID, scanID string, req models.ReportRequest) (*models.ReportResponse, error) {
	if err := views.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if !req.ReportType.Valid() {
		return nil, errors.NewRequestError(client.OpRequestReport, 0, "Unknown report type", nil)
	}
	if req.PlatformSelected == "" && s.prefs != nil {
		if platform, err := s.prefs.GetPlatform(ctx, visitorID); err == nil {
			req.PlatformSelected = platform
		}
	}

	resp, err := s.api.RequestReport(ctx, scanID, req)
	if err != nil {
		s.logger.WithScan(scanID).WithError(err).Warn("Report request failed")
		return nil, err
	}

	s.metrics.RecordReportRequested(string(req.ReportType))
	s.logger.WithScan(scanID).WithField("report_type", req.ReportType).Info("Report requested")

	if s.prefs != nil {
		if err := s.prefs.MarkReportSent(ctx, visitorID, scanID); err != nil {
			s.logger.WithScan(scanID).WithError(err).Warn("Failed to record report request")
		}
	}

	s.notifyLead(scanID, req)
	return resp, nil
}

// notifyLead posts the lead in the background; the visitor never waits on
// Discord.
func (s *scanService) notifyLead(scanID string, req models.ReportRequest) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		scan, err := s.api.GetScanStatus(ctx, scanID)
		if err != nil {
			scan = nil
		}
		if err := s.notifier.Send(ctx, notification.ReportLead(scan, req)); err != nil {
			s.logger.WithScan(scanID).WithError(err).Warn("Failed to send lead notification")
		}
	}()
}

type visitorReporter struct {
	svc       *scanService
	visitorID string
}

func (r visitorReporter) RequestReport(ctx context.Context, scanID string, req models.ReportRequest) (*models.ReportResponse, error) {
	return r.svc.RequestReport(ctx, r.visitorID, scanID, req)
}

func (s *scanService) ReporterFor(visitorID string) views.Reporter {
	return visitorReporter{svc: s, visitorID: visitorID}
}

func (s *scanService) WatchScan(ctx context.Context, scanID string, onUpdate poller.UpdateFunc) *poller.Session {
	session := poller.NewSession(scanID, s.api,
		poller.WithSchedule(s.poll.Schedule),
		poller.WithTimeout(s.poll.Timeout),
		poller.WithTickInterval(s.poll.TickInterval),
		poller.WithLogger(s.logger),
		poller.WithUpdateFunc(onUpdate),
	)
	session.Start(ctx)
	s.monitor.Track(session)
	return session
}

// Shutdown cancels live sessions and waits for pending notifications.
func (s *scanService) Shutdown(ctx context.Context) error {
	s.monitor.CancelAll()

	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
