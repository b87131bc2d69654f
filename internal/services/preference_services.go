package services

import (
	"context"
	"strings"

	"a11yowl/internal/models"
	"a11yowl/internal/notification"
	"a11yowl/internal/prefs"
	"a11yowl/pkg/errors"
	"a11yowl/pkg/logger"
)

type PreferenceServiceMethods interface {
	GetPlatform(ctx context.Context, visitorID string) (string, error)
	SetPlatform(ctx context.Context, visitorID, platformID string) error
	ClearPlatform(ctx context.Context, visitorID string) error
	MarkReportSent(ctx context.Context, visitorID, scanID string) error
	ReportSent(ctx context.Context, visitorID, scanID string) (bool, error)
}

type preferenceService struct {
	store    prefs.Store
	notifier notification.Notifier
	logger   *logger.Logger
}

func NewPreferenceService(store prefs.Store, notifier notification.Notifier, l *logger.Logger) PreferenceServiceMethods {
	if notifier == nil {
		notifier = notification.NopNotifier{}
	}
	if l == nil {
		l = logger.Default()
	}
	return &preferenceService{store: store, notifier: notifier, logger: l}
}

// GetPlatform returns "" when nothing valid is stored.
func (s *preferenceService) GetPlatform(ctx context.Context, visitorID string) (string, error) {
	if visitorID == "" {
		return "", nil
	}
	value, found, err := s.store.Get(ctx, prefs.PlatformKey(visitorID))
	if err != nil || !found {
		return "", err
	}
	if _, ok := models.LookupPlatform(value); !ok {
		return "", nil
	}
	return value, nil
}

func (s *preferenceService) SetPlatform(ctx context.Context, visitorID, platformID string) error {
	platformID = strings.TrimSpace(platformID)
	platform, ok := models.LookupPlatform(platformID)
	if !ok {
		return errors.ErrInvalidPlatform
	}

	if err := s.store.Set(ctx, prefs.PlatformKey(visitorID), platform.ID); err != nil {
		return err
	}

	s.logger.WithFields(logger.Fields{
		"visitor_id": visitorID,
		"platform":   platform.ID,
	}).Info("Platform selected")

	if err := s.notifier.Send(ctx, notification.PlatformLead(visitorID, platform)); err != nil {
		s.logger.WithError(err).Warn("Failed to send platform notification")
	}
	return nil
}

func (s *preferenceService) ClearPlatform(ctx context.Context, visitorID string) error {
	return s.store.Remove(ctx, prefs.PlatformKey(visitorID))
}

func (s *preferenceService) MarkReportSent(ctx context.Context, visitorID, scanID string) error {
	if visitorID == "" {
		return nil
	}
	return s.store.Set(ctx, prefs.ReportSentKey(visitorID, scanID), "1")
}

func (s *preferenceService) ReportSent(ctx context.Context, visitorID, scanID string) (bool, error) {
	if visitorID == "" {
		return false, nil
	}
	_, found, err := s.store.Get(ctx, prefs.ReportSentKey(visitorID, scanID))
	return found, err
}
