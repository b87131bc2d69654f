// Package mocks holds testify mocks of the service interfaces for handler
// tests.
package mocks

import (
	"context"

	"a11yowl/internal/models"
	"a11yowl/internal/views"
	"a11yowl/pkg/poller"

	"github.com/stretchr/testify/mock"
)

type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) StartScan(ctx context.Context, visitorID, rawURL string, includeAIO bool) (*models.StartScanResponse, error) {
	args := m.Called(ctx, visitorID, rawURL, includeAIO)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StartScanResponse), args.Error(1)
}

func (m *MockScanService) GetScan(ctx context.Context, scanID string) (*models.Scan, error) {
	args := m.Called(ctx, scanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scan), args.Error(1)
}

func (m *MockScanService) RequestReport(ctx context.Context, visitorID, scanID string, req models.ReportRequest) (*models.ReportResponse, error) {
	args := m.Called(ctx, visitorID, scanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportResponse), args.Error(1)
}

// ReporterFor routes dialog submissions back through RequestReport so tests
// only need one expectation.
func (m *MockScanService) ReporterFor(visitorID string) views.Reporter {
	return reporter{m: m, visitorID: visitorID}
}

func (m *MockScanService) WatchScan(ctx context.Context, scanID string, onUpdate poller.UpdateFunc) *poller.Session {
	args := m.Called(ctx, scanID, onUpdate)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*poller.Session)
}

func (m *MockScanService) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type reporter struct {
	m         *MockScanService
	visitorID string
}

func (r reporter) RequestReport(ctx context.Context, scanID string, req models.ReportRequest) (*models.ReportResponse, error) {
	return r.m.RequestReport(ctx, r.visitorID, scanID, req)
}

type MockPreferenceService struct {
	mock.Mock
}

func (m *MockPreferenceService) GetPlatform(ctx context.Context, visitorID string) (string, error) {
	args := m.Called(ctx, visitorID)
	return args.String(0), args.Error(1)
}

func (m *MockPreferenceService) SetPlatform(ctx context.Context, visitorID, platformID string) error {
	return m.Called(ctx, visitorID, platformID).Error(0)
}

func (m *MockPreferenceService) ClearPlatform(ctx context.Context, visitorID string) error {
	return m.Called(ctx, visitorID).Error(0)
}

func (m *MockPreferenceService) MarkReportSent(ctx context.Context, visitorID, scanID string) error {
	return m.Called(ctx, visitorID, scanID).Error(0)
}

func (m *MockPreferenceService) ReportSent(ctx context.Context, visitorID, scanID string) (bool, error) {
	args := m.Called(ctx, visitorID, scanID)
	return args.Bool(0), args.Error(1)
}
