// Package client talks to the scanning backend's HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"a11yowl/internal/metrics"
	"a11yowl/internal/models"
	"a11yowl/pkg/errors"
	"a11yowl/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second

	OpStartScan     = "start_scan"
	OpGetScanStatus = "get_scan_status"
	OpRequestReport = "request_report"

	msgStartScan     = "Failed to start scan"
	msgGetScanStatus = "Failed to fetch scan status"
	msgRequestReport = "Failed to request report"

	maxErrorBody = 64 << 10
)

// ScanAPI is the subset of the backend used by the rest of the front end.
type ScanAPI interface {
	StartScan(ctx context.Context, rawURL string, opts StartOptions) (*models.StartScanResponse, error)
	GetScanStatus(ctx context.Context, scanID string) (*models.Scan, error)
	RequestReport(ctx context.Context, scanID string, req models.ReportRequest) (*models.ReportResponse, error)
}

type StartOptions struct {
	IncludeAIO bool
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type OptFunc func(*Client)

func WithHTTPClient(hc *http.Client) OptFunc {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l *logger.Logger) OptFunc {
	return func(c *Client) {
		c.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) OptFunc {
	return func(c *Client) {
		c.metrics = m
	}
}

func New(cfg Config, opts ...OptFunc) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Default(),
		tracer:     otel.Tracer("a11yowl/client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// NormalizeURL trims input and prepends https:// unless a scheme is present.
// Input that does not parse to a URL with a host is rejected.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.ContainsAny(trimmed, " \t\r\n") {
		return "", errors.ErrInvalidURL
	}
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Hostname() == "" {
		return "", errors.ErrInvalidURL
	}
	return trimmed, nil
}

func (c *Client) StartScan(ctx context.Context, rawURL string, opts StartOptions) (*models.StartScanResponse, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	body := models.StartScanRequest{URL: target, IncludeAIO: opts.IncludeAIO}
	var resp models.StartScanResponse
	if err := c.do(ctx, OpStartScan, http.MethodPost, "/api/v1/scan/quick", body, &resp, msgStartScan, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetScanStatus never surfaces the backend's detail; callers only need to
// know the poll failed.
func (c *Client) GetScanStatus(ctx context.Context, scanID string) (*models.Scan, error) {
	path := "/api/v1/scan/" + url.PathEscape(scanID)
	var scan models.Scan
	if err := c.do(ctx, OpGetScanStatus, http.MethodGet, path, nil, &scan, msgGetScanStatus, false); err != nil {
		return nil, err
	}
	return &scan, nil
}

func (c *Client) RequestReport(ctx context.Context, scanID string, req models.ReportRequest) (*models.ReportResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	path := "/api/v1/scan/" + url.PathEscape(scanID) + "/report"
	var resp models.ReportResponse
	if err := c.do(ctx, OpRequestReport, http.MethodPost, path, req, &resp, msgRequestReport, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any, fallback string, useDetail bool) (err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "backend."+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.metrics.RecordBackendRequest(op, start, err)
	}()

	return c.logger.LogCall(op, func() error {
		var reader io.Reader
		if in != nil {
			payload, err := json.Marshal(in)
			if err != nil {
				return errors.NewRequestError(op, 0, fallback, fmt.Errorf("encoding request: %w", err))
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return errors.NewRequestError(op, 0, fallback, err)
		}
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.NewRequestError(op, 0, fallback, err)
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			message := fallback
			if useDetail {
				if detail := readDetail(resp.Body); detail != "" {
					message = detail
				}
			}
			cause := fmt.Errorf("backend returned %s", resp.Status)
			if resp.StatusCode == http.StatusNotFound {
				cause = fmt.Errorf("backend returned %s: %w", resp.Status, errors.ErrNotFound)
			}
			return errors.NewRequestError(op, resp.StatusCode, message, cause)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.NewRequestError(op, resp.StatusCode, fallback, fmt.Errorf("decoding response: %w", err))
		}
		return nil
	})
}

// readDetail extracts the "detail" string from an error body. Bodies that
// are not JSON, or whose detail is not a string, yield "".
func readDetail(body io.Reader) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
