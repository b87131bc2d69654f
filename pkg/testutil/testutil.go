// Package testutil provides testing utilities for the a11yowl front end
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"a11yowl/internal/models"
)

// FakeBackend is an in-process stand-in for the scanning backend. Each scan
// replays a scripted list of snapshots, one per status request, repeating
// the last one once the script runs out.
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	scripts  map[string][]models.Scan
	served   map[string]int
	requests []RecordedRequest
	reports  []models.ReportRequest
	startErr *ErrorResponse
	statErr  *ErrorResponse
	rptErr   *ErrorResponse
	nextID   int
	delay    time.Duration
}

type RecordedRequest struct {
	Method string
	Path   string
	Body   string
}

// ErrorResponse is returned instead of the normal payload when set.
type ErrorResponse struct {
	Status int
	Body   string
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{
		scripts: make(map[string][]models.Scan),
		served:  make(map[string]int),
	}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Server.Close)
	return fb
}

func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

// Script sets the snapshots served for scanID.
func (fb *FakeBackend) Script(scanID string, snapshots ...models.Scan) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := range snapshots {
		snapshots[i].ScanID = scanID
	}
	fb.scripts[scanID] = snapshots
	fb.served[scanID] = 0
}

func (fb *FakeBackend) FailStart(status int, body string) {
	fb.mu.Lock()
	fb.startErr = &ErrorResponse{Status: status, Body: body}
	fb.mu.Unlock()
}

func (fb *FakeBackend) FailStatus(status int, body string) {
	fb.mu.Lock()
	fb.statErr = &ErrorResponse{Status: status, Body: body}
	fb.mu.Unlock()
}

func (fb *FakeBackend) FailReport(status int, body string) {
	fb.mu.Lock()
	fb.rptErr = &ErrorResponse{Status: status, Body: body}
	fb.mu.Unlock()
}

// SetDelay slows every response down.
func (fb *FakeBackend) SetDelay(d time.Duration) {
	fb.mu.Lock()
	fb.delay = d
	fb.mu.Unlock()
}

func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]RecordedRequest, len(fb.requests))
	copy(out, fb.requests)
	return out
}

func (fb *FakeBackend) Reports() []models.ReportRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]models.ReportRequest, len(fb.reports))
	copy(out, fb.reports)
	return out
}

// StatusCalls is how many status requests scanID has received.
func (fb *FakeBackend) StatusCalls(scanID string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.served[scanID]
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	fb.mu.Lock()
	fb.requests = append(fb.requests, RecordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	delay := fb.delay
	fb.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/scan/")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/scan/quick":
		fb.handleStart(w, body)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/report"):
		fb.handleReport(w, strings.TrimSuffix(path, "/report"), body)
	case r.Method == http.MethodGet && path != r.URL.Path:
		fb.handleStatus(w, path)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (fb *FakeBackend) handleStart(w http.ResponseWriter, body []byte) {
	fb.mu.Lock()
	errResp := fb.startErr
	fb.nextID++
	id := fmt.Sprintf("scan-%d", fb.nextID)
	if _, ok := fb.scripts[id]; !ok {
		fb.scripts[id] = []models.Scan{{ScanID: id, Status: models.StatusQueued}}
	}
	fb.mu.Unlock()

	if errResp != nil {
		writeRaw(w, errResp)
		return
	}

	var req models.StartScanRequest
	if err := json.Unmarshal(body, &req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "url is required"})
		return
	}
	writeJSON(w, http.StatusOK, models.StartScanResponse{ScanID: id, Status: models.StatusQueued})
}

func (fb *FakeBackend) handleStatus(w http.ResponseWriter, scanID string) {
	fb.mu.Lock()
	errResp := fb.statErr
	script, ok := fb.scripts[scanID]
	idx := fb.served[scanID]
	fb.served[scanID]++
	fb.mu.Unlock()

	if errResp != nil {
		writeRaw(w, errResp)
		return
	}
	if !ok || len(script) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Scan not found"})
		return
	}
	if idx >= len(script) {
		idx = len(script) - 1
	}
	writeJSON(w, http.StatusOK, script[idx])
}

func (fb *FakeBackend) handleReport(w http.ResponseWriter, scanID string, body []byte) {
	fb.mu.Lock()
	errResp := fb.rptErr
	fb.mu.Unlock()

	if errResp != nil {
		writeRaw(w, errResp)
		return
	}

	var req models.ReportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}

	fb.mu.Lock()
	fb.reports = append(fb.reports, req)
	fb.mu.Unlock()

	writeJSON(w, http.StatusOK, models.ReportResponse{
		Status:  "queued",
		Message: fmt.Sprintf("Report for %s will be sent to %s", scanID, req.Email),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, resp *ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

// Score returns a pointer for optional score fields.
func Score(v float64) *float64 {
	return &v
}

// TempDir creates a temporary directory for testing and returns a cleanup function
func TempDir(t *testing.T, prefix string) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("Failed to clean up temp dir %s: %v", dir, err)
		}
	}

	return dir, cleanup
}

// CreateTestFile creates a test file with the given content
func CreateTestFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filePath, err)
	}

	return filePath
}

// WithTimeout creates a context with timeout for tests
func WithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}
