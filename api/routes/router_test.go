package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"a11yowl/internal/content"
	"a11yowl/internal/handlers"
	"a11yowl/internal/metrics"
	"a11yowl/internal/models"
	"a11yowl/internal/services/mocks"
	"a11yowl/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *mocks.MockScanService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lib, err := content.Default()
	require.NoError(t, err)

	scans := new(mocks.MockScanService)
	router := InitRouter(Deps{
		ScanService: scans,
		PrefService: new(mocks.MockPreferenceService),
		Content:     lib,
		Metrics:     metrics.New("test"),
		Logger:      logger.NewNopLogger(),
		ServiceName: "a11yowl-test",
	})
	return router, scans
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInfrastructureRoutes(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/healthz", http.StatusOK, `"status":"ok"`},
		{"/robots.txt", http.StatusOK, "Disallow: /scan/"},
		{"/static/app.css", http.StatusOK, "--accent"},
		{"/privacy", http.StatusOK, "Privacy"},
		{"/does-not-exist", http.StatusNotFound, "Page not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(router, tt.path)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}

	// Requests above are counted by the metrics middleware.
	w := get(router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `endpoint="/healthz"`)
}

func TestPagesIssueVisitorCookie(t *testing.T) {
	router, _ := newRouter(t)

	w := get(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)

	var found bool
	for _, c := range w.Result().Cookies() {
		found = found || c.Name == handlers.VisitorCookie
	}
	assert.True(t, found)

	w = get(router, "/healthz")
	assert.Empty(t, w.Result().Cookies())
}

func TestAPIRoutesWired(t *testing.T) {
	router, scans := newRouter(t)
	scans.On("GetScan", mock.Anything, "abc").Return(&models.Scan{ScanID: "abc", Status: models.StatusQueued}, nil)

	w := get(router, "/api/scans/abc")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scan_id":"abc"`)
	scans.AssertExpectations(t)
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := newRouter(t)

	w := get(router, "/healthz")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req, _ := http.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
}
