package handlers

import (
	"net/http"

	"a11yowl/internal/models"
	"a11yowl/internal/services"
	"a11yowl/pkg/errors"
	"a11yowl/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ScanHandler serves the JSON API in front of the scanning backend.
type ScanHandler struct {
	scanService services.ScanServiceMethods
	logger      *logger.Logger
}

func NewScanHandler(scanService services.ScanServiceMethods, l *logger.Logger) *ScanHandler {
	if l == nil {
		l = logger.Default()
	}
	return &ScanHandler{scanService: scanService, logger: l}
}

func (h *ScanHandler) StartScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Debug("Failed to bind scan request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}

	resp, err := h.scanService.StartScan(c.Request.Context(), VisitorID(c), req.URL, req.IncludeAIO)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScanResponse{ScanID: resp.ScanID, Status: resp.Status})
}

func (h *ScanHandler) GetScan(c *gin.Context) {
	scanID := c.Param("id")
	scan, err := h.scanService.GetScan(c.Request.Context(), scanID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		abortWithError(c, err)
		return
	}
	if scan == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Scan not found"})
		return
	}
	c.JSON(http.StatusOK, scan)
}

func (h *ScanHandler) RequestReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Debug("Failed to bind report request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}

	resp, err := h.scanService.RequestReport(c.Request.Context(), VisitorID(c), c.Param("id"), models.ReportRequest{
		Email:            req.Email,
		ReportType:       req.ReportType,
		PlatformSelected: req.PlatformSelected,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
