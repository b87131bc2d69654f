package handlers

import (
	"net/http"
	"strings"

	"a11yowl/internal/services"
	"a11yowl/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	prefService services.PreferenceServiceMethods
	logger      *logger.Logger
}

func NewPreferenceHandler(prefService services.PreferenceServiceMethods, l *logger.Logger) *PreferenceHandler {
	if l == nil {
		l = logger.Default()
	}
	return &PreferenceHandler{prefService: prefService, logger: l}
}

func (h *PreferenceHandler) GetPlatform(c *gin.Context) {
	platform, err := h.prefService.GetPlatform(c.Request.Context(), VisitorID(c))
	if err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("Failed to read platform preference")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, PlatformResponse{Platform: platform})
}

func (h *PreferenceHandler) SetPlatform(c *gin.Context) {
	var req PlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := h.prefService.SetPlatform(c.Request.Context(), VisitorID(c), req.Platform); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, PlatformResponse{Platform: strings.TrimSpace(req.Platform)})
}

func (h *PreferenceHandler) ClearPlatform(c *gin.Context) {
	if err := h.prefService.ClearPlatform(c.Request.Context(), VisitorID(c)); err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("Failed to clear platform preference")
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
