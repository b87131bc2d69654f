package web

import (
	"net/http"
	"strconv"

	"a11yowl/internal/handlers"
	"a11yowl/internal/services"
	"a11yowl/pkg/logger"
	"a11yowl/templates"

	"github.com/gin-gonic/gin"
)

type IndexHandler struct {
	scanService services.ScanServiceMethods
	logger      *logger.Logger
}

func NewIndexHandler(scanService services.ScanServiceMethods, l *logger.Logger) *IndexHandler {
	if l == nil {
		l = logger.Default()
	}
	return &IndexHandler{scanService: scanService, logger: l}
}

func (h *IndexHandler) HomePage(c *gin.Context) {
	render(c, h.logger, http.StatusOK, templates.Home(templates.ScanForm{}))
}

// SubmitScan starts a scan from the landing page form and sends the
// browser to its results page. Failures re-render the form with the
// message.
func (h *IndexHandler) SubmitScan(c *gin.Context) {
	form := templates.ScanForm{URL: c.PostForm("url")}
	form.IncludeAIO, _ = strconv.ParseBool(c.PostForm("include_aio"))

	resp, err := h.scanService.StartScan(c.Request.Context(), handlers.VisitorID(c), form.URL, form.IncludeAIO)
	if err != nil {
		status, msg := handlers.StatusFor(err)
		form.Error = msg
		if isHTMX(c) {
			render(c, h.logger, status, templates.ScanFormPartial(form))
			return
		}
		render(c, h.logger, status, templates.Home(form))
		return
	}

	redirect(c, "/scan/"+resp.ScanID)
}
