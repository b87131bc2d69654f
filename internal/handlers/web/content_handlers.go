package web

import (
	"net/http"

	"a11yowl/internal/content"
	"a11yowl/pkg/logger"
	"a11yowl/templates"

	"github.com/gin-gonic/gin"
)

const robotsTxt = `User-agent: *
Allow: /
Disallow: /api/
Disallow: /scan/
`

type ContentHandler struct {
	library *content.Library
	logger  *logger.Logger
}

func NewContentHandler(library *content.Library, l *logger.Logger) *ContentHandler {
	if l == nil {
		l = logger.Default()
	}
	return &ContentHandler{library: library, logger: l}
}

// Page serves the content page with the given slug.
func (h *ContentHandler) Page(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := h.library.Page(slug)
		if !ok {
			h.NotFound(c)
			return
		}
		render(c, h.logger, http.StatusOK, templates.ContentPage(page))
	}
}

// Slugs lists the pages that need routes.
func (h *ContentHandler) Slugs() []string {
	return h.library.Slugs()
}

func (h *ContentHandler) NotFound(c *gin.Context) {
	render(c, h.logger, http.StatusNotFound, templates.ErrorPage("Page not found", "We couldn't find the page you were looking for."))
}

func (h *ContentHandler) Robots(c *gin.Context) {
	c.String(http.StatusOK, robotsTxt)
}
