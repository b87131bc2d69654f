package web

import (
	"net/http"

	"a11yowl/pkg/logger"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") != ""
}

func render(c *gin.Context, l *logger.Logger, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		l.WithError(err).WithField("path", c.Request.URL.Path).Error("Failed to render template")
	}
}

// redirect sends htmx requests an HX-Redirect and everything else a 303.
func redirect(c *gin.Context, location string) {
	if isHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}
