package routes

import (
	"context"
	"net/http"
	"time"

	"a11yowl/internal/content"
	"a11yowl/internal/handlers"
	"a11yowl/internal/handlers/web"
	"a11yowl/internal/metrics"
	"a11yowl/internal/services"
	"a11yowl/pkg/logger"
	"a11yowl/static"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	ScanService   services.ScanServiceMethods
	PrefService   services.PreferenceServiceMethods
	Content       *content.Library
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
	ServiceName   string
	SecureCookies bool
}

func InitRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logger.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(d.Logger))
	if d.ServiceName != "" {
		router.Use(otelgin.Middleware(d.ServiceName))
	}
	if d.Metrics != nil {
		router.Use(d.Metrics.GinMiddleware())
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.StaticFS("/static", http.FS(static.FS))

	pages := web.NewContentHandler(d.Content, d.Logger)
	router.GET("/robots.txt", pages.Robots)
	router.NoRoute(pages.NotFound)

	visitor := handlers.VisitorMiddleware(d.SecureCookies)

	// REST APIs
	api := router.Group("/api", visitor)
	{
		InitScanRoutes(api, d.ScanService, d.Logger)
		InitPreferenceRoutes(api, d.PrefService, d.Logger)
	}

	// web pages
	index := web.NewIndexHandler(d.ScanService, d.Logger)
	scans := web.NewScanWebHandler(d.ScanService, d.PrefService, d.Logger)
	site := router.Group("/", visitor)
	{
		site.GET("/", index.HomePage)
		site.POST("/scan", index.SubmitScan)
		site.GET("/scan/:id", scans.ScanDetailPage)
		site.GET("/scan/:id/live", scans.Live)
		site.GET("/scan/:id/report", scans.OpenReportDialog)
		site.POST("/scan/:id/report", scans.SubmitReport)
		site.GET("/scan/:id/report/close", scans.CloseReportDialog)
		site.POST("/platform", scans.SetPlatform)
		site.POST("/platform/clear", scans.ClearPlatform)
		for _, slug := range pages.Slugs() {
			site.GET("/"+slug, pages.Page(slug))
		}
	}

	return router
}

const requestIDHeader = "X-Request-ID"

func requestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.RequestIDKey, reqID))

		c.Next()

		entry := l.WithContext(c.Request.Context()).WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case c.Request.URL.Path == "/healthz" || c.Request.URL.Path == "/metrics":
			entry.Debug("Request handled")
		default:
			entry.Info("Request handled")
		}
	}
}
