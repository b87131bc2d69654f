package routes

import (
	"a11yowl/internal/handlers"
	"a11yowl/internal/services"
	"a11yowl/pkg/logger"

	"github.com/gin-gonic/gin"
)

func InitScanRoutes(router *gin.RouterGroup, scanService services.ScanServiceMethods, l *logger.Logger) {
	handlers := handlers.NewScanHandler(scanService, l)

	scanRoutes := router.Group("/scans")
	{
		scanRoutes.POST("", handlers.StartScan)
		scanRoutes.GET("/:id", handlers.GetScan)
		scanRoutes.POST("/:id/report", handlers.RequestReport)
	}
}
