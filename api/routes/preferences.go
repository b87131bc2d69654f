package routes

import (
	"a11yowl/internal/handlers"
	"a11yowl/internal/services"
	"a11yowl/pkg/logger"

	"github.com/gin-gonic/gin"
)

func InitPreferenceRoutes(router *gin.RouterGroup, prefService services.PreferenceServiceMethods, l *logger.Logger) {
	handlers := handlers.NewPreferenceHandler(prefService, l)

	prefRoutes := router.Group("/preferences")
	{
		prefRoutes.GET("/platform", handlers.GetPlatform)
		prefRoutes.PUT("/platform", handlers.SetPlatform)
		prefRoutes.DELETE("/platform", handlers.ClearPlatform)
	}
}
