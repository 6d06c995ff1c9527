package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linepay_backend/internal/handlers"
)

// RegisterRoutes mounts the webhook, the admin API and the health
// probe.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "linepay_backend",
		})
	})

	root := ginRouter.Group("")
	appHandlers.WebhookHandler.RegisterRoutes(root)

	api := ginRouter.Group("/api")
	{
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.ScheduleHandler.RegisterRoutes(api)
	}
}
