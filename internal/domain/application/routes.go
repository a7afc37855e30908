package application

import "github.com/gin-gonic/gin"

// RegisterRoutes registers application routes under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	apps := r.Group("/application")
	{
		apps.POST("", h.Create)
		apps.GET("", h.List)
		apps.GET("/stats", h.Stats)
		apps.GET("/:id", h.Get)
		apps.PATCH("/:id", h.Patch)
		apps.DELETE("/:id", h.Delete)
		apps.POST("/:id/status", h.AdvanceStatus)
		apps.GET("/:id/timeline", h.Timeline)
		apps.POST("/:id/timeline", h.AppendEvent)
		apps.GET("/:id/timeline/ws", h.Feed)
	}

	r.GET("/job_ads/:id/application", h.GetByJobAd)
}
