package file

import "github.com/gin-gonic/gin"

// RegisterRoutes registers attachment routes under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/application/:id/file/upload", h.Upload)
	r.GET("/application/:id/file", h.List)

	files := r.Group("/file")
	{
		files.GET("/:id", h.Get)
		files.GET("/:id/download", h.Download)
		files.GET("/:id/view", h.View)
		files.DELETE("/:id", h.Delete)
	}
}
