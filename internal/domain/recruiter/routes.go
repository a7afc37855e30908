package recruiter

import "github.com/gin-gonic/gin"

// RegisterRoutes registers recruiter routes under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	recruiters := r.Group("/recruiter")
	{
		recruiters.POST("", h.Create)
		recruiters.GET("", h.List)
		recruiters.GET("/:id", h.Get)
		recruiters.PATCH("/:id", h.Patch)
		recruiters.DELETE("/:id", h.Delete)
	}
}
