package jobad

import "github.com/gin-gonic/gin"

// RegisterRoutes registers job ad routes under the protected group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	ads := r.Group("/job_ads")
	{
		ads.POST("", h.Create)
		ads.GET("", h.List)
		ads.GET("/:id", h.Get)
		ads.PATCH("/:id", h.Patch)
		ads.DELETE("/:id", h.Delete)
		ads.PATCH("/:id/recruiter", h.SetRecruiter)
	}

	r.GET("/recruiter/:id/job_ads", h.ListByRecruiter)
}
