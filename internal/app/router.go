package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobtracker/internal/config"
	"jobtracker/internal/domain/application"
	"jobtracker/internal/domain/auth"
	"jobtracker/internal/domain/file"
	"jobtracker/internal/domain/jobad"
	"jobtracker/internal/domain/recruiter"
	"jobtracker/internal/middleware"
	"jobtracker/internal/pkg/response"
)

// NewRouter builds the HTTP API. Everything except signup, signin and the
// health check requires a bearer token.
func NewRouter(cfg *config.Config, db *gorm.DB, svc *Services, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes
	r.Use(middleware.ErrorLogger(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", health(db))

	authHandler := auth.NewHandler(svc.Auth)

	public := r.Group("")
	authHandler.RegisterPublicRoutes(public)

	protected := r.Group("")
	protected.Use(middleware.JWTAuth(svc.Auth))
	{
		authHandler.RegisterProtectedRoutes(protected)
		recruiter.RegisterRoutes(protected, recruiter.NewHandler(svc.Recruiters))
		jobad.RegisterRoutes(protected, jobad.NewHandler(svc.JobAds))
		application.RegisterRoutes(protected, application.NewHandler(svc.Applications, svc.Hub, logger))
		file.RegisterRoutes(protected, file.NewHandler(svc.Files))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})
	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database is unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
