// Package app wires repositories, services and HTTP handlers together.
package app

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"jobtracker/internal/config"
	"jobtracker/internal/domain/application"
	"jobtracker/internal/domain/auth"
	"jobtracker/internal/domain/file"
	"jobtracker/internal/domain/jobad"
	"jobtracker/internal/domain/recruiter"
	"jobtracker/internal/pkg/jwt"
	"jobtracker/internal/storage"
)

// Services holds every domain service. The API server and the admin CLI
// build the same graph.
type Services struct {
	Auth         *auth.Service
	Recruiters   *recruiter.Service
	JobAds       *jobad.Service
	Applications *application.Service
	Files        *file.Service
	Hub          *application.Hub
}

func NewServices(cfg *config.Config, db *gorm.DB, store storage.Store, logger *slog.Logger) (*Services, error) {
	transitions, err := application.NewTransitionTable(cfg.Transitions)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	hub := application.NewHub(cfg.CORSAllowedOrigins, logger)
	recruiters := recruiter.NewService(recruiter.NewRepository(db))
	jobAds := jobad.NewService(jobad.NewRepository(db), recruiters)
	applications := application.NewService(application.NewRepository(db), jobAds, transitions, store, hub, logger)

	return &Services{
		Auth:         auth.NewService(auth.NewRepository(db), jwt.New(cfg.JWTSecret, cfg.JWTTTL)),
		Recruiters:   recruiters,
		JobAds:       jobAds,
		Applications: applications,
		Files:        file.NewService(file.NewRepository(db), applications, store, cfg.Upload.MaxBytes, logger),
		Hub:          hub,
	}, nil
}
