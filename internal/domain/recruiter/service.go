package recruiter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker/internal/database"
	"jobtracker/internal/pkg/patch"
	"jobtracker/internal/pkg/validator"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req RecruiterRequest) (*Recruiter, error) {
	normalize(&req)
	if err := validator.Check(&req); err != nil {
		return nil, err
	}

	now := database.Now()
	rec := &Recruiter{ID: uuid.NewString(), CreatedAt: now}
	apply(rec, req, now)

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Recruiter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Recruiter, int64, error) {
	recs, total, err := s.repo.List(ctx, limit, offset)
	if recs == nil {
		recs = []*Recruiter{}
	}
	return recs, total, err
}

// Patch updates the allowed fields present in body. The merged record must
// still satisfy the create rules.
func (s *Service) Patch(ctx context.Context, id string, body patch.Body) (*Recruiter, error) {
	if err := body.CheckKeys(patchableFields...); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var req RecruiterRequest
	if err := patch.Merge(requestFrom(rec), body, &req); err != nil {
		return nil, err
	}
	normalize(&req)
	if err := validator.Check(&req); err != nil {
		return nil, err
	}

	apply(rec, req, database.Now())
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Exists lets other packages check references without importing the
// repository.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func normalize(req *RecruiterRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.WorkingAt = strings.TrimSpace(req.WorkingAt)
	req.Role = strings.TrimSpace(req.Role)
	if req.Role == "" {
		req.Role = DefaultRole
	}
}

func apply(rec *Recruiter, req RecruiterRequest, now time.Time) {
	rec.Name = req.Name
	rec.Role = req.Role
	rec.WorkingAt = req.WorkingAt
	rec.LinkedinURL = req.LinkedinURL
	rec.Email = req.Email
	rec.Phone = req.Phone
	rec.Location = req.Location
	rec.Note = req.Note
	rec.UpdatedAt = now
}
