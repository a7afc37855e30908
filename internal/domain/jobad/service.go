package jobad

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"jobtracker/internal/database"
	"jobtracker/internal/pkg/apperr"
	"jobtracker/internal/pkg/patch"
	"jobtracker/internal/pkg/richtext"
	"jobtracker/internal/pkg/validator"
)

const (
	minDescriptionChars = 2
	excerptChars        = 200
)

// RecruiterLookup is the part of the recruiter service job ads depend on.
type RecruiterLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo       Repository
	recruiters RecruiterLookup
}

func NewService(repo Repository, recruiters RecruiterLookup) *Service {
	return &Service{repo: repo, recruiters: recruiters}
}

func (s *Service) Create(ctx context.Context, req JobAdRequest) (*JobAd, error) {
	now := database.Now()
	ad := &JobAd{ID: uuid.NewString(), CreatedAt: now}

	if err := s.prepare(ctx, ad, req, now); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *Service) Get(ctx context.Context, id string) (*JobAd, error) {
	return s.repo.GetByID(ctx, id)
}

// Exists lets the application service check references.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Summary, int64, error) {
	ads, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	items := make([]Summary, 0, len(ads))
	for _, ad := range ads {
		items = append(items, Summary{
			JobAd:              ad,
			DescriptionExcerpt: richtext.Excerpt(ad.JobDescription, excerptChars),
		})
	}
	return items, total, nil
}

// ListByRecruiter lists the ads of one recruiter, or 404 if it is unknown.
func (s *Service) ListByRecruiter(ctx context.Context, recruiterID string, limit, offset int) ([]Summary, int64, error) {
	if err := s.requireRecruiter(ctx, recruiterID); err != nil {
		return nil, 0, err
	}
	return s.List(ctx, ListFilter{RecruiterID: recruiterID, Limit: limit, Offset: offset})
}

// Patch merges body onto the stored ad and validates the result as a whole.
func (s *Service) Patch(ctx context.Context, id string, body patch.Body) (*JobAd, error) {
	if err := body.CheckKeys(patchableFields...); err != nil {
		return nil, err
	}

	ad, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var req JobAdRequest
	if err := patch.Merge(requestFrom(ad), body, &req); err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, ad, req, database.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// SetRecruiter attaches the ad to a recruiter, or detaches it when
// recruiterID is nil. The recruiter itself is never modified.
func (s *Service) SetRecruiter(ctx context.Context, id string, recruiterID *string) (*JobAd, error) {
	if recruiterID != nil {
		if err := s.requireRecruiter(ctx, *recruiterID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.SetRecruiter(ctx, id, recruiterID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// prepare validates req and copies it onto ad.
func (s *Service) prepare(ctx context.Context, ad *JobAd, req JobAdRequest, now time.Time) error {
	normalize(&req)
	if err := validator.Check(&req); err != nil {
		return err
	}

	published, expired, err := checkRules(req)
	if err != nil {
		return err
	}

	if req.RecruiterID != nil {
		if err := s.requireRecruiter(ctx, *req.RecruiterID); err != nil {
			return err
		}
	}

	ad.CompanyName = req.CompanyName
	ad.JobTitle = req.JobTitle
	ad.JobDescription = req.JobDescription
	ad.PublishedAt = published
	ad.ExpiredAt = expired
	ad.Location = req.Location
	ad.JobType = req.JobType
	ad.Source = req.Source
	ad.URL = req.URL
	ad.SkillRequirements = datatypes.JSONSlice[string](req.SkillRequirements)
	ad.TechStack = datatypes.JSONSlice[string](req.TechStack)
	ad.SalaryMin = req.SalaryMin
	ad.SalaryMax = req.SalaryMax
	ad.Note = req.Note
	ad.RecruiterID = req.RecruiterID
	ad.UpdatedAt = now
	return nil
}

func (s *Service) requireRecruiter(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("recruiter_id", "must be a valid UUID")
	}
	ok, err := s.recruiters.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRecruiterNotFound
	}
	return nil
}

// checkRules applies the cross-field rules the struct tags cannot express.
func checkRules(req JobAdRequest) (published time.Time, expired *time.Time, err error) {
	fields := map[string]string{}

	if utf8.RuneCountInString(richtext.PlainText(req.JobDescription)) < minDescriptionChars {
		fields["job_description"] = "must contain at least 2 characters of text"
	}

	published, perr := validator.ParseDate(req.PublishedAt)
	if perr != nil {
		fields["published_at"] = "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
	}
	if req.ExpiredAt != nil {
		t, eerr := validator.ParseDate(*req.ExpiredAt)
		switch {
		case eerr != nil:
			fields["expired_at"] = "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
		case perr == nil && t.Before(published):
			fields["expired_at"] = "must not be before published_at"
		default:
			expired = &t
		}
	}

	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMax < *req.SalaryMin {
		fields["salary_max"] = "must be greater than or equal to salary_min"
	}

	if len(fields) > 0 {
		return time.Time{}, nil, &apperr.ValidationError{Fields: fields}
	}
	return published, expired, nil
}

func normalize(req *JobAdRequest) {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.JobType = strings.TrimSpace(req.JobType)
	req.Source = strings.TrimSpace(req.Source)
	req.URL = strings.TrimSpace(req.URL)
	req.Location = trimOptional(req.Location)
	req.RecruiterID = trimOptional(req.RecruiterID)
	if req.SkillRequirements == nil {
		req.SkillRequirements = []string{}
	}
	if req.TechStack == nil {
		req.TechStack = []string{}
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
