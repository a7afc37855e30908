package jobad

import "time"

// JobAdRequest is the full writable shape of a job ad. Dates are accepted as
// 2006-01-02 or RFC 3339.
type JobAdRequest struct {
	CompanyName       string   `json:"company_name" validate:"required,min=2,max=50"`
	JobTitle          string   `json:"job_title" validate:"required,min=2,max=50"`
	JobDescription    string   `json:"job_description" validate:"required"`
	PublishedAt       string   `json:"published_at" validate:"required"`
	ExpiredAt         *string  `json:"expired_at"`
	Location          *string  `json:"location" validate:"omitempty,max=50"`
	JobType           string   `json:"job_type" validate:"required,min=2,max=50"`
	Source            string   `json:"source" validate:"required,min=2,max=50"`
	URL               string   `json:"url" validate:"required,url"`
	SkillRequirements []string `json:"skill_requirements" validate:"omitempty,dive,required,max=100"`
	TechStack         []string `json:"tech_stack" validate:"omitempty,dive,required,max=100"`
	SalaryMin         *int     `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax         *int     `json:"salary_max" validate:"omitempty,gte=0"`
	Note              *string  `json:"note"`
	RecruiterID       *string  `json:"recruiter_id" validate:"omitempty,uuid"`
}

var patchableFields = []string{
	"company_name", "job_title", "job_description", "published_at", "expired_at",
	"location", "job_type", "source", "url", "skill_requirements", "tech_stack",
	"salary_min", "salary_max", "note", "recruiter_id",
}

func requestFrom(ad *JobAd) JobAdRequest {
	req := JobAdRequest{
		CompanyName:       ad.CompanyName,
		JobTitle:          ad.JobTitle,
		JobDescription:    ad.JobDescription,
		PublishedAt:       ad.PublishedAt.Format(time.RFC3339),
		Location:          ad.Location,
		JobType:           ad.JobType,
		Source:            ad.Source,
		URL:               ad.URL,
		SkillRequirements: ad.SkillRequirements,
		TechStack:         ad.TechStack,
		SalaryMin:         ad.SalaryMin,
		SalaryMax:         ad.SalaryMax,
		Note:              ad.Note,
		RecruiterID:       ad.RecruiterID,
	}
	if ad.ExpiredAt != nil {
		s := ad.ExpiredAt.Format(time.RFC3339)
		req.ExpiredAt = &s
	}
	return req
}

// ListFilter narrows GET /job_ads. Empty fields are ignored.
type ListFilter struct {
	Query       string
	JobType     string
	Source      string
	RecruiterID string
	Limit       int
	Offset      int
}

type JobAdListResponse struct {
	JobAds []Summary `json:"job_ads"`
	Total  int64     `json:"total"`
}

// RecruiterLinkRequest is the body of PATCH /job_ads/:id/recruiter. A null
// recruiter_id detaches the recruiter.
type RecruiterLinkRequest struct {
	RecruiterID *string `json:"recruiter_id" validate:"omitempty,uuid"`
}
