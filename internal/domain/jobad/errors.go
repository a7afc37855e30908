package jobad

import "jobtracker/internal/pkg/apperr"

const (
	ConstraintURL             = "job_ads_url_key"
	ConstraintApplicationFKey = "applications_job_ad_id_fkey"
)

var (
	ErrJobAdNotFound     = &apperr.NotFoundError{Resource: "job_ad"}
	ErrRecruiterNotFound = &apperr.NotFoundError{Resource: "recruiter"}

	ErrDuplicateURL = &apperr.ConflictError{
		Constraint: ConstraintURL,
		Message:    "a job ad with this url already exists",
	}
	ErrHasApplication = &apperr.ConflictError{
		Constraint: ConstraintApplicationFKey,
		Message:    "job ad has an application; delete the application first",
	}
)
