package application

import "jobtracker/internal/pkg/apperr"

const ConstraintJobAdUnique = "applications_job_ad_id_key"

var (
	ErrApplicationNotFound = &apperr.NotFoundError{Resource: "application"}
	ErrJobAdNotFound       = &apperr.NotFoundError{Resource: "job_ad"}

	ErrAlreadyApplied = &apperr.ConflictError{
		Constraint: ConstraintJobAdUnique,
		Message:    "job ad already has an application",
	}
)
