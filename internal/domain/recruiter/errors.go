package recruiter

import "jobtracker/internal/pkg/apperr"

var ErrRecruiterNotFound = &apperr.NotFoundError{Resource: "recruiter"}
