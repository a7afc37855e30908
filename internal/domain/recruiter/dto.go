package recruiter

// RecruiterRequest is the full writable shape. PATCH bodies are merged onto
// the stored record in this shape and then validated as a whole.
type RecruiterRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Role        string  `json:"role" validate:"omitempty,max=100"`
	WorkingAt   string  `json:"working_at" validate:"required,min=2,max=100"`
	LinkedinURL *string `json:"linkedin_url" validate:"omitempty,url"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Location    *string `json:"location" validate:"omitempty,max=100"`
	Note        *string `json:"note"`
}

var patchableFields = []string{
	"name", "role", "working_at", "linkedin_url", "email", "phone", "location", "note",
}

func requestFrom(r *Recruiter) RecruiterRequest {
	return RecruiterRequest{
		Name:        r.Name,
		Role:        r.Role,
		WorkingAt:   r.WorkingAt,
		LinkedinURL: r.LinkedinURL,
		Email:       r.Email,
		Phone:       r.Phone,
		Location:    r.Location,
		Note:        r.Note,
	}
}

// RecruiterListResponse is a page of recruiters.
type RecruiterListResponse struct {
	Recruiters []*Recruiter `json:"recruiters"`
	Total      int64        `json:"total"`
}
