package recruiter

import "time"

const DefaultRole = "Tech Recruiter"

// Recruiter is a contact person at a hiring company. Job ads may reference
// one; deleting the recruiter detaches those ads.
type Recruiter struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	WorkingAt   string    `json:"working_at"`
	LinkedinURL *string   `json:"linkedin_url"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Location    *string   `json:"location"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Recruiter) TableName() string { return "recruiters" }
