package jobad

import (
	"time"

	"gorm.io/datatypes"
)

// JobAd is a posting the user tracks. URL is unique across all ads.
type JobAd struct {
	ID                string                      `gorm:"primaryKey" json:"id"`
	CompanyName       string                      `json:"company_name"`
	JobTitle          string                      `json:"job_title"`
	JobDescription    string                      `json:"job_description"`
	PublishedAt       time.Time                   `json:"published_at"`
	ExpiredAt         *time.Time                  `json:"expired_at"`
	Location          *string                     `json:"location"`
	JobType           string                      `json:"job_type"`
	Source            string                      `json:"source"`
	URL               string                      `gorm:"column:url" json:"url"`
	SkillRequirements datatypes.JSONSlice[string] `json:"skill_requirements"`
	TechStack         datatypes.JSONSlice[string] `json:"tech_stack"`
	SalaryMin         *int                        `json:"salary_min"`
	SalaryMax         *int                        `json:"salary_max"`
	Note              *string                     `json:"note"`
	RecruiterID       *string                     `json:"recruiter_id"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

func (JobAd) TableName() string { return "job_ads" }

// Summary is a list item: the ad plus a plain-text excerpt of its
// description.
type Summary struct {
	*JobAd
	DescriptionExcerpt string `json:"description_excerpt"`
}
