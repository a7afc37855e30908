package application

import "time"

// Status is the position of an application in the hiring pipeline.
type Status string

const (
	StatusCreated        Status = "created"
	StatusApplied        Status = "applied"
	StatusScreening      Status = "screening"
	StatusInterview      Status = "interview"
	StatusFinalInterview Status = "final_interview"
	StatusOffer          Status = "offer"
	StatusAccepted       Status = "accepted"
	StatusRejected       Status = "rejected"
)

// progression lists the non-terminal statuses in pipeline order.
var progression = []Status{
	StatusCreated,
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusFinalInterview,
	StatusOffer,
}

var statusLabels = map[Status]string{
	StatusCreated:        "Created",
	StatusApplied:        "Applied",
	StatusScreening:      "Screening",
	StatusInterview:      "Interview",
	StatusFinalInterview: "Final Interview",
	StatusOffer:          "Offer",
	StatusAccepted:       "Accepted",
	StatusRejected:       "Rejected",
}

// AllStatuses returns every status, terminals last.
func AllStatuses() []Status {
	out := append([]Status{}, progression...)
	return append(out, StatusAccepted, StatusRejected)
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal statuses have no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Label is the default stage text for s.
func (s Status) Label() string {
	return statusLabels[s]
}

// Application tracks the pursuit of exactly one job ad.
type Application struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	JobAdID        string     `gorm:"column:job_ad_id" json:"job_ads_id"`
	Status         Status     `json:"status"`
	Stage          string     `json:"stage"`
	Note           *string    `json:"note"`
	AppliedAt      *time.Time `json:"applied_at"`
	LastFollowUpAt *time.Time `json:"last_follow_up_at"`
	NextFollowUpAt *time.Time `json:"next_follow_up_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

type EventType string

const (
	EventSystem EventType = "system"
	EventManual EventType = "manual"
)

// TimelineEvent is an append-only history entry. Within one application,
// created_at is strictly increasing in insertion order.
type TimelineEvent struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	ApplicationID string    `json:"application_id"`
	EventType     EventType `json:"event_type"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func (TimelineEvent) TableName() string { return "application_timeline" }
