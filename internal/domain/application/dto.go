package application

import "time"

// CreateRequest is the body of POST /application. Dates are accepted as
// 2006-01-02 or RFC 3339.
type CreateRequest struct {
	JobAdID        string  `json:"job_ads_id" validate:"required,uuid"`
	Status         *string `json:"status"`
	Stage          *string `json:"stage" validate:"omitempty,min=1,max=50"`
	Note           *string `json:"note"`
	AppliedAt      *string `json:"applied_at"`
	LastFollowUpAt *string `json:"last_follow_up_at"`
	NextFollowUpAt *string `json:"next_follow_up_at"`
}

// AdvanceRequest moves an application to a new status and/or stage. Title
// and description override the generated timeline entry.
type AdvanceRequest struct {
	Status      string  `json:"status" validate:"required"`
	Stage       *string `json:"stage" validate:"omitempty,min=1,max=50"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

// EventRequest is the body of POST /application/:id/timeline.
type EventRequest struct {
	EventType   EventType `json:"event_type" validate:"omitempty,oneof=system manual"`
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description *string   `json:"description"`
}

// PatchRequest holds the decoded PATCH keys. Dates use the same formats as
// CreateRequest; presence of a null is tracked through the raw body.
type PatchRequest struct {
	Status         *string `json:"status"`
	Stage          *string `json:"stage" validate:"omitempty,min=1,max=50"`
	Note           *string `json:"note"`
	AppliedAt      *string `json:"applied_at"`
	LastFollowUpAt *string `json:"last_follow_up_at"`
	NextFollowUpAt *string `json:"next_follow_up_at"`
}

var patchableFields = []string{
	"status", "stage", "note", "applied_at", "last_follow_up_at", "next_follow_up_at",
}

// ListFilter narrows GET /application.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type ApplicationListResponse struct {
	Applications []*Application `json:"applications"`
	Total        int64          `json:"total"`
}

type TimelineResponse struct {
	Events []*TimelineEvent `json:"events"`
}

// Stats summarises the pipeline. ByStatus always carries every status.
type Stats struct {
	Total            int64            `json:"total"`
	ByStatus         map[Status]int64 `json:"by_status"`
	OverdueFollowUps int64            `json:"overdue_follow_ups"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
