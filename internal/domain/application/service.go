package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker/internal/database"
	"jobtracker/internal/pkg/apperr"
	"jobtracker/internal/pkg/patch"
	"jobtracker/internal/pkg/validator"
)

const seedEventTitle = "Application Created"

// JobAdLookup is the part of the job ad service applications depend on.
type JobAdLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// BlobDeleter removes stored attachment bytes.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

type Service struct {
	repo        Repository
	jobAds      JobAdLookup
	transitions *TransitionTable
	blobs       BlobDeleter
	publisher   Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewService wires the lifecycle manager. A nil transitions table means the
// default one; a nil publisher disables the live feed.
func NewService(repo Repository, jobAds JobAdLookup, transitions *TransitionTable, blobs BlobDeleter, publisher Publisher, logger *slog.Logger) *Service {
	if transitions == nil {
		transitions = DefaultTransitions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		jobAds:      jobAds,
		transitions: transitions,
		blobs:       blobs,
		publisher:   publisher,
		logger:      logger,
		now:         database.Now,
	}
}

// Create inserts the application and its seed timeline event in one
// transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Application, error) {
	req.JobAdID = strings.TrimSpace(req.JobAdID)
	req.Stage = trimOptional(req.Stage)
	if err := validator.Check(&req); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	status := StatusCreated
	if req.Status != nil {
		status = Status(strings.TrimSpace(*req.Status))
		switch {
		case !status.Valid():
			fields["status"] = fmt.Sprintf("unknown status %q", status)
		case status.Terminal():
			fields["status"] = "a new application cannot start in a terminal status"
		}
	}
	applied := parseOptionalDate(fields, "applied_at", req.AppliedAt)
	last := parseOptionalDate(fields, "last_follow_up_at", req.LastFollowUpAt)
	next := parseOptionalDate(fields, "next_follow_up_at", req.NextFollowUpAt)
	checkFollowUps(fields, last, next)
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Fields: fields}
	}

	ok, err := s.jobAds.Exists(ctx, req.JobAdID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrJobAdNotFound
	}

	now := s.now()
	app := &Application{
		ID:             uuid.NewString(),
		JobAdID:        req.JobAdID,
		Status:         status,
		Stage:          status.Label(),
		Note:           req.Note,
		AppliedAt:      applied,
		LastFollowUpAt: last,
		NextFollowUpAt: next,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Stage != nil {
		app.Stage = *req.Stage
	}
	seed := &TimelineEvent{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		EventType:     EventSystem,
		Title:         seedEventTitle,
		CreatedAt:     now,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetByJobAd(ctx, app.JobAdID)
		if err == nil {
			return ErrAlreadyApplied
		}
		if !errors.Is(err, ErrApplicationNotFound) {
			return err
		}
		if err := tx.Create(ctx, app); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, seed)
	})
	if err != nil {
		return nil, err
	}

	s.publish(seed)
	return app, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Application, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByJobAd returns the application of a job ad.
func (s *Service) GetByJobAd(ctx context.Context, jobAdID string) (*Application, error) {
	ok, err := s.jobAds.Exists(ctx, jobAdID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrJobAdNotFound
	}
	return s.repo.GetByJobAd(ctx, jobAdID)
}

// Exists lets the file service check references.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Application, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("status", fmt.Sprintf("unknown status %q", f.Status))
	}
	return s.repo.List(ctx, f)
}

// AdvanceStatus moves the application along the transition table and
// records exactly one timeline event for the move.
func (s *Service) AdvanceStatus(ctx context.Context, id string, req AdvanceRequest) (*Application, error) {
	req.Status = strings.TrimSpace(req.Status)
	req.Stage = trimOptional(req.Stage)
	req.Title = trimOptional(req.Title)
	if err := validator.Check(&req); err != nil {
		return nil, err
	}

	var (
		app *Application
		ev  *TimelineEvent
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		app, err = tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		ev, err = s.advance(ctx, tx, app, Status(req.Status), req.Stage, req.Title, req.Description)
		if err != nil {
			return err
		}
		return tx.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ev)
	return app, nil
}

// Patch applies the allowed fields. A status or stage change goes through
// the same path as AdvanceStatus inside the same transaction.
func (s *Service) Patch(ctx context.Context, id string, body patch.Body) (*Application, error) {
	if err := body.CheckKeys(patchableFields...); err != nil {
		return nil, err
	}

	var req PatchRequest
	if err := body.Decode(&req); err != nil {
		return nil, err
	}
	req.Stage = trimOptional(req.Stage)
	if err := validator.Check(&req); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if body.Has("status") && req.Status == nil {
		fields["status"] = "must not be null"
	}
	if body.Has("stage") && req.Stage == nil {
		fields["stage"] = "must not be empty"
	}
	applied := parseOptionalDate(fields, "applied_at", req.AppliedAt)
	last := parseOptionalDate(fields, "last_follow_up_at", req.LastFollowUpAt)
	next := parseOptionalDate(fields, "next_follow_up_at", req.NextFollowUpAt)
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Fields: fields}
	}

	var (
		app *Application
		ev  *TimelineEvent
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		app, err = tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if body.Has("note") {
			app.Note = req.Note
		}
		if body.Has("applied_at") {
			app.AppliedAt = applied
		}
		if body.Has("last_follow_up_at") {
			app.LastFollowUpAt = last
		}
		if body.Has("next_follow_up_at") {
			app.NextFollowUpAt = next
		}
		rules := map[string]string{}
		checkFollowUps(rules, app.LastFollowUpAt, app.NextFollowUpAt)
		if len(rules) > 0 {
			return &apperr.ValidationError{Fields: rules}
		}

		if body.Has("status") || body.Has("stage") {
			to := app.Status
			if req.Status != nil {
				to = Status(strings.TrimSpace(*req.Status))
			}
			ev, err = s.advance(ctx, tx, app, to, req.Stage, nil, nil)
			if err != nil {
				return err
			}
		}

		app.UpdatedAt = s.now()
		return tx.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ev)
	return app, nil
}

// advance checks the transition, appends its timeline event and mutates app.
// The caller persists app within the same transaction.
func (s *Service) advance(ctx context.Context, tx Repository, app *Application, to Status, stage, title, description *string) (*TimelineEvent, error) {
	if err := s.transitions.Check(app.Status, to); err != nil {
		return nil, err
	}

	newStage := app.Stage
	switch {
	case stage != nil:
		newStage = *stage
	case to != app.Status:
		newStage = to.Label()
	}

	ev := &TimelineEvent{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		EventType:     EventSystem,
		Description:   description,
		CreatedAt:     s.now(),
	}
	switch {
	case title != nil:
		ev.Title = *title
	case to != app.Status:
		ev.Title = fmt.Sprintf("Status changed from %s to %s", app.Status.Label(), to.Label())
	default:
		ev.Title = "Stage changed to " + newStage
	}
	if err := tx.AppendEvent(ctx, ev); err != nil {
		return nil, err
	}

	app.Status = to
	app.Stage = newStage
	app.UpdatedAt = ev.CreatedAt
	return ev, nil
}

// AppendEvent records a manual (or system) note on the timeline.
func (s *Service) AppendEvent(ctx context.Context, id string, req EventRequest) (*TimelineEvent, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.EventType == "" {
		req.EventType = EventManual
	}
	if err := validator.Check(&req); err != nil {
		return nil, err
	}

	ev := &TimelineEvent{
		ID:            uuid.NewString(),
		ApplicationID: id,
		EventType:     req.EventType,
		Title:         req.Title,
		Description:   req.Description,
		CreatedAt:     s.now(),
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetForUpdate(ctx, id); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ev)
	return ev, nil
}

// Timeline returns the events of an application, oldest first.
func (s *Service) Timeline(ctx context.Context, id string) ([]*TimelineEvent, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrApplicationNotFound
	}
	return s.repo.Timeline(ctx, id)
}

// Delete removes the application rows in one transaction, then the stored
// bytes of its files. Bytes that cannot be removed are left for the sweep.
func (s *Service) Delete(ctx context.Context, id string) error {
	keys, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("stored file not removed; left for sweep",
				"application_id", id, "storage_key", key, "error", err)
		}
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx, s.now())
}

func (s *Service) publish(ev *TimelineEvent) {
	if s.publisher == nil || ev == nil {
		return
	}
	s.publisher.Publish(ev.ApplicationID, ev)
}

func parseOptionalDate(fields map[string]string, name string, v *string) *time.Time {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	t, err := validator.ParseDate(*v)
	if err != nil {
		fields[name] = "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
		return nil
	}
	return &t
}

func checkFollowUps(fields map[string]string, last, next *time.Time) {
	if last != nil && next != nil && last.After(*next) {
		fields["next_follow_up_at"] = "must not be before last_follow_up_at"
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
