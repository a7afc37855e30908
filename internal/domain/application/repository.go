package application

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"jobtracker/internal/database"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	// GetForUpdate locks the row on Postgres; use it inside Transaction.
	GetForUpdate(ctx context.Context, id string) (*Application, error)
	GetByJobAd(ctx context.Context, jobAdID string) (*Application, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]*Application, int64, error)
	Update(ctx context.Context, app *Application) error

	AppendEvent(ctx context.Context, ev *TimelineEvent) error
	Timeline(ctx context.Context, applicationID string) ([]*TimelineEvent, error)

	// Delete removes the application with its timeline and file rows and
	// returns the storage keys of the removed files.
	Delete(ctx context.Context, id string) ([]string, error)
	Stats(ctx context.Context, now time.Time) (*Stats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) Create(ctx context.Context, app *Application) error {
	err := r.db.WithContext(ctx).Create(app).Error
	switch {
	case database.IsUniqueViolation(err):
		return database.Conflict(err, ErrAlreadyApplied)
	case database.IsForeignKeyViolation(err):
		return ErrJobAdNotFound
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*Application, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *repository) GetForUpdate(ctx context.Context, id string) (*Application, error) {
	return r.first(database.ForUpdate(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r *repository) GetByJobAd(ctx context.Context, jobAdID string) (*Application, error) {
	return r.first(r.db.WithContext(ctx).Where("job_ad_id = ?", jobAdID))
}

func (r *repository) first(q *gorm.DB) (*Application, error) {
	var app Application
	err := q.First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Application{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]*Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&Application{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []*Application
	err := q.Order("updated_at DESC").Order("id").Limit(f.Limit).Offset(f.Offset).Find(&apps).Error
	return apps, total, err
}

func (r *repository) Update(ctx context.Context, app *Application) error {
	res := r.db.WithContext(ctx).Select("*").Omit("created_at", "job_ad_id").Updates(app)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// AppendEvent inserts ev, moving its created_at past the latest existing
// event of the application when the clock has not advanced.
func (r *repository) AppendEvent(ctx context.Context, ev *TimelineEvent) error {
	var last TimelineEvent
	err := r.db.WithContext(ctx).
		Where("application_id = ?", ev.ApplicationID).
		Order("created_at DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return err
	}
	if last.ID != "" && !ev.CreatedAt.After(last.CreatedAt) {
		ev.CreatedAt = last.CreatedAt.Add(time.Microsecond)
	}

	err = r.db.WithContext(ctx).Create(ev).Error
	if database.IsForeignKeyViolation(err) {
		return ErrApplicationNotFound
	}
	return err
}

func (r *repository) Timeline(ctx context.Context, applicationID string) ([]*TimelineEvent, error) {
	var events []*TimelineEvent
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Order("id").
		Find(&events).Error
	return events, err
}

func (r *repository) Delete(ctx context.Context, id string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("files").Where("application_id = ?", id).Pluck("storage_key", &keys).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM files WHERE application_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", id).Delete(&TimelineEvent{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&Application{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrApplicationNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Stats counts applications per status and the open applications whose next
// follow-up is before now.
func (r *repository) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{ByStatus: make(map[Status]int64), GeneratedAt: now}
	for _, s := range AllStatuses() {
		stats.ByStatus[s] = 0
	}

	query, args, err := sq.Select("status", "COUNT(*) AS count").
		From("applications").
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	query, args, err = sq.Select("COUNT(*)").
		From("applications").
		Where(sq.Lt{"next_follow_up_at": now}).
		Where(sq.NotEq{"status": []string{string(StatusAccepted), string(StatusRejected)}}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&stats.OverdueFollowUps).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
