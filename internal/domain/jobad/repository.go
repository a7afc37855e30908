package jobad

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"jobtracker/internal/database"
)

type Repository interface {
	Create(ctx context.Context, ad *JobAd) error
	GetByID(ctx context.Context, id string) (*JobAd, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]*JobAd, int64, error)
	Update(ctx context.Context, ad *JobAd) error
	SetRecruiter(ctx context.Context, id string, recruiterID *string) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ad *JobAd) error {
	return translate(r.db.WithContext(ctx).Create(ad).Error)
}

func (r *repository) GetByID(ctx context.Context, id string) (*JobAd, error) {
	var ad JobAd
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ad).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobAdNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&JobAd{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns the newest-updated ads first.
func (r *repository) List(ctx context.Context, f ListFilter) ([]*JobAd, int64, error) {
	q := r.db.WithContext(ctx).Model(&JobAd{})
	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(company_name) LIKE ? OR LOWER(job_title) LIKE ?", pattern, pattern)
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.RecruiterID != "" {
		q = q.Where("recruiter_id = ?", f.RecruiterID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ads []*JobAd
	err := q.Order("updated_at DESC").Order("id").Limit(f.Limit).Offset(f.Offset).Find(&ads).Error
	return ads, total, err
}

func (r *repository) Update(ctx context.Context, ad *JobAd) error {
	res := r.db.WithContext(ctx).Select("*").Omit("created_at").Updates(ad)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrJobAdNotFound
	}
	return nil
}

func (r *repository) SetRecruiter(ctx context.Context, id string, recruiterID *string) error {
	res := r.db.WithContext(ctx).Model(&JobAd{}).Where("id = ?", id).Updates(map[string]any{
		"recruiter_id": recruiterID,
		"updated_at":   database.Now(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrJobAdNotFound
	}
	return nil
}

// Delete refuses while an application references the ad, so neither the
// application nor its stored files are orphaned.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var apps int64
		if err := tx.Table("applications").Where("job_ad_id = ?", id).Count(&apps).Error; err != nil {
			return err
		}
		if apps > 0 {
			return ErrHasApplication
		}

		res := tx.Where("id = ?", id).Delete(&JobAd{})
		if database.IsForeignKeyViolation(res.Error) {
			return ErrHasApplication
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJobAdNotFound
		}
		return nil
	})
}

// translate maps constraint violations from inserts and updates onto
// domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return database.Conflict(err, ErrDuplicateURL)
	case database.IsForeignKeyViolation(err):
		// Inserts and updates can only violate the recruiter reference.
		return ErrRecruiterNotFound
	}
	return err
}
