package recruiter

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, r *Recruiter) error
	GetByID(ctx context.Context, id string) (*Recruiter, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Recruiter, int64, error)
	Update(ctx context.Context, r *Recruiter) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *Recruiter) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Recruiter, error) {
	var rec Recruiter
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecruiterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Recruiter{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]*Recruiter, int64, error) {
	var (
		recs  []*Recruiter
		total int64
	)
	q := r.db.WithContext(ctx).Model(&Recruiter{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&recs).Error
	return recs, total, err
}

func (r *repository) Update(ctx context.Context, rec *Recruiter) error {
	res := r.db.WithContext(ctx).Select("*").Omit("created_at").Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecruiterNotFound
	}
	return nil
}

// Delete detaches every job ad pointing at the recruiter and removes it,
// in one transaction. Job ads are never deleted here.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("job_ads").
			Where("recruiter_id = ?", id).
			Update("recruiter_id", nil).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&Recruiter{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecruiterNotFound
		}
		return nil
	})
}
