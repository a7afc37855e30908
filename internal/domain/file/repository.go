package file

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jobtracker/internal/database"
)

type Repository interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, id string) (*File, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*File, error)
	Delete(ctx context.Context, id string) error
	// StorageKeys returns every storage key that has a metadata row.
	StorageKeys(ctx context.Context) (map[string]struct{}, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *File) error {
	err := r.db.WithContext(ctx).Create(f).Error
	switch {
	case database.IsForeignKeyViolation(err):
		return ErrApplicationNotFound
	case database.IsUniqueViolation(err):
		return errStorageKeyTaken
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*File, error) {
	var f File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) ListByApplication(ctx context.Context, applicationID string) ([]*File, error) {
	var files []*File
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Order("id").
		Find(&files).Error
	return files, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&File{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *repository) StorageKeys(ctx context.Context) (map[string]struct{}, error) {
	var keys []string
	if err := r.db.WithContext(ctx).Model(&File{}).Pluck("storage_key", &keys).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}
