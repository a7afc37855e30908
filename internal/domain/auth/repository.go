package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobtracker/internal/database"
)

type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	Revoke(ctx context.Context, t *RevokedToken) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PruneRevoked deletes revocations whose token expired before now.
	PruneRevoked(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUser(ctx context.Context, u *User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if database.IsUniqueViolation(err) {
		return database.Conflict(err, ErrEmailAlreadyExists)
	}
	return err
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.firstUser(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.firstUser(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *repository) firstUser(q *gorm.DB) (*User, error) {
	var u User
	err := q.First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Revoke is idempotent: revoking the same token twice is not an error.
func (r *repository) Revoke(ctx context.Context, t *RevokedToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(t).Error
}

func (r *repository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RevokedToken{}).Where("jti = ?", jti).Count(&count).Error
	return count > 0, err
}

func (r *repository) PruneRevoked(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&RevokedToken{})
	return res.RowsAffected, res.Error
}
