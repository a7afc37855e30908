package auth

import "time"

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// RevokedToken blocks a signed-out token until it would have expired anyway.
type RevokedToken struct {
	JTI       string    `gorm:"column:jti;primaryKey"`
	UserID    string    `gorm:"column:user_id"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	RevokedAt time.Time `gorm:"column:revoked_at"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }
