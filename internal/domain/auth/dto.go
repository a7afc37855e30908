package auth

import "time"

// CredentialsRequest is the body of signup and signin. bcrypt ignores
// anything past 72 bytes, so longer passwords are refused.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
