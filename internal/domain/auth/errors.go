package auth

import (
	"fmt"

	"jobtracker/internal/pkg/apperr"
)

const ConstraintEmail = "users_email_key"

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("token has been revoked: %w", apperr.ErrUnauthorized)
	ErrUserNotFound       = &apperr.NotFoundError{Resource: "user"}

	ErrEmailAlreadyExists = &apperr.ConflictError{
		Constraint: ConstraintEmail,
		Message:    "email already registered",
	}

	errUnknownUser = fmt.Errorf("token subject no longer exists: %w", apperr.ErrUnauthorized)
)
