// Package apperr defines the error classes that handlers translate into
// HTTP statuses: validation (400), not found (404), conflict (409) and
// payload too large (413). Anything else is treated as internal.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

// ValidationError carries field-level detail keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation builds a ValidationError for a single field.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NotFoundError reports an unknown id or an unknown foreign key target.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// Code returns the machine readable error code, e.g. JOB_AD_NOT_FOUND.
func (e *NotFoundError) Code() string {
	return strings.ToUpper(e.Resource) + "_NOT_FOUND"
}

// ConflictError reports a violated unique (or restricting foreign key) constraint.
type ConflictError struct {
	Constraint string
	Message    string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "constraint " + e.Constraint + " violated"
}

// ErrTooLarge is returned when a payload exceeds a configured ceiling.
var ErrTooLarge = errors.New("payload exceeds maximum allowed size")

// ErrUnauthorized is returned for missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
