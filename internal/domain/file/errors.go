package file

import (
	"errors"

	"jobtracker/internal/pkg/apperr"
)

var (
	ErrFileNotFound        = &apperr.NotFoundError{Resource: "file"}
	ErrContentNotFound     = &apperr.NotFoundError{Resource: "file_content"}
	ErrApplicationNotFound = &apperr.NotFoundError{Resource: "application"}

	ErrEmptyFile = apperr.Validation("file", "file is empty")
	ErrNoFile    = apperr.Validation("file", "is required")

	errStorageKeyTaken = errors.New("storage key already in use")
)
