package studio

import "errors"

var (
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("studio: validation failed")
	ErrNotFound   = errors.New("studio: not found")
	// ErrFileTooLarge is also an ErrValidation.
	ErrFileTooLarge = &validationError{msg: "studio: file too large"}
	ErrFileType     = &validationError{msg: "studio: file type not allowed"}
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool {
	return target == ErrValidation
}

var errNoFetcher = errors.New("studio: listing has no fetcher")

var errNoAdminSource = errors.New("studio: admin source not configured")
