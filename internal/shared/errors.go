package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates a unique field is already taken.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidID indicates an identifier that cannot name any record.
	ErrInvalidID = errors.New("The Id is not valid.")
)
