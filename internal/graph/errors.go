package graph

import (
	"errors"

	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/internal/shared"
)

// Extension codes attached to field errors.
const (
	CodeForbidden = "FORBIDDEN"
	CodeBadInput  = "BAD_USER_INPUT"
	CodeNotFound  = "NOT_FOUND"
	CodeConflict  = "CONFLICT"
	CodeInternal  = "INTERNAL_SERVER_ERROR"
)

// FieldError is a resolver error carrying a GraphQL extension code.
type FieldError struct {
	Message string
	Code    string
	cause   error
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return e.cause }

// Extensions implements gqlerrors.ExtendedError.
func (e *FieldError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

var _ gqlerrors.ExtendedError = (*FieldError)(nil)

func denied() error {
	return &FieldError{Message: rbac.MsgAccessDenied, Code: CodeForbidden, cause: rbac.ErrPermissionDenied}
}

// fieldError classifies err for the client.
func fieldError(err error) error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe
	}
	switch {
	case errors.Is(err, shared.ErrInvalidID):
		return &FieldError{Message: shared.ErrInvalidID.Error(), Code: CodeBadInput, cause: err}
	case errors.Is(err, shared.ErrValidation):
		return &FieldError{Message: err.Error(), Code: CodeBadInput, cause: err}
	case errors.Is(err, shared.ErrNotFound):
		return &FieldError{Message: err.Error(), Code: CodeNotFound, cause: err}
	case errors.Is(err, shared.ErrDuplicate):
		return &FieldError{Message: err.Error(), Code: CodeConflict, cause: err}
	default:
		return &FieldError{Message: err.Error(), Code: CodeInternal, cause: err}
	}
}
