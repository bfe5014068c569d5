package httpx

import (
	"errors"
	"net/http"

	"github.com/store-mgmt/store-api/internal/shared"
)

// RespondError maps domain errors to HTTP responses. fallback is the error
// label used for unclassified failures.
func RespondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrInvalidID), errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Error(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
