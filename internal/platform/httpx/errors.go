// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("duplicate entry")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Internal reports whether err falls outside the sentinel taxonomy and will
// surface as a 500. Callers log such errors with detail before responding.
func Internal(err error) bool {
	for _, sentinel := range []error{
		ErrNotFound, ErrDuplicate, ErrValidation,
		ErrForbidden, ErrUnauthorized, ErrInvalidCredentials,
	} {
		if errors.Is(err, sentinel) {
			return false
		}
	}
	return true
}

// RespondError maps domain errors to HTTP responses using RFC7807. Anything
// outside the sentinel set is treated as internal: the caller is expected to
// have logged the detail, the client only sees a generic body.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		Problem(w, http.StatusBadRequest, "Invalid Credentials", ErrInvalidCredentials.Error())
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
