package applicants

import (
	"errors"
	"net/http"
)

// Domain errors for applicant operations.
var (
	ErrNotFound   = errors.New("application not found")
	ErrDuplicate  = errors.New("application already exists")
	ErrInvalidArg = errors.New("invalid argument")
)

// MapHTTPStatus maps applicant domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidArg) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
