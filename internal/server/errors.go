package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spigell/search-calculator/internal/share"
)

// ErrValidation indicates a request body that failed validation.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBadRequest indicates a body that could not be decoded.
type ErrBadRequest struct {
	Reason string
}

func (e *ErrBadRequest) Error() string {
	return "bad request: " + e.Reason
}

// ErrBodyTooLarge indicates a body over the configured limit.
type ErrBodyTooLarge struct {
	Limit int64
}

func (e *ErrBodyTooLarge) Error() string {
	return "Request too large"
}

// HTTPStatus returns the status code for an error returned by a handler.
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		badRequest *ErrBadRequest
		tooLarge   *ErrBodyTooLarge
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, share.ErrInvalidToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal errors from clients.
func publicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	if errors.Is(err, share.ErrInvalidToken) {
		return share.ErrInvalidToken.Error()
	}
	return err.Error()
}
