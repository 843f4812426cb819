package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound     = errors.New("not_found")
	ErrInvalidState = errors.New("invalid_state")
	ErrInvalidInput = errors.New("invalid_input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream_failure")
	ErrUnavailable  = errors.New("unavailable")
	ErrInternal     = errors.New("internal")
)

// AppError carries an error kind (BaseError), a human-readable message that is
// safe to return to callers, optional details and the underlying cause.
type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.BaseError.Error(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.BaseError.Error(), e.Message)
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.BaseError, e.Err}
	}
	return []error{e.BaseError}
}

func New(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NotFound(msg string) *AppError {
	return New(ErrNotFound, msg, "", nil)
}

func InvalidState(msg string) *AppError {
	return New(ErrInvalidState, msg, "", nil)
}

func InvalidInput(msg string, err error) *AppError {
	return New(ErrInvalidInput, msg, "", err)
}

func Unauthorized(msg string, err error) *AppError {
	return New(ErrUnauthorized, msg, "", err)
}

func Upstream(msg string, err error) *AppError {
	return New(ErrUpstream, msg, "", err)
}

func Unavailable(msg string) *AppError {
	return New(ErrUnavailable, msg, "", nil)
}

func Internal(msg string, err error) *AppError {
	return New(ErrInternal, msg, "", err)
}

// Kind returns the wire name of the error kind ("not_found", "invalid_state", ...).
func Kind(err error) string {
	for _, k := range []error{ErrNotFound, ErrInvalidState, ErrInvalidInput, ErrUnauthorized, ErrUpstream, ErrUnavailable} {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return ErrInternal.Error()
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ToJSON renders err as the uniform response body. Internal causes are never exposed.
func ToJSON(err error) gin.H {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return gin.H{"error": Kind(err), "message": appErr.Message}
	}
	return gin.H{"error": ErrInternal.Error(), "message": "internal server error"}
}
