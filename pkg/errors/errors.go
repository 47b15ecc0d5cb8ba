package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/arjun-iyer/corpusengine/internal/engine"
)

var (
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrTimeout      = errors.New("operation timed out")
	ErrBadUpstream  = errors.New("upstream dependency unavailable")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error returned by the HTTP handlers to a status
// code. It recognises the engine's own sentinel errors directly, so
// handlers can return them unwrapped and still get the right response.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, engine.ErrUnknownID):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNegativeID),
		errors.Is(err, engine.ErrInvalidWord),
		errors.Is(err, engine.ErrInvalidStopWord),
		errors.Is(err, engine.ErrEmptyQueryWord),
		errors.Is(err, engine.ErrInvalidCharacter),
		errors.Is(err, engine.ErrDoubleMinus),
		errors.Is(err, engine.ErrTrailingMinus):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadUpstream), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
