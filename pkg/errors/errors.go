// Package errors defines the sentinel error taxonomy for the search service
// and the mapping from engine failures to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidText marks control characters in supplied text: a document
	// body, a stop word, or a query.
	ErrInvalidText = errors.New("invalid text")
	// ErrInvalidID marks ingestion with a negative or already-used document id.
	ErrInvalidID = errors.New("document id negative or already exists")
	// ErrInvalidMinusWord marks a malformed exclusion token in a query:
	// a bare "-" or a double leading dash.
	ErrInvalidMinusWord = errors.New("invalid minus word")
	// ErrUnknownDocument marks a lookup of a document id that was never added.
	ErrUnknownDocument = errors.New("unknown document")
	// ErrIndexOutOfRange marks a positional accessor beyond the document count.
	ErrIndexOutOfRange = errors.New("document index out of range")

	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrInternal     = errors.New("internal error")
)

// AppError wraps a sentinel with request-specific detail and an HTTP status.
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

// HTTPStatusCode maps an error to the status the HTTP layer should return.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidID):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidText),
		errors.Is(err, ErrInvalidMinusWord),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownDocument), errors.Is(err, ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
