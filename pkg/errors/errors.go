package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL      = errors.New("please enter a website URL")
	ErrInvalidEmail    = errors.New("please enter a valid email address")
	ErrInvalidPlatform = errors.New("unknown platform")
	ErrRateLimited     = errors.New("too many scans requested, please wait a moment and try again")
	ErrNotFound        = errors.New("not found")
)

// RequestError is returned by the backend client for any failed call. Message
// is safe to show to the user.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func NewRequestError(op string, statusCode int, message string, err error) *RequestError {
	return &RequestError{
		Op:         op,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// AsRequestError unwraps err into a *RequestError when it is one.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

type ConfigError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

func NewConfigError(field string, value interface{}, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Is and As re-export the standard helpers so callers need only one import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
