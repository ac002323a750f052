package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// The remaining kinds map the API's failure responses; each carries the
// server envelope's message as the user-facing string.

type AuthenticationError struct{ msg string }

func NewAuthenticationError(msg string) error  { return &AuthenticationError{msg} }
func (err *AuthenticationError) Error() string { return err.msg }

// AuthorizationError marks an expired or missing credential. The gateway
// resolves these itself when it can (single refresh-and-retry); one reaching
// a store means the refresh path already failed.
type AuthorizationError struct{ msg string }

func NewAuthorizationError(msg string) error  { return &AuthorizationError{msg} }
func (err *AuthorizationError) Error() string { return err.msg }

type ConflictError struct{ msg string }

func NewConflictError(msg string) error  { return &ConflictError{msg} }
func (err *ConflictError) Error() string { return err.msg }

type NotFoundError struct{ msg string }

func NewNotFoundError(msg string) error  { return &NotFoundError{msg} }
func (err *NotFoundError) Error() string { return err.msg }

// NetworkError wraps a transport failure for which no response was received.
type NetworkError struct{ Err error }

func NewNetworkError(err error) error   { return &NetworkError{err} }
func (err *NetworkError) Error() string { return "network error: " + err.Err.Error() }
func (err *NetworkError) Unwrap() error { return err.Err }

type UnknownError struct{ msg string }

func NewUnknownError(msg string) error  { return &UnknownError{msg} }
func (err *UnknownError) Error() string { return err.msg }

// ErrorMessage extracts the single user-displayable string a store records
// for a failed operation.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if vErr, ok := errors.Cause(err).(*ValidationError); ok && len(vErr.Fields) > 0 {
		return vErr.Fields[0].Field + ": " + vErr.Fields[0].Error
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

func IsAuthentication(err error) bool {
	_, ok := errors.Cause(err).(*AuthenticationError)
	return ok
}

func IsAuthorization(err error) bool {
	_, ok := errors.Cause(err).(*AuthorizationError)
	return ok
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsNetwork(err error) bool {
	_, ok := errors.Cause(err).(*NetworkError)
	return ok
}
