package models

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per user-visible failure.
var (
	ErrDuplicateUser              = errors.New("username already exists")
	ErrWeakPassword               = errors.New("password does not meet the policy")
	ErrPasswordMismatch           = errors.New("passwords do not match")
	ErrInvalidCredentials         = errors.New("invalid username or password")
	ErrOcrUnavailable             = errors.New("ocr unavailable")
	ErrDataUnavailable            = errors.New("data unavailable")
	ErrInsufficientNumericColumns = errors.New("insufficient numeric columns")
	ErrInvalidInput               = errors.New("invalid input")
)

// ErrorKind classifies errors for rendering.
type ErrorKind string

const (
	KindDuplicateUser              ErrorKind = "duplicate_user"
	KindWeakPassword               ErrorKind = "weak_password"
	KindPasswordMismatch           ErrorKind = "password_mismatch"
	KindInvalidCredentials         ErrorKind = "invalid_credentials"
	KindOcrUnavailable             ErrorKind = "ocr_unavailable"
	KindDataUnavailable            ErrorKind = "data_unavailable"
	KindInsufficientNumericColumns ErrorKind = "insufficient_numeric_columns"
	KindInvalidInput               ErrorKind = "invalid_input"
)

var sentinels = map[ErrorKind]error{
	KindDuplicateUser:              ErrDuplicateUser,
	KindWeakPassword:               ErrWeakPassword,
	KindPasswordMismatch:           ErrPasswordMismatch,
	KindInvalidCredentials:         ErrInvalidCredentials,
	KindOcrUnavailable:             ErrOcrUnavailable,
	KindDataUnavailable:            ErrDataUnavailable,
	KindInsufficientNumericColumns: ErrInsufficientNumericColumns,
	KindInvalidInput:               ErrInvalidInput,
}

// OpError wraps an underlying error with the operation and its kind.
type OpError struct {
	Op    string
	Kind  ErrorKind
	Field string // Optional: offending form field
	Err   error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match an OpError against the sentinel of its kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// NewError builds an OpError. err may be nil.
func NewError(op string, kind ErrorKind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// FieldError builds an InvalidInput OpError for a single form field.
func FieldError(op, field, msg string) *OpError {
	return &OpError{
		Op:    op,
		Kind:  KindInvalidInput,
		Field: field,
		Err:   errors.New(msg),
	}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not an OpError.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}
