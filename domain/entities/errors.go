package entities

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of locating and acting on elements
type ErrorKind string

const (
	ElementNotFound       ErrorKind = "element-not-found"
	ActionNotInteractable ErrorKind = "action-not-interactable"
	CaptchaMismatch       ErrorKind = "captcha-mismatch"
	VerificationFailed    ErrorKind = "verification-failed"
	UnexpectedCondition   ErrorKind = "unexpected-condition"
)

// Error is a classified failure tied to the role it happened on
type Error struct {
	Kind ErrorKind
	Role Role
	Err  error
}

// NewError - creates a classified error
func NewError(kind ErrorKind, role Role, err error) *Error {
	return &Error{Kind: kind, Role: role, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Role != "" {
		msg += " [" + string(e.Role) + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries the given kind anywhere in its chain
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, UnexpectedCondition when err is unclassified
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnexpectedCondition
}

// Driver conditions the browser adapters translate their native faults into.
var (
	ErrStaleElement     = errors.New("stale element reference")
	ErrNotInteractable  = errors.New("element not interactable")
	ErrClickIntercepted = errors.New("element click intercepted")
	ErrNoSuchElement    = errors.New("no such element")
)

// IsTransient reports whether err is a condition worth retrying with another mechanism
func IsTransient(err error) bool {
	return errors.Is(err, ErrStaleElement) ||
		errors.Is(err, ErrNotInteractable) ||
		errors.Is(err, ErrClickIntercepted)
}

// Transient - wraps a native driver error with the condition it represents
func Transient(condition, err error) error {
	return fmt.Errorf("%w: %v", condition, err)
}
