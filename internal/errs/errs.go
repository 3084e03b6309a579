// Package errs defines the error taxonomy shared by every manager. Store
// failures never escape a manager as raw driver errors; they are wrapped
// with a Kind so callers can branch on cause.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a manager failure.
type Kind int

const (
	// Persistence covers unreachable stores and constraint violations.
	Persistence Kind = iota
	// Validation covers missing fields, malformed numbers and illegal
	// status transitions.
	Validation
	// NotFound means a referenced id is absent.
	NotFound
	// InsufficientStock means a sale would drive stock below zero.
	InsufficientStock
)

func (k Kind) String() string {
	switch k {
	case Persistence:
		return "persistence"
	case Validation:
		return "validation"
	case NotFound:
		return "not found"
	case InsufficientStock:
		return "insufficient stock"
	}
	return "unknown"
}

// Error carries the failing operation and its classification.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind and operation name.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) carries kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
