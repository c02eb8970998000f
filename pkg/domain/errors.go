package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Kinds are plain values: errors are built where the
// failure happens and matched with errors.Is(err, KindNoMatch).
type Kind int

const (
	KindUnknown Kind = iota
	// KindNoMatch means filtering produced no device.
	KindNoMatch
	// KindInvalidSelector means the version selectors cannot be combined.
	KindInvalidSelector
	// KindInvalidPattern means a name pattern does not compile.
	KindInvalidPattern
	// KindUnavailableInventory means the inventory could not be fetched or decoded.
	KindUnavailableInventory
)

func (k Kind) String() string {
	switch k {
	case KindNoMatch:
		return "no match"
	case KindInvalidSelector:
		return "invalid selector"
	case KindInvalidPattern:
		return "invalid pattern"
	case KindUnavailableInventory:
		return "unavailable inventory"
	default:
		return "unknown"
	}
}

// Error lets a bare Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// ExitCode is the process exit status used by the CLI for this kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindInvalidSelector, KindInvalidPattern:
		return 2
	case KindUnavailableInventory:
		return 3
	default:
		return 1
	}
}

// Error is a failure of a given Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error of the given kind around a cause.
func WrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error or a bare Kind of the same kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the kind of the first *Error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
