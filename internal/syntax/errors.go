package syntax

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies per-file failures.
type ErrorKind string

const (
	ErrUnsupportedLanguage ErrorKind = "UnsupportedLanguage"
	ErrSyntax              ErrorKind = "SyntaxError"
	ErrCancelled           ErrorKind = "Cancelled"
	ErrInternal            ErrorKind = "Internal"
)

// Error is a structured per-file failure. Line and Col are only meaningful
// for ErrSyntax.
type Error struct {
	Kind    ErrorKind
	Line    uint32
	Col     uint32
	Message string
}

func (e *Error) Error() string {
	if e.Kind == ErrSyntax {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unsupported returns an ErrUnsupportedLanguage error for lang.
func Unsupported(lang string) *Error {
	return &Error{Kind: ErrUnsupportedLanguage, Message: fmt.Sprintf("unsupported language: %q", lang)}
}

// KindOf classifies err. Context cancellation maps to ErrCancelled and
// anything unrecognised to ErrInternal.
func KindOf(err error) ErrorKind {
	var se *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return se.Kind
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCancelled
	default:
		return ErrInternal
	}
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
