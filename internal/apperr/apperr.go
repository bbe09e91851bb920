// Package apperr defines the error taxonomy every core procedure returns.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is one of the categories a caller-facing procedure can fail with.
type Kind string

const (
	NotFound   Kind = "not_found"
	Forbidden  Kind = "forbidden"
	Conflict   Kind = "conflict"
	BadRequest Kind = "bad_request"
	Eliminated Kind = "eliminated"
)

// Error wraps an underlying cause with a Kind a transport layer can map to
// a status code without inspecting message text.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, msg: msg, cause: cause}
}

// KindOf reports the Kind of err, or "" if err was not produced by this
// package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }
