// Package apperr classifies failures so handlers know what to tell the user
// and what to log.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the error class.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindTransient
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindTransient:
		return "transient"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// GenericMessage is shown for every failure without a more specific text.
const GenericMessage = "Ein unerwarteter Fehler ist aufgetreten."

// Error is a classified error carrying the text shown to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and user message to err.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

// Storage wraps a store failure; message is what the user sees.
func Storage(err error, message string) *Error { return Wrap(err, KindStorage, message) }

// From normalises any error into an *Error. Unclassified errors become internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, KindInternal, GenericMessage)
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	e := From(err)
	if e == nil {
		return KindInternal
	}
	return e.Kind
}

// UserMessage returns the text to show the user for err.
func UserMessage(err error) string {
	e := From(err)
	if e == nil || e.Message == "" {
		return GenericMessage
	}
	return e.Message
}

// ShouldLog reports whether err is a system failure rather than a user mistake.
func ShouldLog(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindNotFound, KindForbidden:
		return false
	default:
		return true
	}
}
