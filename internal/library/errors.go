// file: internal/library/errors.go
// version: 1.0.0
// guid: 5804d929-0e98-470d-b5ef-6b294c533b82

package library

import (
	"errors"
	"fmt"
)

// ErrorKind classifies business failures so the presentation layer can map them
// to transport responses without inspecting messages.
type ErrorKind string

const (
	KindDuplicateCatalogNumber ErrorKind = "duplicate_catalog_number"
	KindInvalidArgument        ErrorKind = "invalid_argument"
	KindNotFound               ErrorKind = "not_found"
	KindBookAlreadyLent        ErrorKind = "book_already_lent"
)

// Canonical messages. They double as message-catalog keys in internal/i18n.
const (
	MsgDuplicateCatalogNumber = "catalog number already registered"
	MsgBookRequired           = "book must not be null"
	MsgBookIDRequired         = "book identifier must be present"
	MsgBookNotFound           = "book not found"
	MsgBookNotFoundForISBN    = "book not found for catalog number %s"
	MsgCatalogNumberRequired  = "catalog number must not be empty"
	MsgCustomerRequired       = "customer must not be empty"
	MsgUnsupportedSortField   = "unsupported sort field %s"
	MsgBookAlreadyLent        = "book is already lent"
)

// Error is a business failure carrying one user-facing message.
type Error struct {
	Kind    ErrorKind
	Message string
	Args    []any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Args) > 0 {
		msg = fmt.Sprintf(e.Message, e.Args...)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is works against the
// exported sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Kind-only sentinels for errors.Is.
var (
	ErrDuplicateCatalogNumber = &Error{Kind: KindDuplicateCatalogNumber}
	ErrInvalidArgument        = &Error{Kind: KindInvalidArgument}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrBookAlreadyLent        = &Error{Kind: KindBookAlreadyLent}
)

func newError(kind ErrorKind, msg string, args ...any) *Error {
	return &Error{Kind: kind, Message: msg, Args: args}
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsDuplicateCatalogNumber(err error) bool { return KindOf(err) == KindDuplicateCatalogNumber }
func IsInvalidArgument(err error) bool        { return KindOf(err) == KindInvalidArgument }
func IsNotFound(err error) bool               { return KindOf(err) == KindNotFound }
func IsBookAlreadyLent(err error) bool        { return KindOf(err) == KindBookAlreadyLent }
