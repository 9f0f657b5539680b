package shopping

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation.
type Kind string

const (
	KindNoPriceForStore Kind = "no_price_for_store"
	KindNoPriceRecords  Kind = "no_price_records"
	KindInvalidCategory Kind = "invalid_category"
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation"
	KindForbidden       Kind = "forbidden"
)

// Error is a user-facing rejection. Operations that fail with an Error have
// not changed any state.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches any *Error of the same kind, so callers can test against the
// sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNoPriceForStore = &Error{Kind: KindNoPriceForStore}
	ErrNoPriceRecords  = &Error{Kind: KindNoPriceRecords}
	ErrInvalidCategory = &Error{Kind: KindInvalidCategory}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrForbidden       = &Error{Kind: KindForbidden}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
