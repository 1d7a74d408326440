// Package apperr carries the error kinds every service returns: callers
// switch on the kind, never on message text.
package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind string

const (
	KindConflict         Kind = "CONFLICT"
	KindInvalidAmount    Kind = "INVALID_AMOUNT"
	KindNotFound         Kind = "NOT_FOUND"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
)

// Sentinels for errors.Is checks against a kind.
var (
	Conflict         = &Error{Kind: KindConflict, Msg: "conflict"}
	InvalidAmount    = &Error{Kind: KindInvalidAmount, Msg: "invalid amount"}
	NotFound         = &Error{Kind: KindNotFound, Msg: "not found"}
	StoreUnavailable = &Error{Kind: KindStoreUnavailable, Msg: "store unavailable"}
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Store wraps a store failure. Record-not-found and constraint violations
// keep their own kinds.
func Store(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Msg: msg, Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Kind: KindConflict, Msg: msg, Err: err}
	}
	return &Error{Kind: KindStoreUnavailable, Msg: msg, Err: err}
}

// KindOf extracts the kind, or "" for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
