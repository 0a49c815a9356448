// Package apperr defines the domain error taxonomy shared by stores,
// policies, and HTTP handlers.
//
// Every failure a relationship operation can produce is a sentinel
// *Error with a stable machine-readable code and a kind that maps to
// an HTTP status. Stores return these directly; handlers translate
// them with httpjson.WriteError and never invent their own codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for HTTP mapping and retry semantics.
type Kind int

const (
	// KindNotFound means a referenced entity is absent.
	KindNotFound Kind = iota
	// KindConflict means the operation duplicates existing state
	// (already a member, already attending, duplicate club name).
	KindConflict
	// KindPrecondition means a semantic precondition failed
	// (capacity, temporal rule, inactive club, head protection).
	KindPrecondition
	// KindForbidden means an ownership or role check failed.
	KindForbidden
	// KindUnavailable means the underlying store failed. The outcome
	// of the operation is unknown; a retry is safe because every
	// mutating operation is idempotent at the store level.
	KindUnavailable
)

// Error is a domain error with a stable code.
type Error struct {
	Code    string
	Message string
	Kind    Kind
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus maps the error kind to its canonical HTTP status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

var (
	ErrUserNotFound  = &Error{Code: "user_not_found", Message: "user not found", Kind: KindNotFound}
	ErrClubNotFound  = &Error{Code: "club_not_found", Message: "club not found", Kind: KindNotFound}
	ErrEventNotFound = &Error{Code: "event_not_found", Message: "event not found", Kind: KindNotFound}

	ErrAlreadyMember    = &Error{Code: "already_member", Message: "you are already a member of this club", Kind: KindConflict}
	ErrAlreadyAttending = &Error{Code: "already_attending", Message: "you are already attending this event", Kind: KindConflict}
	ErrDuplicateClub    = &Error{Code: "duplicate_club_name", Message: "a club with this name already exists", Kind: KindConflict}
	ErrDuplicateEmail   = &Error{Code: "duplicate_email", Message: "a user with this email already exists", Kind: KindConflict}

	ErrNotMember          = &Error{Code: "not_member", Message: "you are not a member of this club", Kind: KindPrecondition}
	ErrNotAttending       = &Error{Code: "not_attending", Message: "you are not attending this event", Kind: KindPrecondition}
	ErrHeadCannotLeave    = &Error{Code: "head_cannot_leave", Message: "club head cannot leave the club", Kind: KindPrecondition}
	ErrClubInactive       = &Error{Code: "club_inactive", Message: "club is not active", Kind: KindPrecondition}
	ErrCapacityExceeded   = &Error{Code: "capacity_exceeded", Message: "event has reached maximum capacity", Kind: KindPrecondition}
	ErrEventPast          = &Error{Code: "event_past", Message: "cannot RSVP to past events", Kind: KindPrecondition}
	ErrEventDateNotFuture = &Error{Code: "event_date_not_future", Message: "event date must be in the future", Kind: KindPrecondition}
	ErrIsActiveClubHead   = &Error{Code: "is_active_club_head", Message: "cannot delete account while head of active clubs", Kind: KindPrecondition}

	ErrForbidden = &Error{Code: "forbidden", Message: "access denied", Kind: KindForbidden}
)

// Unavailable wraps a store failure. The caller must surface
// "outcome unknown", not "failed".
func Unavailable(err error) *Error {
	msg := "store unavailable; operation outcome unknown"
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Code: "store_unavailable", Message: msg, Kind: KindUnavailable}
}

// As extracts an *Error from err, if present.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
