// Package ltzferr defines the error taxonomy of spec.md section 7:
// validation, authorization, ambiguous-match, not-found, conflict and
// infrastructure errors, as sentinel errors matched with errors.Is, the same
// shape internal/storage/sqlite/errors.go uses for its own sentinels.
package ltzferr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the purpose of HTTP status mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindAmbiguousMatch
	KindNotFound
	KindConflict
	KindInfrastructure
)

var (
	// ErrValidation covers missing fields, invalid enum values, malformed
	// identifiers, unsatisfiable query parameters and incomplete data
	// (references to unknown api_id).
	ErrValidation = errors.New("validation error")
	// ErrAuthorization covers missing, expired or deleted keys and
	// insufficient scope.
	ErrAuthorization = errors.New("authorization error")
	// ErrAmbiguousMatch is returned when the candidate resolver finds more
	// than one match; always maps to 409 on collector-push endpoints.
	ErrAmbiguousMatch = errors.New("ambiguous match")
	// ErrNotFound is returned when the target api_id is absent.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a composite-uniqueness violation that survived the
	// conflict-resolution pass -- a bug, fatal.
	ErrConflict = errors.New("conflict")
	// ErrInfrastructure covers database unavailability, mail transport
	// errors and missing configuration.
	ErrInfrastructure = errors.New("infrastructure error")
)

// Wrap annotates err with an operation label while preserving errors.Is
// matching against the sentinel.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// NotFoundf builds a not-found error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Authorizationf builds an authorization error with a formatted message.
func Authorizationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAuthorization)...)
}

// KindOf classifies err against the known sentinels, innermost match wins.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrAuthorization):
		return KindAuthorization
	case errors.Is(err, ErrAmbiguousMatch):
		return KindAmbiguousMatch
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInfrastructure):
		return KindInfrastructure
	default:
		return KindUnknown
	}
}

// AmbiguousMatchError is a typed ambiguous-match error carrying the
// conflicting stored api_ids, returned by the merge executor when the
// candidate resolver finds more than one match and surfaced to both the
// HTTP layer (409) and the notification sink.
type AmbiguousMatchError struct {
	Entity string
	ApiIDs []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%s: ambiguous match among %v", e.Entity, e.ApiIDs)
}

func (e *AmbiguousMatchError) Unwrap() error { return ErrAmbiguousMatch }

// Incomplete data is a validation error raised when a mixed embed/reference
// element references an api_id that does not resolve to an existing row.
func IncompleteDataf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
