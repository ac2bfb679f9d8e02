package entities

import "errors"

// Sentinel errors returned by services and repositories.
// Handlers classify them with errors.Is and own the HTTP status mapping;
// nothing below this layer formats user-facing responses.
var (
	// ErrNotFound indicates a referenced user, post, comment or group record
	// is absent. Records are never silently created on reference.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a malformed or self-targeting request.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indicates the operation contradicts existing state
	// (duplicate friend request, already a member, already friends).
	ErrConflict = errors.New("conflict")

	// ErrForbidden indicates the caller lacks rights over the record.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a transient store failure; safe to retry.
	ErrUnavailable = errors.New("unavailable")
)
