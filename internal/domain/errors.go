package domain

import "errors"

// Error kinds. Services wrap these with fmt.Errorf("%w: ...") and the
// HTTP layer maps each kind onto a status code; callers test with
// errors.Is rather than string matching.
var (
	// ErrUnauthenticated means no valid caller identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is authenticated but not permitted
	// to perform this operation on this entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition means the requested booking status change is
	// not an edge of the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation means the request payload is malformed or violates
	// a domain rule.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means the request lost a race or would duplicate
	// existing state.
	ErrConflict = errors.New("conflict")

	// ErrUpstream means an external collaborator failed.
	ErrUpstream = errors.New("upstream failure")
)
