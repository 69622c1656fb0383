package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicateOutreach is returned when an outreach with the same
	// (room, event id) pair has already been recorded.
	ErrDuplicateOutreach = errors.New("persistence: duplicate outreach")
	// ErrDuplicateResponse is returned when a response with the same
	// (room, event id) pair has already been recorded.
	ErrDuplicateResponse = errors.New("persistence: duplicate response")
)
