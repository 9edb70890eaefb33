package queue

import "errors"

var (
	// ErrInvalidInput means a required request field was missing or empty.
	ErrInvalidInput = errors.New("missing required field")

	// ErrDoctorNotFound means verify referenced a doctor that was never
	// registered for.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrNoMatch means no waiting registration cleared the similarity
	// threshold, or the matched one was claimed by a concurrent verify.
	ErrNoMatch = errors.New("no matching face found")
)
