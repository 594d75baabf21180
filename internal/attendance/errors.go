package attendance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionUnavailable means the session does not exist or no longer
// accepts check-ins. Recoverable only by leaving the form.
var ErrSessionUnavailable = errors.New("session not found or closed")

// ErrDuplicate means duplicate suppression is enabled and the same attendee
// already checked in within the configured window.
var ErrDuplicate = errors.New("attendee already checked in")

// ValidationError reports missing required fields. No write was attempted;
// the attendee can correct the form and resubmit.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// SubmissionError means a write was attempted and the store rejected it or
// the connection failed. The attendee should be told to retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("check-in could not be saved: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
