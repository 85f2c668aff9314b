package rsvp

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOccurrenceNotFound = errors.New("occurrence not found")
	ErrAttendanceNotFound = errors.New("no active rsvp for this occurrence")
	ErrRSVPNotAllowed     = errors.New("occurrence does not take rsvps")
	ErrRSVPClosed         = errors.New("occurrence is no longer accepting attendance")
	ErrAlreadyRegistered  = errors.New("attendee already registered")
	ErrNoteTooLong        = errors.New("note is too long")

	ErrNotificationNotFound = errors.New("notification not found")
)

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}
