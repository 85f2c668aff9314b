package admin

import (
	"errors"
)

var (
	ErrVenueNotFound      = errors.New("venue not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrOccurrenceNotFound = errors.New("occurrence not found")
	ErrVenueConflict      = errors.New("venue already exists")
	ErrInvalidSchedule    = errors.New("occurrence must end after it starts")
	ErrInvalidCapacity    = errors.New("capacity must not be negative")
	ErrBadStatus          = errors.New("unknown occurrence status")
	ErrBadImportHeader    = errors.New("import header must be starts_at,ends_at,capacity,rsvp_enabled")
)
