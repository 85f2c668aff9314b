package query

import (
	"errors"
)

var (
	ErrOccurrenceNotFound = errors.New("occurrence not found")
	ErrEventNotFound      = errors.New("event not found")
)
