package enrollment

import (
	"errors"
	"fmt"
)

var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrActivityExists    = errors.New("activity already exists")
	ErrAlreadyRegistered = errors.New("participant already registered")
	ErrActivityFull      = errors.New("activity is full")
	ErrNotRegistered     = errors.New("participant not registered")
	ErrActivityNotEmpty  = errors.New("activity has registered participants")
	ErrNoFieldsProvided  = errors.New("no fields provided")
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidCapacity   = errors.New("capacity below current roster size")
)

// ConflictError reports a same-weekday collision with an activity the
// participant already holds a registration in.
type ConflictError struct {
	Activity string
	Day      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict with %q on %s", e.Activity, e.Day)
}
