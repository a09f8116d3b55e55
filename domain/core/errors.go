package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound            = errors.New("resource not found")
	ErrSensorFileNotFound  = fmt.Errorf("%w: sensor file", ErrNotFound)
	ErrUsersInfoNotFound   = fmt.Errorf("%w: users info table", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("%w: participant", ErrNotFound)

	// Input errors
	ErrMalformed     = errors.New("malformed table")
	ErrUnknownSensor = errors.New("unknown sensor kind")

	// ErrNoData means the input reduced to zero usable rows.
	ErrNoData = errors.New("no usable data")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

func NewMalformedError(source string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformed, source, reason)
}

func NewNoDataError(source string) error {
	return fmt.Errorf("%w: %s", ErrNoData, source)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsMalformedError(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrUnknownSensor)
}

func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsLoadError reports whether err belongs to the load-failure family.
func IsLoadError(err error) bool {
	return IsNotFoundError(err) || IsMalformedError(err)
}
