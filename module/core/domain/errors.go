package domain

import "errors"

var (
	ErrStoreUnavailable    = errors.New("zone store unavailable")
	ErrActuatorDenied      = errors.New("ringer actuation denied: dnd access not granted")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrPlaceNotFound       = errors.New("place not found")
	ErrEmptyQuery          = errors.New("empty place query")
)
