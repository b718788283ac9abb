package errors

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid reservation argument")

	ErrNoAvailability = errors.New("no units available for the requested period")

	ErrNotFound = errors.New("reservation not found")

	ErrConfiguration = errors.New("reservation configuration error")
)
