package player

import "errors"

// Custom player errors
var (
	// ErrInvalidDuration indicates a duration string that cannot be parsed
	ErrInvalidDuration = errors.New("invalid duration string")

	// ErrInvalidRoom indicates an operation on a room with no active playback loop
	ErrInvalidRoom = errors.New("no active playback loop for room")
)

// IsInvalidDuration checks if the error is an invalid duration error
func IsInvalidDuration(err error) bool {
	return errors.Is(err, ErrInvalidDuration)
}

// IsInvalidRoom checks if the error is an invalid room error
func IsInvalidRoom(err error) bool {
	return errors.Is(err, ErrInvalidRoom)
}
